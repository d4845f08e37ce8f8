package diaries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// Generator produces the diary email body for a sighting.
type Generator interface {
	Generate(ctx context.Context, colorWord string, at time.Time) (string, error)
}

// OpenAIClient generates diary emails via the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewOpenAIClient creates a client for the given model.
func NewOpenAIClient(apiKey, model string, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate asks the model for a short email written from the cat's
// perspective. Quota and network failures wrap ErrGeneration so callers
// can fall back to the static email.
func (c *OpenAIClient) Generate(ctx context.Context, colorWord string, at time.Time) (string, error) {
	prompt := fmt.Sprintf(`Write a short, funny email (2-3 paragraphs) from the perspective of a %s cat.
The cat is writing to their human about what they've been up to at %s.
The cat was just spotted lounging around on their favorite perch or bed.

Make it humorous and include typical cat behaviors like:
- Being dramatic about simple things
- Complaining about the human being away
- Taking credit for "guarding" the house
- Mentioning important cat activities like napping, watching birds, etc.

Format it as a proper email with a subject line and signature from the cat.
Keep it light-hearted and entertaining.`, colorWord, at.Format("3:04 PM"))

	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.8,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrGeneration, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrGeneration, err)
	}
	if openAIResp.Error != nil {
		return "", fmt.Errorf("%w: API error: %s", ErrGeneration, openAIResp.Error.Message)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	return openAIResp.Choices[0].Message.Content, nil
}
