package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Secrets are credentials read from the environment, never from the YAML file.
// A .env file next to the binary is loaded if present.
type Secrets struct {
	OpenAIKey     string
	EmailFrom     string
	EmailPassword string
	EmailTo       string
}

// LoadSecrets reads credentials from the environment, loading a .env file
// first when one exists. Missing values are left empty; callers decide
// whether that disables a feature (e.g., console output instead of email).
func LoadSecrets() Secrets {
	// Ignore the error: a missing .env file just means plain environment.
	_ = godotenv.Load()

	return Secrets{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailTo:       os.Getenv("EMAIL_TO"),
	}
}

// EmailConfigured reports whether all SMTP credentials are present.
func (s Secrets) EmailConfigured() bool {
	return s.EmailFrom != "" && s.EmailPassword != "" && s.EmailTo != ""
}
