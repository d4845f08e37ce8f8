// Package diaries turns a cat sighting into a whimsical email: a
// text-generation collaborator writes the body and an email collaborator
// delivers it with the photo attached. Both collaborators are allowed to
// fail; the diary always goes out in some form.
package diaries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/logic/classify"
	"github.com/catnap-watch/catnap/internal/logic/watch"
)

var (
	// ErrGeneration means the text-generation collaborator failed; the
	// static fallback email is used instead.
	ErrGeneration = errors.New("diary generation failed")

	// ErrDelivery means the email collaborator failed. Non-fatal: the
	// diary is echoed to the console and the watch loop continues.
	ErrDelivery = errors.New("diary delivery failed")
)

const defaultSubject = "CatNap Watch Update! 🐱"

// Diaries is the watch-loop notifier: generate, then send.
type Diaries struct {
	gen      Generator // nil means always use the fallback email
	sender   Sender
	fallback ConsoleSender
}

// New creates a Diaries notifier. gen may be nil (no API key configured);
// sender must not be.
func New(gen Generator, sender Sender, fallback ConsoleSender) *Diaries {
	return &Diaries{gen: gen, sender: sender, fallback: fallback}
}

// Notify generates and sends the diary for one capture event. A generation
// failure downgrades to the static email; a delivery failure echoes the
// diary to the console and returns a wrapped ErrDelivery for the caller to
// log. The saved photo is never touched.
func (d *Diaries) Notify(ctx context.Context, ev watch.Event) error {
	colorWord := ColorWord(ev.Color)

	content := ""
	if d.gen != nil {
		generated, err := d.gen.Generate(ctx, colorWord, ev.Time)
		if err != nil {
			debug.Error(err)
		} else {
			content = generated
		}
	}
	if content == "" {
		debug.Info("Using fallback diary email for %s cat", colorWord)
		content = FallbackEmail(colorWord, ev.Time)
	}

	subject, body := SplitSubject(content)

	attachment := ""
	if ev.Photo != nil {
		attachment = ev.Photo.Path
	}

	if err := d.sender.Send(subject, body, attachment); err != nil {
		_ = d.fallback.Send(subject, body, attachment)
		return fmt.Errorf("send diary: %w", err)
	}
	debug.Info("Cat diary sent (%s cat)", colorWord)
	return nil
}

// ColorWord maps a classification color to the word used in the diary.
// An unknown color yields "mysterious", which reads better in an email
// than "unknown".
func ColorWord(c classify.ColorClass) string {
	switch c {
	case classify.ColorLight:
		return "light"
	case classify.ColorDark:
		return "dark"
	default:
		return "mysterious"
	}
}

// SplitSubject extracts a leading "Subject:" line from generated content,
// falling back to the default subject when none is present.
func SplitSubject(content string) (subject, body string) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Subject:") {
			subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
			body = strings.TrimSpace(strings.Join(append(lines[:i:i], lines[i+1:]...), "\n"))
			return subject, body
		}
	}
	return defaultSubject, strings.TrimSpace(content)
}

// FallbackEmail is the static diary used when generation fails or no API
// key is configured.
func FallbackEmail(colorWord string, at time.Time) string {
	title := strings.ToUpper(colorWord[:1]) + colorWord[1:]
	return fmt.Sprintf(`Subject: Your %s Cat Reporting In! 📸

Dear Human,

It's %s and I've been spotted on my throne again! I've been very busy today doing important cat things like:

- Guarding the house from suspicious dust particles
- Testing the warmth of my favorite sunny spot (still perfect)
- Judging your life choices from afar

I noticed you're not here to serve me properly. This is unacceptable. I demand treats upon your return.

Your Furry Overlord,
The %s Cat 🐱

P.S. The red dot is still missing. Please find it immediately.`, colorWord, at.Format("3:04 PM"), title)
}
