package diaries

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Sender delivers a finished diary email, optionally with a photo attached.
type Sender interface {
	Send(subject, body, attachmentPath string) error
}

// SMTPSender sends the diary through an SMTP server (STARTTLS via gomail).
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
}

func (s SMTPSender) Send(subject, body, attachmentPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if attachmentPath != "" {
		m.Attach(attachmentPath, gomail.Rename("cat_photo.jpg"))
	}

	d := gomail.NewDialer(s.Host, s.Port, s.From, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// ConsoleSender prints the diary to a writer. Used when SMTP credentials
// are not configured, and as the last resort after a delivery failure.
type ConsoleSender struct {
	Out io.Writer
}

func (c ConsoleSender) Send(subject, body, attachmentPath string) error {
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "==================================================")
	fmt.Fprintln(c.Out, "CATNAP DIARIES EMAIL")
	fmt.Fprintln(c.Out, "==================================================")
	fmt.Fprintf(c.Out, "Subject: %s\n\n", subject)
	fmt.Fprintln(c.Out, body)
	if attachmentPath != "" {
		fmt.Fprintf(c.Out, "\n[photo: %s]\n", attachmentPath)
	}
	fmt.Fprintln(c.Out, "==================================================")
	return nil
}
