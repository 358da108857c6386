package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send delivers one plain-text message over SMTP. The dial-and-send runs
// in its own goroutine so the context deadline bounds a transport that
// never answers; a timed-out send is reported as a normal failure.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send to %s: %w", to, err)
		}
	}

	// SMTP gives us no message id back; mint one for tracking.
	return uuid.New().String(), nil
}
