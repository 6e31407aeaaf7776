// Package email implementa el puerto auth.EmailSender.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/pkg/config"
)

var _ auth.EmailSender = (*SMTPSender)(nil)

// dialer abstrae *gomail.Dialer para poder probar el manejo de timeouts.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía emails por SMTP con gomail.
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender construye el sender a partir de la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send arma el mensaje y lo envía. gomail no acepta contexto, así que el envío corre en una
// goroutine y Send vuelve en cuanto ctx se cancela o vence.
func (s *SMTPSender) Send(ctx context.Context, msg auth.EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
