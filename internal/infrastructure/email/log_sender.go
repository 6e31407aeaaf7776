package email

import (
	"context"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/pkg/logger"
)

var _ auth.EmailSender = (*LogSender)(nil)

// LogSender escribe el email en el log en lugar de enviarlo. Sólo para desarrollo (SMTP_HOST vacío).
type LogSender struct {
	log *logger.Logger
}

// NewLogSender construye el sender de desarrollo.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send registra destinatario, asunto y cuerpo.
func (s *LogSender) Send(ctx context.Context, msg auth.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("email (no enviado, modo desarrollo)")
	return nil
}
