package auth

import "context"

// EmailMessage mensaje saliente.
type EmailMessage struct {
	To      string
	Subject string
	Body    string // texto plano
}

// EmailSender puerto de envío de emails. Debe respetar la cancelación de ctx.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LoginLimiter limita los inicios de sesión fallidos por clave (email normalizado).
type LoginLimiter interface {
	// Check devuelve domain.ErrTooManyAttempts si la clave está bloqueada.
	Check(ctx context.Context, key string) error
	RegisterFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NoopLimiter LoginLimiter que nunca bloquea (sin Redis configurado).
type NoopLimiter struct{}

func (NoopLimiter) Check(context.Context, string) error           { return nil }
func (NoopLimiter) RegisterFailure(context.Context, string) error { return nil }
func (NoopLimiter) Reset(context.Context, string) error           { return nil }
