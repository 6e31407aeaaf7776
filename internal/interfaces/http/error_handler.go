package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/pkg/logger"
)

const internalMessage = "algo salió mal, intente más tarde"

// ErrorWriter traduce errores a respuestas HTTP {code, message[, detail]}.
// detail solo se incluye fuera de producción.
type ErrorWriter struct {
	log        *logger.Logger
	production bool
}

// NewErrorWriter construye el traductor de errores.
func NewErrorWriter(log *logger.Logger, production bool) *ErrorWriter {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorWriter{log: log, production: production}
}

// Handler es el fiber.ErrorHandler de la app: los handlers solo devuelven el error.
func (w *ErrorWriter) Handler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return w.Write(c, err)
	}
}

// Write escribe la respuesta de error y la registra si es un 5xx.
func (w *ErrorWriter) Write(c *fiber.Ctx, err error) error {
	status, body := w.render(err)
	if status >= fiber.StatusInternalServerError {
		w.log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Msg("error en la petición")
	}
	return c.Status(status).JSON(body)
}

func (w *ErrorWriter) render(err error) (int, dto.ErrorResponse) {
	var de *domain.Error
	if errors.As(err, &de) {
		body := dto.ErrorResponse{Code: de.Code, Message: de.Message}
		if !w.production && de.Err != nil {
			body.Detail = de.Err.Error()
		}
		return StatusFor(de.Kind), body
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		// errores del propio fiber: 404 de ruta, 405, body demasiado grande...
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message}
	}
	body := dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage}
	if !w.production {
		body.Detail = err.Error()
	}
	return fiber.StatusInternalServerError, body
}

// StatusFor traduce el Kind de dominio a status HTTP.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindAuthentication:
		return fiber.StatusUnauthorized
	case domain.KindAuthorization:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}

// errorCode devuelve el código estable de err, o INTERNAL.
func errorCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}

// errInvalidBody cuerpo JSON ilegible.
var errInvalidBody = domain.ErrInvalidInput.WithMessage("cuerpo inválido")
