package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/infrastructure/metrics"
)

// LocalUserID key en c.Locals con el ID del usuario autenticado. Solo para logs:
// los handlers reciben el usuario como argumento.
const LocalUserID = "user_id"

// signedOutCookie valor con el que signout sobrescribe la cookie de sesión.
const signedOutCookie = "loggedout"

// AuthedHandler handler que exige un usuario autenticado (nunca nil).
type AuthedHandler func(c *fiber.Ctx, user *entity.User) error

// OptionalHandler handler que acepta peticiones anónimas: user es nil si no hay sesión válida.
type OptionalHandler func(c *fiber.Ctx, user *entity.User) error

// SessionGuard adapta SessionAuthenticator a fiber.
type SessionGuard struct {
	auth       *auth.SessionAuthenticator
	cookieName string
	errs       *ErrorWriter
	metrics    *metrics.Metrics
}

// NewSessionGuard construye el guard. m puede ser nil.
func NewSessionGuard(a *auth.SessionAuthenticator, cookieName string, errs *ErrorWriter, m *metrics.Metrics) *SessionGuard {
	if errs == nil {
		errs = NewErrorWriter(nil, true)
	}
	return &SessionGuard{auth: a, cookieName: cookieName, errs: errs, metrics: m}
}

// Require rechaza la petición (401/403) si no hay sesión válida; si la hay llama a next con el usuario.
func (g *SessionGuard) Require(next AuthedHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := g.auth.Authenticate(c.UserContext(), g.token(c))
		if err != nil {
			g.metrics.GuardRejection("session", errorCode(err))
			return g.errs.Write(c, err)
		}
		c.Locals(LocalUserID, user.ID)
		return next(c, user)
	}
}

// Optional nunca rechaza: cualquier fallo de autenticación continúa como anónimo.
func (g *SessionGuard) Optional(next OptionalHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := g.token(c)
		if token == "" {
			return next(c, nil)
		}
		user, err := g.auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return next(c, nil)
		}
		c.Locals(LocalUserID, user.ID)
		return next(c, user)
	}
}

// RequireRole deja pasar solo a usuarios cuyo rol esté en roles; si no, 403 FORBIDDEN.
// Decora un AuthedHandler, así que solo puede montarse detrás de Require.
func (g *SessionGuard) RequireRole(roles entity.RoleSet, next AuthedHandler) AuthedHandler {
	return func(c *fiber.Ctx, user *entity.User) error {
		if user == nil || !roles.Contains(user.Role) {
			g.metrics.GuardRejection("role", domain.ErrForbidden.Code)
			return g.errs.Write(c, domain.ErrForbidden)
		}
		return next(c, user)
	}
}

// token extrae el token: el header Authorization: Bearer tiene prioridad sobre la cookie.
func (g *SessionGuard) token(c *fiber.Ctx) string {
	return tokenFromRequest(c, g.cookieName)
}

func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if tok := strings.TrimSpace(parts[1]); tok != "" {
				return tok
			}
		}
	}
	if cookieName == "" {
		return ""
	}
	tok := strings.TrimSpace(c.Cookies(cookieName))
	if tok == signedOutCookie {
		return ""
	}
	return tok
}

// GetUserID devuelve el UserID del contexto (después del guard de sesión).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
