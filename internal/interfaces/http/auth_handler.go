package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/infrastructure/metrics"
)

// ResetPasswordPath ruta (bajo el host) a la que apunta el enlace del email de reset.
const ResetPasswordPath = "/api/v1/auth/reset-password/"

// signedOutCookieTTL vida de la cookie "loggedout" que deja signout.
const signedOutCookieTTL = 10 * time.Second

// CookieConfig cookie de sesión.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool // true en producción
}

// AuthHandler maneja registro, login y gestión de contraseña.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	cookie    CookieConfig
	resetBase string
	metrics   *metrics.Metrics
}

// NewAuthHandler construye el handler de auth. publicURL es la base de los enlaces de reset
// (APP_PUBLIC_URL); el Host de la petición no se usa. m puede ser nil.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig, publicURL string, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		uc:        uc,
		cookie:    cookie,
		resetBase: strings.TrimRight(publicURL, "/") + ResetPasswordPath,
		metrics:   m,
	}
}

// Signup godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "name, email, password, passwordConfirm"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Signup(c.UserContext(), in)
	h.record("signup", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, out.Token)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Signin godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var in dto.SigninRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Signin(c.UserContext(), in)
	h.record("signin", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

// Signout godoc
// @Summary      Cerrar sesión (sobrescribe la cookie)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/v1/auth/signout [get]
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    signedOutCookie,
		Expires:  time.Now().Add(signedOutCookieTTL),
		MaxAge:   int(signedOutCookieTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	h.record("signout", nil)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Session godoc
// @Summary      Estado de la sesión actual (no falla sin sesión)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx, user *entity.User) error {
	if user == nil {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	return c.JSON(dto.SessionResponse{Authenticated: true, User: auth.ToUserResponse(user)})
}

// ForgotPassword godoc
// @Summary      Solicitar email de restablecimiento
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	err := h.uc.ForgotPassword(c.UserContext(), in, h.resetBase)
	h.record("forgot_password", err)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "token enviado al email"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con el token del email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path  string                    true  "token de restablecimiento"
// @Param        body   body  dto.ResetPasswordRequest  true  "password, passwordConfirm"
// @Success      200    {object}  dto.AuthResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-password/{token} [patch]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.ResetPassword(c.UserContext(), c.Params("token"), in)
	h.record("reset_password", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

// UpdatePassword godoc
// @Summary      Cambiar la contraseña del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePasswordRequest  true  "currentPassword, password, passwordConfirm"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/update-password [patch]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx, user *entity.User) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.UpdatePassword(c.UserContext(), user, in)
	h.record("update_password", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	if h.cookie.Name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Expires:  time.Now().Add(h.cookie.TTL),
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) record(op string, err error) {
	if err != nil {
		h.metrics.AuthOperation(op, errorCode(err))
		return
	}
	h.metrics.AuthOperation(op, "ok")
}
