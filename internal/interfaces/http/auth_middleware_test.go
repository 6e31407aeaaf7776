package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	apphttp "github.com/jhoicas/tours-api/internal/interfaces/http"
	"github.com/jhoicas/tours-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Guard de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestRequire_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestRequire_TokenInvalido_Retorna401(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer("token.invalido.aqui"))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequire_BearerValido_PasaElUsuarioAlHandler(t *testing.T) {
	env := newTestEnv(t, false)
	u, tok := env.createUser(t, "ana@example.com", entity.RoleUser)

	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer(tok))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, u.ID, me.ID)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestRequire_CookieValida(t *testing.T) {
	env := newTestEnv(t, false)
	u, tok := env.createUser(t, "ana@example.com", entity.RoleUser)

	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, cookie(tok))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, u.ID, decode[dto.UserResponse](t, resp).ID)
}

func TestRequire_HeaderTienePrioridadSobreCookie(t *testing.T) {
	env := newTestEnv(t, false)
	_, tok := env.createUser(t, "ana@example.com", entity.RoleUser)

	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer("token.invalido.aqui"), cookie(tok))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el header inválido gana aunque la cookie sea válida")
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequire_CookieDeSignoutEsSinSesion(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, cookie("loggedout"))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequire_UsuarioInactivo_Retorna403(t *testing.T) {
	env := newTestEnv(t, false)
	u, tok := env.createUser(t, "ana@example.com", entity.RoleUser)
	require.NoError(t, env.users.Deactivate(context.Background(), u.ID, time.Now()))

	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer(tok))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "USER_INACTIVE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequire_UsuarioEliminado_Retorna401(t *testing.T) {
	env := newTestEnv(t, false)
	tok, err := env.codec.Issue("00000000-0000-0000-0000-000000000099", time.Hour)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/api/v1/users/me", nil, bearer(tok))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	_, tok := env.createUser(t, "admin@example.com", entity.RoleAdmin)
	env.createUser(t, "ana@example.com", entity.RoleUser)

	resp := env.do(t, http.MethodGet, "/api/v1/users", nil, bearer(tok))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.UserListResponse](t, resp)
	assert.Len(t, list.Items, 2)
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	_, tok := env.createUser(t, "ana@example.com", entity.RoleUser)

	resp := env.do(t, http.MethodGet, "/api/v1/users", nil, bearer(tok))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "no tiene permiso para realizar esta acción", body.Message)
}

func TestRequireRole_SinSesionEs401Antes(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el guard de sesión corre antes que el de rol")
}

func TestRequireRole_MultiRol(t *testing.T) {
	cases := []struct {
		role entity.Role
		want int
	}{
		{entity.RoleAdmin, http.StatusCreated},
		{entity.RoleLeadGuide, http.StatusCreated},
		{entity.RoleGuide, http.StatusForbidden},
		{entity.RoleUser, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			env := newTestEnv(t, false)
			_, tok := env.createUser(t, "x@example.com", tc.role)
			resp := env.do(t, http.MethodPost, "/api/v1/tours", dto.CreateTourRequest{
				Name: "The Forest Hiker", DurationDays: 5, MaxGroupSize: 25, Difficulty: "easy",
				Price: decimal.RequireFromString("397.50"),
			}, bearer(tok))
			resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_Idempotente(t *testing.T) {
	errs := apphttp.NewErrorWriter(logger.Nop(), false)
	guard := apphttp.NewSessionGuard(nil, testCookieName, errs, nil)
	roles := entity.NewRoleSet(entity.RoleAdmin, entity.RoleLeadGuide)
	ok := func(c *fiber.Ctx, _ *entity.User) error { return c.SendStatus(http.StatusOK) }

	once := guard.RequireRole(roles, ok)
	twice := guard.RequireRole(roles, guard.RequireRole(roles, ok))

	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide, entity.RoleUser} {
		u := &entity.User{ID: "u1", Role: role, Active: true}
		a := runAuthed(t, once, u)
		b := runAuthed(t, twice, u)
		assert.Equal(t, a, b, "rol %s", role)
		for i := 0; i < 3; i++ {
			assert.Equal(t, a, runAuthed(t, once, u), "misma entrada, misma decisión")
		}
	}
}

// runAuthed monta h con un usuario fijo (sin guard de sesión) y devuelve el status.
func runAuthed(t *testing.T, h apphttp.AuthedHandler, u *entity.User) int {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorWriter(logger.Nop(), false).Handler()})
	app.Get("/x", func(c *fiber.Ctx) error { return h(c, u) })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard opcional
// ──────────────────────────────────────────────────────────────────────────────

func TestOptional_Anonimo(t *testing.T) {
	env := newTestEnv(t, false)
	for _, opts := range [][]reqOpt{nil, {bearer("token.invalido.aqui")}, {cookie("loggedout")}} {
		resp := env.do(t, http.MethodGet, "/api/v1/auth/session", nil, opts...)
		require.Equal(t, http.StatusOK, resp.StatusCode, "el guard opcional nunca rechaza")
		s := decode[dto.SessionResponse](t, resp)
		assert.False(t, s.Authenticated)
		assert.Nil(t, s.User)
	}
}

func TestOptional_ConSesion(t *testing.T) {
	env := newTestEnv(t, false)
	u, tok := env.createUser(t, "ana@example.com", entity.RoleGuide)

	resp := env.do(t, http.MethodGet, "/api/v1/auth/session", nil, cookie(tok))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decode[dto.SessionResponse](t, resp)
	assert.True(t, s.Authenticated)
	require.NotNil(t, s.User)
	assert.Equal(t, u.ID, s.User.ID)
	assert.Equal(t, "guide", s.User.Role)
}

func TestOptional_UsuarioInactivoEsAnonimo(t *testing.T) {
	env := newTestEnv(t, false)
	u, tok := env.createUser(t, "ana@example.com", entity.RoleUser)
	require.NoError(t, env.users.Deactivate(context.Background(), u.ID, time.Now()))

	resp := env.do(t, http.MethodGet, "/api/v1/auth/session", nil, bearer(tok))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.SessionResponse](t, resp).Authenticated)
}
