package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/application/usecase"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/infrastructure/memory"
	"github.com/jhoicas/tours-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/tours-api/internal/interfaces/http"
	"github.com/jhoicas/tours-api/pkg/jwt"
	"github.com/jhoicas/tours-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests-0123456789"
	testIssuer     = "tours-api-test"
	testCookieName = "jwt"
	testPassword   = "pass1234"
	testPublicURL  = "https://api.tours.test"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []auth.EmailMessage
}

func (m *recordingMailer) Send(_ context.Context, msg auth.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last() auth.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return auth.EmailMessage{}
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	app    *fiber.App
	users  *memory.UserRepo
	codec  *jwt.Codec
	hasher *auth.BcryptHasher
	mailer *recordingMailer
}

// newTestEnv construye la app completa (router real) sobre repositorios en memoria.
func newTestEnv(t *testing.T, production bool) *testEnv {
	t.Helper()
	codec, err := jwt.NewCodec(testJWTSecret, testIssuer)
	require.NoError(t, err)
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	users := memory.NewUserRepository()
	mailer := &recordingMailer{}
	validator := dto.NewValidator()
	m := metrics.New(prometheus.NewRegistry())

	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:     users,
		Hasher:    hasher,
		Codec:     codec,
		Resets:    auth.NewResetTokenGenerator(auth.DefaultResetWindow, nil),
		Mailer:    mailer,
		Validator: validator,
		Log:       logger.Nop(),
	}, auth.Config{TokenTTL: time.Hour})

	errs := apphttp.NewErrorWriter(logger.Nop(), production)
	app := fiber.New(fiber.Config{ErrorHandler: errs.Handler()})
	app.Use(m.Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	guard := apphttp.NewSessionGuard(auth.NewSessionAuthenticator(users, codec), testCookieName, errs, m)
	apphttp.Router(app, apphttp.RouterDeps{
		Auth:  apphttp.NewAuthHandler(authUC, apphttp.CookieConfig{Name: testCookieName, TTL: time.Hour, Secure: production}, testPublicURL, m),
		Users: apphttp.NewUserHandler(usecase.NewUserUseCase(users)),
		Tours: apphttp.NewTourHandler(usecase.NewTourUseCase(memory.NewTourRepository(), validator)),
		Guard: guard,
	})
	return &testEnv{app: app, users: users, codec: codec, hasher: hasher, mailer: mailer}
}

// createUser persiste un usuario con el rol indicado y devuelve un token válido para él.
func (e *testEnv) createUser(t *testing.T, email string, role entity.Role) (*entity.User, string) {
	t.Helper()
	hash, err := e.hasher.Hash(testPassword)
	require.NoError(t, err)
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Test",
		Photo:        entity.DefaultPhoto,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	tok, err := e.codec.Issue(u.ID, time.Hour)
	require.NoError(t, err)
	return u, tok
}

type reqOpt func(*http.Request)

func bearer(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func host(h string) reqOpt {
	return func(r *http.Request) { r.Host = h }
}

func cookie(tok string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: testCookieName, Value: tok}) }
}

// do lanza la petición contra la app y devuelve la respuesta.
func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOpt) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
