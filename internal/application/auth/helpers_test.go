package auth_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/infrastructure/memory"
	"github.com/jhoicas/tours-api/pkg/jwt"
	"github.com/jhoicas/tours-api/pkg/logger"
)

const (
	testSecret    = "test-secret-key-for-unit-tests-0123456789"
	testIssuer    = "tours-api-test"
	testTokenTTL  = time.Hour
	testResetBase = "http://tours.test/api/v1/auth/reset-password/"
	testPassword  = "pass1234"
)

var resetLinkRe = regexp.MustCompile(`reset-password/([0-9a-f]{64})`)

// fakeClock reloj manual compartido por codec, generador de reset y caso de uso.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 500_000_000, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeMailer guarda los mensajes; con err falla, con block espera a que venza ctx.
// onSend corre al inicio de Send, mientras el caso de uso espera la entrega.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []auth.EmailMessage
	err    error
	block  bool
	onSend func()
}

func (m *fakeMailer) Send(ctx context.Context, msg auth.EmailMessage) error {
	if m.onSend != nil {
		m.onSend()
	}
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last(t *testing.T) auth.EmailMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no se envió ningún email")
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	uc      *auth.AuthUseCase
	session *auth.SessionAuthenticator
	users   *memory.UserRepo
	hasher  *auth.BcryptHasher
	codec   *jwt.Codec
	mailer  *fakeMailer
	clock   *fakeClock
}

func newFixture(t *testing.T, limiter auth.LoginLimiter) *fixture {
	t.Helper()
	clock := newClock()
	codec, err := jwt.NewCodec(testSecret, testIssuer)
	require.NoError(t, err)
	codec = codec.WithClock(clock.Now)
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	users := memory.NewUserRepository()
	mailer := &fakeMailer{}

	uc := auth.NewAuthUseCase(auth.Deps{
		Users:   users,
		Hasher:  hasher,
		Codec:   codec,
		Resets:  auth.NewResetTokenGenerator(auth.DefaultResetWindow, clock.Now),
		Mailer:  mailer,
		Limiter: limiter,
		Log:     logger.Nop(),
	}, auth.Config{
		TokenTTL:     testTokenTTL,
		EmailTimeout: 50 * time.Millisecond,
		Now:          clock.Now,
	})
	return &fixture{
		uc:      uc,
		session: auth.NewSessionAuthenticator(users, codec),
		users:   users,
		hasher:  hasher,
		codec:   codec,
		mailer:  mailer,
		clock:   clock,
	}
}

// signup registra un usuario y devuelve su respuesta.
func (f *fixture) signup(t *testing.T, email string) *dto.AuthResponse {
	t.Helper()
	out, err := f.uc.Signup(context.Background(), dto.SignupRequest{
		Name:            "Ana",
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)
	return out
}

// user recarga el usuario del repositorio.
func (f *fixture) user(t *testing.T, id string) *entity.User {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

// forgot pide el reset y devuelve el secreto extraído del enlace del email.
func (f *fixture) forgot(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: email}, testResetBase))
	m := resetLinkRe.FindStringSubmatch(f.mailer.last(t).Body)
	require.Len(t, m, 2, "el email debe contener el enlace de reset")
	return m[1]
}
