package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-0123456789"

func envViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := fromViper(envViper())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 90*24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "jwt", cfg.JWT.CookieName)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetWindow)
	assert.Equal(t, 10*time.Second, cfg.Auth.EmailTimeout)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "http://localhost:8080", cfg.App.PublicURL)
}

func TestFromViper_PublicURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("APP_PUBLIC_URL", "https://api.natours.io/")

	cfg, err := fromViper(envViper())
	require.NoError(t, err)
	assert.Equal(t, "https://api.natours.io", cfg.App.PublicURL)

	t.Setenv("APP_PUBLIC_URL", "api.natours.io")
	_, err = fromViper(envViper())
	assert.ErrorContains(t, err, "APP_PUBLIC_URL")

	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PUBLIC_URL", "http://api.natours.io")
	_, err = fromViper(envViper())
	assert.ErrorContains(t, err, "https")
}

func TestFromViper_SinSecretEsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := fromViper(envViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromViper_ValoresInvalidos(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("AUTH_BCRYPT_COST", "99")
	t.Setenv("JWT_EXPIRATION_MINUTES", "noventa")
	t.Setenv("APP_STORAGE", "mongo")

	_, err := fromViper(envViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_BCRYPT_COST")
	assert.Contains(t, err.Error(), "JWT_EXPIRATION_MINUTES")
	assert.Contains(t, err.Error(), "APP_STORAGE")
}

func TestFromViper_MemoriaNoPermitidaEnProduccion(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_STORAGE", "memory")

	_, err := fromViper(envViper())
	assert.ErrorContains(t, err, "producción")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "tours", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/tours?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
