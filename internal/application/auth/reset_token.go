package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	resetSecretBytes = 32
	// DefaultResetWindow vigencia del secreto de restablecimiento.
	DefaultResetWindow = 10 * time.Minute
)

// Resultados de ResetTokenGenerator.Verify.
var (
	ErrResetTokenMismatch = errors.New("reset: el secreto no coincide")
	ErrResetTokenExpired  = errors.New("reset: el secreto expiró")
)

// ResetTokenGenerator produce secretos de un solo uso y su hash SHA-256.
// El secreto es de alta entropía, por eso basta un digest rápido (no bcrypt).
type ResetTokenGenerator struct {
	window time.Duration
	now    func() time.Time
	rand   func([]byte) (int, error)
}

// NewResetTokenGenerator construye el generador con la ventana de validez indicada.
func NewResetTokenGenerator(window time.Duration, now func() time.Time) *ResetTokenGenerator {
	if window <= 0 {
		window = DefaultResetWindow
	}
	if now == nil {
		now = time.Now
	}
	return &ResetTokenGenerator{window: window, now: now, rand: rand.Read}
}

// Generate devuelve el secreto en claro (se entrega una sola vez), su hash y la expiración.
func (g *ResetTokenGenerator) Generate() (secret, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := g.rand(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generar secreto de reset: %w", err)
	}
	secret = hex.EncodeToString(buf)
	return secret, HashResetSecret(secret), g.now().Add(g.window), nil
}

// Verify compara candidate contra storedHash en tiempo constante y comprueba la expiración.
// No modifica ningún estado: limpiar el reset es responsabilidad del caso de uso.
func (g *ResetTokenGenerator) Verify(candidate, storedHash string, expiresAt time.Time) error {
	computed := HashResetSecret(candidate)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) != 1 {
		return ErrResetTokenMismatch
	}
	if g.now().After(expiresAt) {
		return ErrResetTokenExpired
	}
	return nil
}

// HashResetSecret digest hex SHA-256 del secreto; es lo único que se persiste.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
