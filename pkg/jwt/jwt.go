package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength longitud mínima de la clave HS256.
const MinSecretLength = 32

// Causas de fallo de Verify.
var (
	ErrTokenMalformed = errors.New("jwt: token mal formado")
	ErrTokenSignature = errors.New("jwt: firma o algoritmo inválido")
	ErrTokenExpired   = errors.New("jwt: token expirado")
)

// Claims claims de un token de sesión: sólo sujeto, emisión y expiración.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec firma y verifica tokens de sesión HS256 con una clave de proceso.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec construye el codec. La clave debe tener al menos MinSecretLength bytes.
func NewCodec(secret, issuer string) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt: secret debe tener al menos %d bytes", MinSecretLength)
	}
	return &Codec{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// WithClock devuelve una copia del codec con otro reloj (tests).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue genera un token firmado para subject que expira en now+ttl.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("jwt: subject vacío")
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify valida firma, algoritmo (sólo HS256), emisor y expiración.
// Devuelve ErrTokenMalformed, ErrTokenSignature o ErrTokenExpired según la causa.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &rc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if rc.Subject == "" || rc.IssuedAt == nil {
		return nil, ErrTokenMalformed
	}
	return &Claims{
		Subject:   rc.Subject,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
