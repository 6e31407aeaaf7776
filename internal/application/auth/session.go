package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
	"github.com/jhoicas/tours-api/pkg/jwt"
)

// SessionAuthenticator autentica un token de sesión contra el almacén de identidades.
//
// Estados: sin token → token verificado → identidad cargada → activa → fresca → autenticado.
// Cada transición fallida devuelve un *domain.Error distinto.
type SessionAuthenticator struct {
	users repository.UserRepository
	codec *jwt.Codec
}

// NewSessionAuthenticator construye el autenticador.
func NewSessionAuthenticator(users repository.UserRepository, codec *jwt.Codec) *SessionAuthenticator {
	return &SessionAuthenticator{users: users, codec: codec}
}

// Authenticate devuelve la identidad dueña de token o el motivo del rechazo.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	claims, err := a.codec.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired.Wrap(err)
		}
		return nil, domain.ErrInvalidToken.Wrap(err)
	}
	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, domain.ErrPasswordChanged
	}
	return user, nil
}
