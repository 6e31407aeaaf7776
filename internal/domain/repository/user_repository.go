package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Find* devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*entity.User, error)
	// Las escrituras tocan solo sus columnas: un llamador con una copia vieja del usuario
	// no puede pisar un cambio de contraseña concurrente. Devuelven domain.ErrNotFound si el id no existe.

	// SetPasswordReset guarda hash y expiración del reset.
	SetPasswordReset(ctx context.Context, id, hash string, expiresAt, at time.Time) error
	// ClearPasswordReset borra el reset solo si el hash guardado sigue siendo hash. Si otro flujo
	// ya lo reemplazó o consumió (o el usuario no existe) no hace nada.
	ClearPasswordReset(ctx context.Context, id, hash string, at time.Time) error
	// UpdatePassword guarda el nuevo hash, fija password_changed_at y borra el reset.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// Deactivate marca la baja lógica y borra el reset.
	Deactivate(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
