// Package memory contiene adaptadores de persistencia en memoria, para desarrollo local
// (APP_STORAGE=memory) y para los tests de los casos de uso y handlers.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo UserRepository en memoria. Guarda copias: los llamadores no comparten punteros.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

// NewUserRepository construye el repositorio vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{users: make(map[string]entity.User)}
}

// Create persiste un nuevo usuario; el email es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	if !user.Role.Valid() {
		return domain.ErrInvalidRole
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = clone(user)
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return ptr(u), nil
}

// FindByEmail obtiene un usuario por email normalizado.
func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Email == email }), nil
}

// FindByResetTokenHash obtiene el usuario con ese hash de reset (vigente o no).
func (r *UserRepo) FindByResetTokenHash(_ context.Context, hash string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool {
		return u.PasswordResetTokenHash != nil && *u.PasswordResetTokenHash == hash
	}), nil
}

// SetPasswordReset guarda hash y expiración del reset.
func (r *UserRepo) SetPasswordReset(_ context.Context, id, hash string, expiresAt, at time.Time) error {
	return r.modify(id, func(u *entity.User) {
		u.SetPasswordReset(hash, expiresAt)
		u.UpdatedAt = at
	})
}

// ClearPasswordReset borra el reset si el hash guardado sigue siendo hash.
func (r *UserRepo) ClearPasswordReset(_ context.Context, id, hash string, at time.Time) error {
	err := r.modify(id, func(u *entity.User) {
		if u.PasswordResetTokenHash == nil || *u.PasswordResetTokenHash != hash {
			return
		}
		u.ClearPasswordReset()
		u.UpdatedAt = at
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// UpdatePassword guarda el nuevo hash y borra el reset.
func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	return r.modify(id, func(u *entity.User) {
		u.ChangePassword(passwordHash, changedAt)
	})
}

// Deactivate marca la baja lógica y borra el reset.
func (r *UserRepo) Deactivate(_ context.Context, id string, at time.Time) error {
	return r.modify(id, func(u *entity.User) {
		u.Active = false
		u.ClearPasswordReset()
		u.UpdatedAt = at
	})
}

// modify aplica fn sobre el usuario guardado bajo el lock de escritura.
func (r *UserRepo) modify(id string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	r.users[id] = clone(&u)
	return nil
}

// List lista usuarios por fecha de creación descendente.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	all := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, ptr(u))
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *UserRepo) findFirst(match func(*entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(&u) {
			return ptr(u)
		}
	}
	return nil
}

// clone copia el usuario incluyendo los campos puntero.
func clone(u *entity.User) entity.User {
	c := *u
	if u.PasswordChangedAt != nil {
		t := *u.PasswordChangedAt
		c.PasswordChangedAt = &t
	}
	if u.PasswordResetTokenHash != nil {
		h := *u.PasswordResetTokenHash
		c.PasswordResetTokenHash = &h
	}
	if u.PasswordResetExpiresAt != nil {
		t := *u.PasswordResetExpiresAt
		c.PasswordResetExpiresAt = &t
	}
	return c
}

func ptr(u entity.User) *entity.User {
	c := clone(&u)
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
