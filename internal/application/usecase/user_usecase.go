package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// Me proyecta el usuario autenticado.
func (uc *UserUseCase) Me(user *entity.User) (*dto.UserResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return auth.ToUserResponse(user), nil
}

// Deactivate desactiva la cuenta del usuario (borrado lógico). Sus tokens dejan de valer.
func (uc *UserUseCase) Deactivate(ctx context.Context, user *entity.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	now := uc.now()
	if err := uc.repo.Deactivate(ctx, user.ID, now); err != nil {
		return err
	}
	user.Active = false
	user.ClearPasswordReset()
	user.UpdatedAt = now
	return nil
}

// List lista usuarios con paginación (solo administradores).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
