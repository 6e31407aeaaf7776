package repository

import (
	"context"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// TourRepository define el puerto de persistencia para Tour (DIP).
type TourRepository interface {
	Create(ctx context.Context, tour *entity.Tour) error
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tour, error)
	Delete(ctx context.Context, id string) error
}
