package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

// TourUseCase casos de uso CRUD para tours.
type TourUseCase struct {
	repo     repository.TourRepository
	validate *dto.Validator
	now      func() time.Time
}

// NewTourUseCase construye el caso de uso.
func NewTourUseCase(repo repository.TourRepository, v *dto.Validator) *TourUseCase {
	if v == nil {
		v = dto.NewValidator()
	}
	return &TourUseCase{repo: repo, validate: v, now: time.Now}
}

// Create crea un tour a nombre de createdBy. El precio debe ser positivo.
func (uc *TourUseCase) Create(ctx context.Context, createdBy string, in dto.CreateTourRequest) (*dto.TourResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if err := uc.validate.Validate(in); err != nil {
		return nil, err
	}
	if !in.Price.IsPositive() {
		return nil, domain.ErrInvalidInput.WithMessage("price debe ser mayor que 0")
	}
	now := uc.now()
	tour := &entity.Tour{
		ID:           uuid.New().String(),
		Name:         in.Name,
		DurationDays: in.DurationDays,
		MaxGroupSize: in.MaxGroupSize,
		Difficulty:   in.Difficulty,
		Price:        in.Price.Round(2),
		Summary:      strings.TrimSpace(in.Summary),
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, tour); err != nil {
		return nil, err
	}
	return toTourResponse(tour), nil
}

// GetByID obtiene un tour por ID; domain.ErrNotFound si no existe.
func (uc *TourUseCase) GetByID(ctx context.Context, id string) (*dto.TourResponse, error) {
	tour, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, domain.ErrNotFound.WithMessage("tour no encontrado")
	}
	return toTourResponse(tour), nil
}

// List lista tours con paginación.
func (uc *TourUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.TourListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TourResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTourResponse(t))
	}
	return &dto.TourListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un tour por ID.
func (uc *TourUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toTourResponse(t *entity.Tour) *dto.TourResponse {
	if t == nil {
		return nil
	}
	return &dto.TourResponse{
		ID:           t.ID,
		Name:         t.Name,
		DurationDays: t.DurationDays,
		MaxGroupSize: t.MaxGroupSize,
		Difficulty:   t.Difficulty,
		Price:        t.Price,
		Summary:      t.Summary,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
