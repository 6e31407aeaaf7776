package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

var _ repository.TourRepository = (*TourRepo)(nil)

// TourRepo TourRepository en memoria.
type TourRepo struct {
	mu    sync.RWMutex
	tours map[string]entity.Tour
}

// NewTourRepository construye el repositorio vacío.
func NewTourRepository() *TourRepo {
	return &TourRepo{tours: make(map[string]entity.Tour)}
}

// Create persiste un tour; el nombre es único.
func (r *TourRepo) Create(_ context.Context, tour *entity.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tours {
		if t.Name == tour.Name {
			return domain.ErrDuplicate
		}
	}
	r.tours[tour.ID] = *tour
	return nil
}

// GetByID obtiene un tour por ID.
func (r *TourRepo) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tours[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// List lista tours por fecha de creación descendente.
func (r *TourRepo) List(_ context.Context, limit, offset int) ([]*entity.Tour, error) {
	r.mu.RLock()
	all := make([]*entity.Tour, 0, len(r.tours))
	for _, t := range r.tours {
		t := t
		all = append(all, &t)
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

// Delete elimina un tour; ErrNotFound si no existe.
func (r *TourRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tours[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tours, id)
	return nil
}
