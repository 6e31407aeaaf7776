package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

var _ repository.TourRepository = (*TourRepo)(nil)

// TourRepo implementación de TourRepository sobre PostgreSQL (usable con pool o tx).
type TourRepo struct {
	q Querier
}

// NewTourRepository construye el adaptador de persistencia para tours.
func NewTourRepository(q Querier) *TourRepo {
	return &TourRepo{q: q}
}

// Create persiste un nuevo tour.
func (r *TourRepo) Create(ctx context.Context, tour *entity.Tour) error {
	query := `
		INSERT INTO tours (id, name, duration_days, max_group_size, difficulty, price, summary, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		tour.ID, tour.Name, tour.DurationDays, tour.MaxGroupSize, tour.Difficulty,
		tour.Price, tour.Summary, tour.CreatedBy, tour.CreatedAt, tour.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput.Wrap(err)
		}
		return fmt.Errorf("insert tour: %w", err)
	}
	return nil
}

// GetByID obtiene un tour por ID.
func (r *TourRepo) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, name, duration_days, max_group_size, difficulty, price, summary, COALESCE(created_by::text, ''), created_at, updated_at
		FROM tours WHERE id = $1`
	t, err := scanTour(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tour: %w", err)
	}
	return t, nil
}

// List lista tours con paginación.
func (r *TourRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tour, error) {
	query := `
		SELECT id, name, duration_days, max_group_size, difficulty, price, summary, COALESCE(created_by::text, ''), created_at, updated_at
		FROM tours ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina un tour por ID.
func (r *TourRepo) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTour(row pgx.Row) (*entity.Tour, error) {
	var t entity.Tour
	err := row.Scan(&t.ID, &t.Name, &t.DurationDays, &t.MaxGroupSize, &t.Difficulty,
		&t.Price, &t.Summary, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
