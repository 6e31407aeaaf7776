package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTourRequest entrada para crear un tour.
type CreateTourRequest struct {
	Name         string          `json:"name" validate:"required,min=10,max=40"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	MaxGroupSize int             `json:"max_group_size" validate:"required,min=1"`
	Difficulty   string          `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price        decimal.Decimal `json:"price"`
	Summary      string          `json:"summary" validate:"max=500"`
}

// TourResponse salida de un tour.
type TourResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationDays int             `json:"duration_days"`
	MaxGroupSize int             `json:"max_group_size"`
	Difficulty   string          `json:"difficulty"`
	Price        decimal.Decimal `json:"price"`
	Summary      string          `json:"summary"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TourListResponse lista paginada de tours.
type TourListResponse struct {
	Items []TourResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
