package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dificultades válidas de un Tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour representa un tour publicado.
type Tour struct {
	ID           string
	Name         string // único
	DurationDays int
	MaxGroupSize int
	Difficulty   string
	Price        decimal.Decimal
	Summary      string
	CreatedBy    string // ID del usuario que lo creó
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
