package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ClassifyComplexity buckets an estimate by its total hours.
func ClassifyComplexity(totalHours float64) Complexity {
	switch {
	case totalHours < 40:
		return ComplexityLow
	case totalHours < 120:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// LineItem is one row of an estimate's screens or apis group.
type LineItem struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description,omitempty"`
	Hours       float64 `json:"hours" binding:"gte=0"`
}

type Estimate struct {
	ID             uuid.UUID
	UserID         uuid.NullUUID
	Title          string
	Summary        string
	Screens        []LineItem
	APIs           []LineItem
	TotalHours     float64
	TotalCost      float64
	Complexity     Complexity
	Status         Status
	ServiceOfferID uuid.NullUUID
	ProofURL       sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SumHours totals both line-item groups.
func SumHours(groups ...[]LineItem) float64 {
	var total float64
	for _, group := range groups {
		for _, item := range group {
			total += item.Hours
		}
	}
	return total
}
