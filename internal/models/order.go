package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID        uuid.UUID
	UserID    uuid.NullUUID
	ProjectID uuid.NullUUID
	Amount    float64
	Currency  string
	Status    Status
	ProofURL  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}
