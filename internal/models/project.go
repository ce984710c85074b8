package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	EstimateID  uuid.NullUUID
	Title       string
	Description string
	Spec        json.RawMessage
	Status      Status
	DeveloperID uuid.NullUUID
	Files       []ProjectFile
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectFile is one attachment in a project's ordered file list.
type ProjectFile struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Specification is the document stored in Project.Spec. Field order is fixed so the
// serialized form is stable.
type Specification struct {
	Screens []LineItem `json:"screens"`
	APIs    []LineItem `json:"apis"`
}
