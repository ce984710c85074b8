package models

type CreateEstimateRequest struct {
	Title          string     `json:"title" binding:"required"`
	Summary        string     `json:"summary"`
	Screens        []LineItem `json:"screens" binding:"dive"`
	APIs           []LineItem `json:"apis" binding:"dive"`
	ServiceOfferID string     `json:"service_offer_id,omitempty" binding:"omitempty,uuid"`
}

// UpdateStatusRequest is the admin checkout status patch. Field names follow the
// dashboard client, which sends camelCase.
type UpdateStatusRequest struct {
	EstimateID string `json:"estimateId" binding:"required,uuid"`
	Status     string `json:"status" binding:"required"`
}

type RevertRequest struct {
	EstimateID string `json:"estimateId" binding:"required,uuid"`
	// Confirm must be true; the admin UI asks before sending it.
	Confirm bool `json:"confirm"`
}

type AssignDeveloperRequest struct {
	// DeveloperID nil clears the assignment.
	DeveloperID *string `json:"developer_id" binding:"omitempty,uuid"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
