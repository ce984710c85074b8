package models

import "time"

type FinalizeResponse struct {
	URL string `json:"url"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type EstimateResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Screens        []LineItem `json:"screens"`
	APIs           []LineItem `json:"apis"`
	TotalHours     float64    `json:"total_hours"`
	TotalCost      float64    `json:"total_cost"`
	Complexity     Complexity `json:"complexity"`
	Status         Status     `json:"status"`
	ServiceOfferID string     `json:"service_offer_id,omitempty"`
	ProofURL       string     `json:"proof_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ProjectResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	EstimateID  string        `json:"estimate_id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Spec        string        `json:"spec"`
	Status      Status        `json:"status"`
	DeveloperID *string       `json:"developer_id"`
	Files       []ProjectFile `json:"files"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type ProjectSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderResponse struct {
	ID        string    `json:"order_id"`
	ProjectID string    `json:"project_id,omitempty"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    Status    `json:"status"`
	ProofURL  string    `json:"proof_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HistoryEntry struct {
	Action string    `json:"action"`
	From   Status    `json:"from,omitempty"`
	To     Status    `json:"to"`
	Actor  string    `json:"actor,omitempty"`
	At     time.Time `json:"at"`
}

type HistoryResponse struct {
	EstimateID string         `json:"estimate_id"`
	Events     []HistoryEntry `json:"events"`
}

type MeResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// FromEstimate converts an estimate to its wire form.
func FromEstimate(e *Estimate) EstimateResponse {
	resp := EstimateResponse{
		ID:         e.ID.String(),
		Title:      e.Title,
		Summary:    e.Summary,
		Screens:    nonNilItems(e.Screens),
		APIs:       nonNilItems(e.APIs),
		TotalHours: e.TotalHours,
		TotalCost:  e.TotalCost,
		Complexity: e.Complexity,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.ServiceOfferID.Valid {
		resp.ServiceOfferID = e.ServiceOfferID.UUID.String()
	}
	if e.ProofURL.Valid {
		resp.ProofURL = e.ProofURL.String
	}
	return resp
}

func FromProject(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Title:       p.Title,
		Description: p.Description,
		Spec:        string(p.Spec),
		Status:      p.Status,
		Files:       p.Files,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Files == nil {
		resp.Files = []ProjectFile{}
	}
	if p.EstimateID.Valid {
		resp.EstimateID = p.EstimateID.UUID.String()
	}
	if p.DeveloperID.Valid {
		id := p.DeveloperID.UUID.String()
		resp.DeveloperID = &id
	}
	return resp
}

func FromOrder(o *Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID.String(),
		Amount:    o.Amount,
		Currency:  o.Currency,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.ProjectID.Valid {
		resp.ProjectID = o.ProjectID.UUID.String()
	}
	if o.ProofURL.Valid {
		resp.ProofURL = o.ProofURL.String
	}
	return resp
}

func nonNilItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}
