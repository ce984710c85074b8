package lifecycle

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/audit"
	"agency-backend/internal/models"
	"agency-backend/internal/permissions"
)

// GetEstimate returns an estimate visible to the caller.
func (m *Manager) GetEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	admin := m.gate.IsAdmin(ctx)

	var out *models.Estimate
	err := m.store.WithTx(ctx, func(tx Tx) error {
		e, err := m.loadEstimate(ctx, tx, id, user, admin)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, m.fail("get_estimate", id, err)
	}
	return out, nil
}

// ListProjects returns the caller's projects, or every project for callers allowed to
// read all of them.
func (m *Manager) ListProjects(ctx context.Context) ([]models.Project, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	owner := user.ID
	if m.gate.HasPermission(ctx, permissions.PermProjectsReadAll) {
		owner = uuid.Nil
	}

	var out []models.Project
	err := m.store.WithTx(ctx, func(tx Tx) error {
		projects, err := tx.ListProjects(ctx, owner)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		out = projects
		return nil
	})
	if err != nil {
		return nil, m.fail("list_projects", uuid.Nil, err)
	}
	return out, nil
}

func (m *Manager) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}

	var out *models.Project
	err := m.store.WithTx(ctx, func(tx Tx) error {
		p, err := m.loadProject(ctx, tx, id, user)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, m.fail("get_project", uuid.Nil, err)
	}
	return out, nil
}

// AssignDeveloper sets or clears the project's developer. Admin only.
func (m *Manager) AssignDeveloper(ctx context.Context, projectID uuid.UUID, developerID uuid.NullUUID) (*models.Project, error) {
	if !m.gate.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	var out *models.Project
	err := m.store.WithTx(ctx, func(tx Tx) error {
		p, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if p == nil {
			return ErrProjectNotFound
		}
		if err := tx.SetProjectDeveloper(ctx, projectID, developerID); err != nil {
			return fmt.Errorf("failed to assign developer: %w", err)
		}
		p.DeveloperID = developerID
		out = p
		return nil
	})
	if err != nil {
		return nil, m.fail("assign_developer", uuid.Nil, err)
	}

	m.logger.Info("project developer updated",
		zap.String("project_id", projectID.String()),
		zap.Bool("assigned", developerID.Valid),
	)
	return out, nil
}

// AddProjectFile stores an attachment and appends it to the project's file list.
// upload runs once the caller is authorized and the project exists.
func (m *Manager) AddProjectFile(ctx context.Context, projectID uuid.UUID, name, contentType string, upload func(p *models.Project) (string, error)) (*models.ProjectFile, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	if !m.gate.HasPermission(ctx, permissions.PermProjectFilesWrite) {
		return nil, ErrForbidden
	}
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return nil, ErrInvalidFile
	}

	var project *models.Project
	err := m.store.WithTx(ctx, func(tx Tx) error {
		p, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if p == nil {
			return ErrProjectNotFound
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, m.fail("add_project_file", uuid.Nil, err)
	}

	url, err := upload(project)
	if err != nil {
		return nil, m.fail("add_project_file_upload", uuid.Nil, err)
	}

	file := models.ProjectFile{
		Name:       name,
		URL:        url,
		Type:       contentType,
		UploadedAt: m.now().UTC(),
	}
	err = m.store.WithTx(ctx, func(tx Tx) error {
		p, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if p == nil {
			return ErrProjectNotFound
		}
		if err := tx.AppendProjectFile(ctx, projectID, file); err != nil {
			return fmt.Errorf("failed to append project file: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, m.fail("add_project_file", uuid.Nil, err)
	}
	return &file, nil
}

// GetOrder returns an order owned by the caller, or any order for admins.
func (m *Manager) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	admin := m.gate.IsAdmin(ctx)

	var out *models.Order
	err := m.store.WithTx(ctx, func(tx Tx) error {
		o, err := tx.GetOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if o == nil {
			return ErrOrderNotFound
		}
		if !admin && !(o.UserID.Valid && o.UserID.UUID == user.ID) {
			return ErrOrderNotFound
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, m.fail("get_order", uuid.Nil, err)
	}
	return out, nil
}

// History returns the audit trail of an estimate. Requires audit:read.
func (m *Manager) History(ctx context.Context, estimateID uuid.UUID, limit int) ([]audit.Event, error) {
	if m.gate.CurrentUser(ctx) == nil {
		return nil, ErrUnauthorized
	}
	if !m.gate.HasPermission(ctx, permissions.PermAuditRead) {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = audit.DefaultHistoryLimit
	}

	events, err := m.audit.History(ctx, estimateID, limit)
	if err != nil {
		return nil, m.fail("history", estimateID, fmt.Errorf("failed to read audit history: %w", err))
	}
	if events == nil {
		events = []audit.Event{}
	}
	return events, nil
}

// loadProject hides projects the caller neither owns, develops nor administers.
func (m *Manager) loadProject(ctx context.Context, tx Tx, id uuid.UUID, user *permissions.Principal) (*models.Project, error) {
	p, err := tx.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	if p.UserID == user.ID || (p.DeveloperID.Valid && p.DeveloperID.UUID == user.ID) {
		return p, nil
	}
	if m.gate.HasPermission(ctx, permissions.PermProjectsReadAll) {
		return p, nil
	}
	return nil, ErrProjectNotFound
}
