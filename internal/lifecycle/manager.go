// Package lifecycle moves estimates through their status lifecycle and keeps the linked
// project and order in step. Every multi-entity change runs in a single Store
// transaction, so readers see all of it or none of it.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/apperr"
	"agency-backend/internal/audit"
	"agency-backend/internal/models"
	"agency-backend/internal/permissions"
)

type Manager struct {
	store      Store
	gate       permissions.Gate
	checkout   Checkout
	audit      audit.Sink
	logger     *zap.Logger
	hourlyRate float64
	now        func() time.Time
}

type Option func(*Manager)

func WithCheckout(c Checkout) Option {
	return func(m *Manager) { m.checkout = c }
}

func WithAudit(s audit.Sink) Option {
	return func(m *Manager) { m.audit = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithHourlyRate(rate float64) Option {
	return func(m *Manager) { m.hourlyRate = rate }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, gate permissions.Gate, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		gate:     gate,
		checkout: pathCheckout{},
		audit:    audit.Nop{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transition is the state of the three entities after a committed status change.
// Project and Order are nil when the estimate has none linked.
type Transition struct {
	Estimate *models.Estimate
	Project  *models.Project
	Order    *models.Order
	From     models.Status
}

type FinalizeResult struct {
	Transition
	ProjectCreated bool
	CheckoutURL    string
}

// Finalize locks in the estimate's scope: status pending_payment plus exactly one
// project. Repeating it re-applies the status and returns the existing project.
func (m *Manager) Finalize(ctx context.Context, estimateID uuid.UUID) (*FinalizeResult, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	admin := m.gate.IsAdmin(ctx)

	res := &FinalizeResult{}
	err := m.store.WithTx(ctx, func(tx Tx) error {
		e, err := m.loadEstimate(ctx, tx, estimateID, user, admin)
		if err != nil {
			return err
		}
		if e.Status.PastPayment() {
			return ErrAlreadyPaid
		}

		res.From = e.Status
		if err := tx.SetEstimateStatus(ctx, e.ID, models.StatusPendingPayment); err != nil {
			return fmt.Errorf("failed to update estimate status: %w", err)
		}
		e.Status = models.StatusPendingPayment

		owner := user.ID
		if e.UserID.Valid {
			owner = e.UserID.UUID
		}
		project, created, err := ensureProject(ctx, tx, e, owner)
		if err != nil {
			return err
		}

		res.Estimate = e
		res.Project = project
		res.ProjectCreated = created
		return nil
	})
	if err != nil {
		return nil, m.fail("finalize", estimateID, err)
	}
	m.record(ctx, audit.ActionFinalize, &res.Transition)

	url, err := m.checkout.CheckoutURL(ctx, res.Estimate)
	if err != nil {
		return nil, m.fail("checkout", estimateID, err)
	}
	res.CheckoutURL = url

	m.logger.Info("estimate finalized",
		zap.String("estimate_id", estimateID.String()),
		zap.String("project_id", res.Project.ID.String()),
		zap.Bool("project_created", res.ProjectCreated),
	)
	return res, nil
}

// ConfirmPayment is the client-facing confirmation. The caller must own the estimate
// or be an admin; anyone else sees ErrEstimateNotFound.
func (m *Manager) ConfirmPayment(ctx context.Context, estimateID uuid.UUID) (*Transition, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	admin := m.gate.IsAdmin(ctx)
	return m.confirm(ctx, estimateID, func(tx Tx) (*models.Estimate, error) {
		return m.loadEstimate(ctx, tx, estimateID, user, admin)
	})
}

// ConfirmGatewayPayment confirms on behalf of the payment gateway. Callers must have
// verified the payment with the gateway first.
func (m *Manager) ConfirmGatewayPayment(ctx context.Context, estimateID uuid.UUID) (*Transition, error) {
	return m.confirm(ctx, estimateID, func(tx Tx) (*models.Estimate, error) {
		e, err := tx.GetEstimate(ctx, estimateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load estimate: %w", err)
		}
		if e == nil {
			return nil, ErrEstimateNotFound
		}
		return e, nil
	})
}

// confirm marks the estimate paid, queues its project and marks its order paid.
// Estimates whose work is already in delivery are left untouched so a replayed payment
// notification cannot pull a project back into the queue.
func (m *Manager) confirm(ctx context.Context, estimateID uuid.UUID, load func(tx Tx) (*models.Estimate, error)) (*Transition, error) {
	t := &Transition{}
	err := m.store.WithTx(ctx, func(tx Tx) error {
		e, err := load(tx)
		if err != nil {
			return err
		}
		t.From = e.Status
		t.Estimate = e
		if e.Status.InDelivery() {
			return nil
		}
		return m.applyStatus(ctx, tx, t, models.StatusPaid)
	})
	if err != nil {
		return nil, m.fail("confirm_payment", estimateID, err)
	}
	if t.From.InDelivery() {
		m.logger.Info("payment confirmation ignored, estimate already in delivery",
			zap.String("estimate_id", estimateID.String()),
			zap.String("status", t.From.String()),
		)
		return t, nil
	}
	m.record(ctx, audit.ActionConfirm, t)
	m.invalidateCheckout(ctx, estimateID)
	return t, nil
}

// RevertToUnpaid is the admin correction path. Only the estimate changes; the project
// and order keep whatever state they reached and are fixed up by hand.
func (m *Manager) RevertToUnpaid(ctx context.Context, estimateID uuid.UUID) (*Transition, error) {
	if !m.gate.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	t := &Transition{}
	err := m.store.WithTx(ctx, func(tx Tx) error {
		e, err := tx.GetEstimate(ctx, estimateID)
		if err != nil {
			return fmt.Errorf("failed to load estimate: %w", err)
		}
		if e == nil {
			return ErrEstimateNotFound
		}
		t.From = e.Status
		if err := tx.SetEstimateStatus(ctx, e.ID, models.StatusPaymentPending); err != nil {
			return fmt.Errorf("failed to update estimate status: %w", err)
		}
		e.Status = models.StatusPaymentPending
		t.Estimate = e
		return nil
	})
	if err != nil {
		return nil, m.fail("revert_to_unpaid", estimateID, err)
	}
	m.record(ctx, audit.ActionRevert, t)
	m.invalidateCheckout(ctx, estimateID)
	return t, nil
}

// UpdateStatus is the generic admin status change. The value is validated before the
// store is touched.
func (m *Manager) UpdateStatus(ctx context.Context, estimateID uuid.UUID, rawStatus string) (*Transition, error) {
	if !m.gate.IsAdmin(ctx) {
		return nil, ErrForbidden
	}
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	t := &Transition{}
	err = m.store.WithTx(ctx, func(tx Tx) error {
		e, err := tx.GetEstimate(ctx, estimateID)
		if err != nil {
			return fmt.Errorf("failed to load estimate: %w", err)
		}
		if e == nil {
			return ErrEstimateNotFound
		}
		t.From = e.Status
		t.Estimate = e
		return m.applyStatus(ctx, tx, t, status)
	})
	if err != nil {
		return nil, m.fail("update_status", estimateID, err)
	}
	m.record(ctx, audit.ActionUpdateStatus, t)
	m.invalidateCheckout(ctx, estimateID)
	return t, nil
}

// SubmitPaymentProof stores a proof of payment and moves the estimate, project and
// order to waiting_verification. upload runs after the caller is authorized and before
// the transaction opens; it returns the stored file's URL.
func (m *Manager) SubmitPaymentProof(ctx context.Context, estimateID uuid.UUID, upload func(e *models.Estimate) (string, error)) (*Transition, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	admin := m.gate.IsAdmin(ctx)

	var current *models.Estimate
	err := m.store.WithTx(ctx, func(tx Tx) error {
		e, err := m.loadEstimate(ctx, tx, estimateID, user, admin)
		if err != nil {
			return err
		}
		if e.Status == models.StatusPaid || e.Status.InDelivery() {
			return ErrAlreadyPaid
		}
		current = e
		return nil
	})
	if err != nil {
		return nil, m.fail("payment_proof", estimateID, err)
	}

	proofURL, err := upload(current)
	if err != nil {
		return nil, m.fail("payment_proof_upload", estimateID, err)
	}
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, ErrInvalidProof
	}

	t := &Transition{}
	err = m.store.WithTx(ctx, func(tx Tx) error {
		e, err := tx.GetEstimate(ctx, estimateID)
		if err != nil {
			return fmt.Errorf("failed to load estimate: %w", err)
		}
		if e == nil {
			return ErrEstimateNotFound
		}
		t.From = e.Status
		t.Estimate = e

		if err := tx.SetEstimateProof(ctx, e.ID, proofURL); err != nil {
			return fmt.Errorf("failed to store estimate proof: %w", err)
		}
		e.ProofURL.String, e.ProofURL.Valid = proofURL, true

		if err := m.applyStatus(ctx, tx, t, models.StatusWaitingVerification); err != nil {
			return err
		}
		if t.Order != nil {
			if err := tx.SetOrderProof(ctx, t.Order.ID, proofURL); err != nil {
				return fmt.Errorf("failed to store order proof: %w", err)
			}
			t.Order.ProofURL.String, t.Order.ProofURL.Valid = proofURL, true
		}
		return nil
	})
	if err != nil {
		return nil, m.fail("payment_proof", estimateID, err)
	}
	m.record(ctx, audit.ActionPaymentProof, t)
	return t, nil
}

// applyStatus writes status to t.Estimate, mirrors it onto the linked project and
// passes it through to the linked order.
func (m *Manager) applyStatus(ctx context.Context, tx Tx, t *Transition, status models.Status) error {
	e := t.Estimate
	if err := tx.SetEstimateStatus(ctx, e.ID, status); err != nil {
		return fmt.Errorf("failed to update estimate status: %w", err)
	}
	e.Status = status

	project, err := tx.GetProjectByEstimate(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil
	}

	projectStatus := projectStatusFor(status)
	if err := tx.SetProjectStatus(ctx, project.ID, projectStatus); err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	project.Status = projectStatus
	t.Project = project

	order, err := syncOrderStatus(ctx, tx, project.ID, status)
	if err != nil {
		return err
	}
	if order == nil && status == models.StatusWaitingVerification {
		// Proof submission attaches the proof even when the status is already shared.
		order, err = tx.GetOrderByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
	}
	t.Order = order
	return nil
}

// loadEstimate hides estimates owned by someone else behind ErrEstimateNotFound.
func (m *Manager) loadEstimate(ctx context.Context, tx Tx, id uuid.UUID, user *permissions.Principal, admin bool) (*models.Estimate, error) {
	e, err := tx.GetEstimate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load estimate: %w", err)
	}
	if e == nil {
		return nil, ErrEstimateNotFound
	}
	if e.UserID.Valid && e.UserID.UUID != user.ID && !admin {
		return nil, ErrEstimateNotFound
	}
	return e, nil
}

func (m *Manager) fail(op string, estimateID uuid.UUID, err error) error {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}
	m.logger.Error("lifecycle operation failed",
		zap.String("op", op),
		zap.String("estimate_id", estimateID.String()),
		zap.Error(err),
	)
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}

// record writes the audit event for a committed transition. Audit failures are logged
// and never surface to the caller.
func (m *Manager) record(ctx context.Context, action string, t *Transition) {
	if t.Estimate == nil {
		return
	}
	var actor string
	if p := m.gate.CurrentUser(ctx); p != nil {
		actor = p.ID.String()
	}
	ev := audit.Event{
		ID:         uuid.New(),
		EstimateID: t.Estimate.ID,
		Action:     action,
		From:       t.From,
		To:         t.Estimate.Status,
		Actor:      actor,
		At:         m.now().UTC(),
	}
	if err := m.audit.Record(ctx, ev); err != nil {
		m.logger.Warn("failed to record audit event",
			zap.String("estimate_id", t.Estimate.ID.String()),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// invalidateCheckout drops a cached checkout URL after a committed status change.
func (m *Manager) invalidateCheckout(ctx context.Context, estimateID uuid.UUID) {
	inv, ok := m.checkout.(CheckoutInvalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, estimateID.String()); err != nil {
		m.logger.Warn("failed to invalidate checkout url",
			zap.String("estimate_id", estimateID.String()),
			zap.Error(err),
		)
	}
}

type pathCheckout struct{}

func (pathCheckout) CheckoutURL(_ context.Context, e *models.Estimate) (string, error) {
	return "/checkout/" + e.ID.String(), nil
}
