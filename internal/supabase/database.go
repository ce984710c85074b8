package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

// DatabaseClient is the Postgres lifecycle.Store.
type DatabaseClient struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ lifecycle.Store = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, connectionString string, logger *zap.Logger) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewDatabaseClientWithDB(db, logger), nil
}

func NewDatabaseClientWithDB(db *sql.DB, logger *zap.Logger) *DatabaseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatabaseClient{db: db, logger: logger}
}

func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// WithTx runs fn in a read-committed transaction. Estimate rows read through the Tx are
// locked, so concurrent transitions on one estimate serialize.
func (d *DatabaseClient) WithTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&pgTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.logger.Warn("failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

type pgTx struct {
	tx *sql.Tx
}

type rowScanner interface {
	Scan(dest ...any) error
}

const estimateColumns = `id, user_id, title, summary, screens, apis, total_hours, total_cost,
	complexity, status, service_offer_id, proof_url, created_at, updated_at`

const projectColumns = `id, user_id, estimate_id, title, description, spec, status,
	developer_id, files, created_at, updated_at`

const orderColumns = `id, user_id, project_id, amount, currency, status, proof_url, created_at, updated_at`

func scanEstimate(row rowScanner) (*models.Estimate, error) {
	var e models.Estimate
	var screens, apis []byte
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Summary, &screens, &apis, &e.TotalHours, &e.TotalCost,
		&e.Complexity, &e.Status, &e.ServiceOfferID, &e.ProofURL, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeItems(screens, &e.Screens); err != nil {
		return nil, fmt.Errorf("failed to decode screens: %w", err)
	}
	if err := decodeItems(apis, &e.APIs); err != nil {
		return nil, fmt.Errorf("failed to decode apis: %w", err)
	}
	return &e, nil
}

func scanProject(row rowScanner, extra ...any) (*models.Project, error) {
	var p models.Project
	var spec string
	var files []byte
	dest := []any{
		&p.ID, &p.UserID, &p.EstimateID, &p.Title, &p.Description, &spec, &p.Status,
		&p.DeveloperID, &files, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Spec = json.RawMessage(spec)
	p.Files = []models.ProjectFile{}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &p.Files); err != nil {
			return nil, fmt.Errorf("failed to decode files: %w", err)
		}
	}
	return &p, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProjectID, &o.Amount, &o.Currency, &o.Status, &o.ProofURL,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func decodeItems(raw []byte, out *[]models.LineItem) error {
	*out = []models.LineItem{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func encodeItems(items []models.LineItem) ([]byte, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	return json.Marshal(items)
}

// exec fails when the statement touched no row.
func (t *pgTx) exec(ctx context.Context, what, query string, args ...any) error {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to update %s: no rows affected", what)
	}
	return nil
}

func (t *pgTx) InsertEstimate(ctx context.Context, e *models.Estimate) error {
	screens, err := encodeItems(e.Screens)
	if err != nil {
		return fmt.Errorf("failed to encode screens: %w", err)
	}
	apis, err := encodeItems(e.APIs)
	if err != nil {
		return fmt.Errorf("failed to encode apis: %w", err)
	}

	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO estimates (id, user_id, title, summary, screens, apis, total_hours, total_cost, complexity, status, service_offer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, e.ID, e.UserID, e.Title, e.Summary, screens, apis, e.TotalHours, e.TotalCost,
		string(e.Complexity), string(e.Status), e.ServiceOfferID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create estimate: %w", err)
	}
	return nil
}

func (t *pgTx) GetEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	e, err := scanEstimate(t.tx.QueryRowContext(ctx, `
		SELECT `+estimateColumns+`
		FROM estimates
		WHERE id = $1
		FOR UPDATE
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	return e, nil
}

func (t *pgTx) SetEstimateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	return t.exec(ctx, "estimate status", `
		UPDATE estimates
		SET status = $1
		WHERE id = $2
	`, string(status), id)
}

func (t *pgTx) SetEstimateProof(ctx context.Context, id uuid.UUID, proofURL string) error {
	return t.exec(ctx, "estimate proof", `
		UPDATE estimates
		SET proof_url = $1
		WHERE id = $2
	`, proofURL, id)
}

// UpsertProject relies on the unique estimate_id constraint. The conflict branch is an
// empty patch that only exists so RETURNING yields the stored row; xmax = 0 holds for
// freshly inserted tuples.
func (t *pgTx) UpsertProject(ctx context.Context, p *models.Project) (*models.Project, bool, error) {
	files := p.Files
	if files == nil {
		files = []models.ProjectFile{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode files: %w", err)
	}

	var inserted bool
	stored, err := scanProject(t.tx.QueryRowContext(ctx, `
		INSERT INTO projects (id, user_id, estimate_id, title, description, spec, status, developer_id, files)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (estimate_id) DO UPDATE SET estimate_id = EXCLUDED.estimate_id
		RETURNING `+projectColumns+`, (xmax = 0) AS inserted
	`, p.ID, p.UserID, p.EstimateID, p.Title, p.Description, string(p.Spec), string(p.Status),
		p.DeveloperID, filesJSON,
	), &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert project: %w", err)
	}
	return stored, inserted, nil
}

func (t *pgTx) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(t.tx.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (t *pgTx) GetProjectByEstimate(ctx context.Context, estimateID uuid.UUID) (*models.Project, error) {
	p, err := scanProject(t.tx.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE estimate_id = $1
	`, estimateID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (t *pgTx) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == uuid.Nil {
		rows, err = t.tx.QueryContext(ctx, `
			SELECT `+projectColumns+`
			FROM projects
			ORDER BY created_at DESC
		`)
	} else {
		rows, err = t.tx.QueryContext(ctx, `
			SELECT `+projectColumns+`
			FROM projects
			WHERE user_id = $1
			ORDER BY created_at DESC
		`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (t *pgTx) SetProjectStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	return t.exec(ctx, "project status", `
		UPDATE projects
		SET status = $1
		WHERE id = $2
	`, string(status), id)
}

func (t *pgTx) SetProjectDeveloper(ctx context.Context, id uuid.UUID, developerID uuid.NullUUID) error {
	return t.exec(ctx, "project developer", `
		UPDATE projects
		SET developer_id = $1
		WHERE id = $2
	`, developerID, id)
}

func (t *pgTx) AppendProjectFile(ctx context.Context, id uuid.UUID, file models.ProjectFile) error {
	entry, err := json.Marshal([]models.ProjectFile{file})
	if err != nil {
		return fmt.Errorf("failed to encode file: %w", err)
	}
	return t.exec(ctx, "project files", `
		UPDATE projects
		SET files = files || $1::jsonb
		WHERE id = $2
	`, entry, id)
}

func (t *pgTx) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(t.tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (t *pgTx) GetOrderByProject(ctx context.Context, projectID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(t.tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE project_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (t *pgTx) SetOrderStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	return t.exec(ctx, "order status", `
		UPDATE orders
		SET status = $1
		WHERE id = $2
	`, string(status), id)
}

func (t *pgTx) SetOrderProof(ctx context.Context, id uuid.UUID, proofURL string) error {
	return t.exec(ctx, "order proof", `
		UPDATE orders
		SET proof_url = $1
		WHERE id = $2
	`, proofURL, id)
}
