package supabase_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
	"agency-backend/internal/supabase"
)

var projectCols = []string{
	"id", "user_id", "estimate_id", "title", "description", "spec", "status",
	"developer_id", "files", "created_at", "updated_at",
}

func newMockClient(t *testing.T) (*supabase.DatabaseClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return supabase.NewDatabaseClientWithDB(db, nil), mock
}

func TestWithTx_Commit(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE estimates")).
		WithArgs("paid", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		return tx.SetEstimateStatus(context.Background(), id, models.StatusPaid)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE estimates")).
		WithArgs("paid", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		ctx := context.Background()
		if err := tx.SetEstimateStatus(ctx, id, models.StatusPaid); err != nil {
			return err
		}
		return tx.SetProjectStatus(ctx, uuid.New(), models.StatusQueue)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update project status")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(lifecycle.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_NoRowsIsError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		return tx.SetOrderStatus(context.Background(), uuid.New(), models.StatusPaid)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEstimate_Missing(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM estimates")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	var got *models.Estimate
	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		var err error
		got, err = tx.GetEstimate(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEstimate_DecodesLineItems(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "summary", "screens", "apis", "total_hours", "total_cost",
		"complexity", "status", "service_offer_id", "proof_url", "created_at", "updated_at",
	}).AddRow(
		id.String(), nil, "Shop", "", []byte(`[{"title":"Login","hours":4}]`), []byte(`[]`), 4.0, 400.0,
		"low", "draft", nil, nil, now, now,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(id).WillReturnRows(rows)
	mock.ExpectCommit()

	var got *models.Estimate
	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		var err error
		got, err = tx.GetEstimate(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.UserID.Valid)
	assert.Equal(t, []models.LineItem{{Title: "Login", Hours: 4}}, got.Screens)
	assert.Empty(t, got.APIs)
	assert.Equal(t, models.StatusDraft, got.Status)
	assert.Equal(t, models.ComplexityLow, got.Complexity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProject(t *testing.T) {
	estimateID := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	for _, inserted := range []bool{true, false} {
		client, mock := newMockClient(t)
		existingID := uuid.New()
		rows := sqlmock.NewRows(append(projectCols, "inserted")).AddRow(
			existingID.String(), ownerID.String(), estimateID.String(), "Shop", "", "{}", "pending_payment",
			nil, []byte(`[]`), now, now, inserted,
		)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (estimate_id) DO UPDATE SET estimate_id = EXCLUDED.estimate_id")).
			WillReturnRows(rows)
		mock.ExpectCommit()

		var (
			stored  *models.Project
			created bool
		)
		err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
			var err error
			stored, created, err = tx.UpsertProject(context.Background(), &models.Project{
				ID:         uuid.New(),
				UserID:     ownerID,
				EstimateID: uuid.NullUUID{UUID: estimateID, Valid: true},
				Title:      "Shop",
				Spec:       []byte("{}"),
				Status:     models.StatusPendingPayment,
			})
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, inserted, created)
		assert.Equal(t, existingID, stored.ID)
		assert.Equal(t, "{}", string(stored.Spec))
		assert.Empty(t, stored.Files)
		assert.NotNil(t, stored.Files)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestAppendProjectFile(t *testing.T) {
	client, mock := newMockClient(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET files = files || $1::jsonb")).
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		return tx.AppendProjectFile(context.Background(), id, models.ProjectFile{
			Name: "brief.pdf", URL: "https://cdn/brief.pdf", Type: "application/pdf", UploadedAt: time.Now(),
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects_AllWhenNilOwner(t *testing.T) {
	client, mock := newMockClient(t)
	now := time.Now()

	rows := sqlmock.NewRows(projectCols).
		AddRow(uuid.New().String(), uuid.New().String(), nil, "A", "", "", "queue", nil, []byte(`[]`), now, now).
		AddRow(uuid.New().String(), uuid.New().String(), nil, "B", "", "", "dev", nil, nil, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).WithoutArgs().WillReturnRows(rows)
	mock.ExpectCommit()

	var got []models.Project
	err := client.WithTx(context.Background(), func(tx lifecycle.Tx) error {
		var err error
		got, err = tx.ListProjects(context.Background(), uuid.Nil)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusDev, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
