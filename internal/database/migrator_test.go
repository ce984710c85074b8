package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-backend/internal/database"
)

func TestMigrations_ProjectEstimateUnique(t *testing.T) {
	names, err := database.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := database.MigrationSQL(names[0])
	require.NoError(t, err)
	assert.Contains(t, body, "UNIQUE (estimate_id)")
	assert.Contains(t, body, "spec TEXT")
	assert.Contains(t, body, "files JSONB NOT NULL DEFAULT '[]'")
}

func TestMigrations_UpdatedAtOnlyOnChange(t *testing.T) {
	body, err := database.MigrationSQL("001_lifecycle.sql")
	require.NoError(t, err)

	for _, table := range []string{"estimates", "projects", "orders"} {
		assert.Regexp(t,
			regexp.MustCompile(`CREATE TRIGGER `+table+`_updated_at BEFORE UPDATE ON `+table+`\s+FOR EACH ROW WHEN \(OLD\.\* IS DISTINCT FROM NEW\.\*\) EXECUTE FUNCTION set_updated_at\(\);`),
			body, table)
	}
}

func TestMigrator_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	names, err := database.Migrations()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for _, name := range names {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations WHERE name = $1")).
			WithArgs(name).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS estimates")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
			WithArgs(name).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	m := database.NewMigratorWithDB(db, nil)
	require.NoError(t, m.Run(context.Background()))
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	names, err := database.Migrations()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for _, name := range names {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations")).
			WithArgs(name).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	require.NoError(t, database.NewMigratorWithDB(db, nil).Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_RollsBackFailedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS estimates")).
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = database.NewMigratorWithDB(db, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute migration")
	assert.NoError(t, mock.ExpectationsWereMet())
}
