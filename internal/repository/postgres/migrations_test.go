package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedAndEmbedded(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0].Name)
	assert.Contains(t, files[0].Content, "reservations_user_block_date_key")
}

func TestRunMigrations_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("001_init.sql"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, RunMigrations(context.Background(), db, logger))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("001_init.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, RunMigrations(context.Background(), db, logger))
	require.NoError(t, mock.ExpectationsWereMet())
}
