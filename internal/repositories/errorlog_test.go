package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLogCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewErrorLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "error_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err := repo.Create("summarize: failed to generate job summary")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogRecent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewErrorLogRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "error_logs" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "error_message", "created_at"}).
			AddRow(uuid.New(), "score: quota exceeded", time.Now()).
			AddRow(uuid.New(), "persist: connection reset", time.Now()))

	logs, err := repo.Recent(10)

	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "score: quota exceeded", logs[0].ErrorMessage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogRecentDefaultsLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewErrorLogRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "error_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "error_message", "created_at"}))

	logs, err := repo.Recent(0)

	require.NoError(t, err)
	assert.Empty(t, logs)
}
