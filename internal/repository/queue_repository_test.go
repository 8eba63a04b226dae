package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"campus-notify/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPendingBatch_ExcludesDeadLetters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewQueueRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "notification_id", "retry_attempts", "is_dead_letter", "dead_letter_at", "created_at"}).
		AddRow(1, 10, 0, false, nil, now.Add(-2*time.Minute)).
		AddRow(2, 11, 3, false, nil, now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT \* FROM notification_queue\s+WHERE is_dead_letter = false\s+ORDER BY created_at ASC\s+LIMIT \$1`).
		WithArgs(25).
		WillReturnRows(rows)

	batch, err := repo.PendingBatch(context.Background(), 25)
	assert.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].ID)
	assert.Equal(t, 3, batch[1].RetryAttempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementRetry_ReturnsNewCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewQueueRepository(db)

	mock.ExpectQuery(`UPDATE notification_queue\s+SET retry_attempts = retry_attempts \+ 1\s+WHERE id = \$1\s+RETURNING retry_attempts`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"retry_attempts"}).AddRow(4))

	attempts, err := repo.IncrementRetry(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewQueueRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM notification_queue WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "notification_id", "retry_attempts", "is_dead_letter", "dead_letter_at", "created_at"}).
			AddRow(7, 42, 7, true, now, now.Add(-time.Hour)))

	q, err := repo.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), q.NotificationID)
	assert.True(t, q.IsDeadLetter)
	assert.NotNil(t, q.DeadLetterAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
