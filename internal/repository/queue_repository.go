package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"campus-notify/internal/domain"
)

type QueueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.NotificationQueue, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationQueue, int64, error)

	// PendingBatch selects live queue rows oldest first. There is no row
	// claiming; a second worker instance would double-process. Single
	// worker deployments only.
	PendingBatch(ctx context.Context, limit int) ([]domain.NotificationQueue, error)

	// IncrementRetry bumps retry_attempts and returns the new value.
	IncrementRetry(ctx context.Context, id int64) (int, error)
}

type queueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationQueue, error) {
	var q domain.NotificationQueue
	query := `SELECT * FROM notification_queue WHERE id = $1`
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *queueRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationQueue, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notification_queue`); err != nil {
		return nil, 0, err
	}

	var rows []domain.NotificationQueue
	query := `
		SELECT * FROM notification_queue
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &rows, query, params.PageSize, params.Offset())
	return rows, total, err
}

func (r *queueRepository) PendingBatch(ctx context.Context, limit int) ([]domain.NotificationQueue, error) {
	var rows []domain.NotificationQueue
	query := `
		SELECT * FROM notification_queue
		WHERE is_dead_letter = false
		ORDER BY created_at ASC
		LIMIT $1`
	err := r.db.SelectContext(ctx, &rows, query, limit)
	return rows, err
}

func (r *queueRepository) IncrementRetry(ctx context.Context, id int64) (int, error) {
	var attempts int
	query := `
		UPDATE notification_queue
		SET retry_attempts = retry_attempts + 1
		WHERE id = $1
		RETURNING retry_attempts`
	err := r.db.QueryRowxContext(ctx, query, id).Scan(&attempts)
	return attempts, err
}
