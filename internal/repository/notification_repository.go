package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"campus-notify/internal/domain"
)

type NotificationRepository interface {
	// CreateWithQueue persists the notification and its single queue row in
	// one transaction and returns the queue row id.
	CreateWithQueue(ctx context.Context, n *domain.Notification) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Notification, int64, error)

	// MarkSent and MarkFailed finish an attempt: the status transition and
	// the queue archival commit together or not at all.
	MarkSent(ctx context.Context, notificationID, queueID int64) error
	MarkFailed(ctx context.Context, notificationID, queueID int64, reason string) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateWithQueue(ctx context.Context, n *domain.Notification) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	insertNotification := `
		INSERT INTO notifications (user_id, variant, type, message, master_id, event, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = tx.QueryRowxContext(ctx, insertNotification,
		n.UserID, n.Variant, n.Type, n.Message, n.MasterID, n.Event, domain.StatusPending,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return 0, err
	}
	n.Status = domain.StatusPending

	var queueID int64
	insertQueue := `
		INSERT INTO notification_queue (notification_id, retry_attempts, is_dead_letter)
		VALUES ($1, 0, false)
		RETURNING id`

	if err := tx.QueryRowxContext(ctx, insertQueue, n.ID).Scan(&queueID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return queueID, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications`); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &notifications, query, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) MarkSent(ctx context.Context, notificationID, queueID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Status is monotonic: only a PENDING row may become SENT.
	updateNotification := `
		UPDATE notifications
		SET status = $1, sent_at = NOW()
		WHERE id = $2 AND status = $3`
	if _, err := tx.ExecContext(ctx, updateNotification, domain.StatusSent, notificationID, domain.StatusPending); err != nil {
		return err
	}

	archiveQueue := `
		UPDATE notification_queue
		SET is_dead_letter = true, dead_letter_at = NOW()
		WHERE id = $1 AND is_dead_letter = false`
	if _, err := tx.ExecContext(ctx, archiveQueue, queueID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *notificationRepository) MarkFailed(ctx context.Context, notificationID, queueID int64, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateNotification := `
		UPDATE notifications
		SET status = $1, failed_at = NOW(), failed_reason = $2
		WHERE id = $3 AND status = $4`
	if _, err := tx.ExecContext(ctx, updateNotification,
		domain.StatusFailed, domain.TruncateError(reason), notificationID, domain.StatusPending); err != nil {
		return err
	}

	archiveQueue := `
		UPDATE notification_queue
		SET is_dead_letter = true, dead_letter_at = NOW()
		WHERE id = $1 AND is_dead_letter = false`
	if _, err := tx.ExecContext(ctx, archiveQueue, queueID); err != nil {
		return err
	}

	return tx.Commit()
}
