package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"campus-notify/internal/domain"
)

type ContentRepository interface {
	CreateBatch(ctx context.Context, contents []domain.NotificationContent) ([]domain.NotificationContent, error)
	ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationContent, error)
}

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateBatch(ctx context.Context, contents []domain.NotificationContent) ([]domain.NotificationContent, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notification_contents
			(notification_id, variant, recipient, dev_only, from_name, subject, html_body,
			 wa_template_name, wa_language, wa_header_url, wa_body_values, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	for i := range contents {
		c := &contents[i]
		err := tx.QueryRowxContext(ctx, query,
			c.NotificationID, c.Variant, c.Recipient, c.DevOnly, c.FromName,
			c.Subject, c.HTMLBody, c.WATemplateName, c.WALanguage, c.WAHeaderURL,
			pq.Array([]string(c.WABodyValues)), c.Attachments,
		).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *contentRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationContent, error) {
	var contents []domain.NotificationContent
	query := `SELECT * FROM notification_contents WHERE notification_id = $1 ORDER BY id`
	err := r.db.SelectContext(ctx, &contents, query, notificationID)
	return contents, err
}
