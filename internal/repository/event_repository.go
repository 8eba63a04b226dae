package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"campus-notify/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, e *domain.NotificationEvent) error
	GetByID(ctx context.Context, id int64) (*domain.NotificationEvent, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationEvent, int64, error)
	ListByMaster(ctx context.Context, masterID int64) ([]domain.NotificationEvent, error)
	Update(ctx context.Context, e *domain.NotificationEvent) error
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.NotificationEvent) error {
	query := `
		INSERT INTO notification_events
			(master_id, subject_template, html_body, wa_template_name, wa_language, wa_header_url, wa_body_params, default_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		e.MasterID, e.SubjectTemplate, e.HTMLBody,
		e.WATemplateName, e.WALanguage, e.WAHeaderURL,
		pq.Array([]string(e.WABodyParams)), e.DefaultData,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationEvent, error) {
	var e domain.NotificationEvent
	query := `SELECT * FROM notification_events WHERE id = $1`
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationEvent, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notification_events`); err != nil {
		return nil, 0, err
	}

	var events []domain.NotificationEvent
	query := `
		SELECT * FROM notification_events
		ORDER BY id
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &events, query, params.PageSize, params.Offset())
	return events, total, err
}

func (r *eventRepository) ListByMaster(ctx context.Context, masterID int64) ([]domain.NotificationEvent, error) {
	var events []domain.NotificationEvent
	query := `SELECT * FROM notification_events WHERE master_id = $1 ORDER BY id`
	err := r.db.SelectContext(ctx, &events, query, masterID)
	return events, err
}

func (r *eventRepository) Update(ctx context.Context, e *domain.NotificationEvent) error {
	query := `
		UPDATE notification_events
		SET subject_template = $1, html_body = $2, wa_template_name = $3,
			wa_language = $4, wa_header_url = $5, wa_body_params = $6,
			default_data = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		e.SubjectTemplate, e.HTMLBody, e.WATemplateName,
		e.WALanguage, e.WAHeaderURL, pq.Array([]string(e.WABodyParams)),
		e.DefaultData, e.ID,
	).Scan(&e.UpdatedAt)
}
