package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"campus-notify/internal/domain"
)

type MasterRepository interface {
	Create(ctx context.Context, m *domain.NotificationMaster) error
	GetByID(ctx context.Context, id int64) (*domain.NotificationMaster, error)
	GetByName(ctx context.Context, name string) (*domain.NotificationMaster, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationMaster, int64, error)
	Update(ctx context.Context, m *domain.NotificationMaster) error

	ListFields(ctx context.Context, masterID int64) ([]domain.MasterField, error)
	AddField(ctx context.Context, f *domain.MasterField) error
	RemoveField(ctx context.Context, masterID, fieldID int64) error

	ListMeta(ctx context.Context, masterID int64) ([]domain.MasterMeta, error)
	AddMeta(ctx context.Context, m *domain.MasterMeta) error
	UpdateMeta(ctx context.Context, m *domain.MasterMeta) error
	RemoveMeta(ctx context.Context, masterID, metaID int64) error
}

type masterRepository struct {
	db *sqlx.DB
}

func NewMasterRepository(db *sqlx.DB) MasterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) Create(ctx context.Context, m *domain.NotificationMaster) error {
	query := `
		INSERT INTO notification_masters (name, is_active)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query, m.Name, m.IsActive).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *masterRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationMaster, error) {
	var m domain.NotificationMaster
	query := `SELECT * FROM notification_masters WHERE id = $1`
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *masterRepository) GetByName(ctx context.Context, name string) (*domain.NotificationMaster, error) {
	var m domain.NotificationMaster
	query := `SELECT * FROM notification_masters WHERE name = $1`
	if err := r.db.GetContext(ctx, &m, query, name); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *masterRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationMaster, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notification_masters`); err != nil {
		return nil, 0, err
	}

	var masters []domain.NotificationMaster
	query := `
		SELECT * FROM notification_masters
		ORDER BY name
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &masters, query, params.PageSize, params.Offset())
	return masters, total, err
}

func (r *masterRepository) Update(ctx context.Context, m *domain.NotificationMaster) error {
	query := `
		UPDATE notification_masters
		SET name = $1, is_active = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query, m.Name, m.IsActive, m.ID).Scan(&m.UpdatedAt)
}

func (r *masterRepository) ListFields(ctx context.Context, masterID int64) ([]domain.MasterField, error) {
	var fields []domain.MasterField
	query := `SELECT * FROM master_fields WHERE master_id = $1 ORDER BY id`
	err := r.db.SelectContext(ctx, &fields, query, masterID)
	return fields, err
}

func (r *masterRepository) AddField(ctx context.Context, f *domain.MasterField) error {
	query := `
		INSERT INTO master_fields (master_id, name, field_type, required)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowxContext(ctx, query, f.MasterID, f.Name, f.Type, f.Required).Scan(&f.ID)
}

func (r *masterRepository) RemoveField(ctx context.Context, masterID, fieldID int64) error {
	query := `DELETE FROM master_fields WHERE id = $1 AND master_id = $2`
	_, err := r.db.ExecContext(ctx, query, fieldID, masterID)
	return err
}

func (r *masterRepository) ListMeta(ctx context.Context, masterID int64) ([]domain.MasterMeta, error) {
	var meta []domain.MasterMeta
	query := `SELECT * FROM master_meta WHERE master_id = $1 ORDER BY key`
	err := r.db.SelectContext(ctx, &meta, query, masterID)
	return meta, err
}

func (r *masterRepository) AddMeta(ctx context.Context, m *domain.MasterMeta) error {
	query := `
		INSERT INTO master_meta (master_id, key, value)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.db.QueryRowxContext(ctx, query, m.MasterID, m.Key, m.Value).Scan(&m.ID)
}

func (r *masterRepository) UpdateMeta(ctx context.Context, m *domain.MasterMeta) error {
	query := `UPDATE master_meta SET value = $1 WHERE id = $2 AND master_id = $3`
	_, err := r.db.ExecContext(ctx, query, m.Value, m.ID, m.MasterID)
	return err
}

func (r *masterRepository) RemoveMeta(ctx context.Context, masterID, metaID int64) error {
	query := `DELETE FROM master_meta WHERE id = $1 AND master_id = $2`
	_, err := r.db.ExecContext(ctx, query, metaID, masterID)
	return err
}
