// Package mocks provides testify mock objects for the repository
// interfaces, shared by the service unit tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"campus-notify/internal/domain"
)

type MasterRepository struct {
	mock.Mock
}

func (m *MasterRepository) Create(ctx context.Context, master *domain.NotificationMaster) error {
	args := m.Called(ctx, master)
	return args.Error(0)
}

func (m *MasterRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationMaster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationMaster), args.Error(1)
}

func (m *MasterRepository) GetByName(ctx context.Context, name string) (*domain.NotificationMaster, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationMaster), args.Error(1)
}

func (m *MasterRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationMaster, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.NotificationMaster), args.Get(1).(int64), args.Error(2)
}

func (m *MasterRepository) Update(ctx context.Context, master *domain.NotificationMaster) error {
	args := m.Called(ctx, master)
	return args.Error(0)
}

func (m *MasterRepository) ListFields(ctx context.Context, masterID int64) ([]domain.MasterField, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterField), args.Error(1)
}

func (m *MasterRepository) AddField(ctx context.Context, f *domain.MasterField) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MasterRepository) RemoveField(ctx context.Context, masterID, fieldID int64) error {
	args := m.Called(ctx, masterID, fieldID)
	return args.Error(0)
}

func (m *MasterRepository) ListMeta(ctx context.Context, masterID int64) ([]domain.MasterMeta, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterMeta), args.Error(1)
}

func (m *MasterRepository) AddMeta(ctx context.Context, meta *domain.MasterMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MasterRepository) UpdateMeta(ctx context.Context, meta *domain.MasterMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MasterRepository) RemoveMeta(ctx context.Context, masterID, metaID int64) error {
	args := m.Called(ctx, masterID, metaID)
	return args.Error(0)
}

type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Create(ctx context.Context, e *domain.NotificationEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EventRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationEvent), args.Error(1)
}

func (m *EventRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationEvent, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.NotificationEvent), args.Get(1).(int64), args.Error(2)
}

func (m *EventRepository) ListByMaster(ctx context.Context, masterID int64) ([]domain.NotificationEvent, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationEvent), args.Error(1)
}

func (m *EventRepository) Update(ctx context.Context, e *domain.NotificationEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateWithQueue(ctx context.Context, n *domain.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) MarkSent(ctx context.Context, notificationID, queueID int64) error {
	args := m.Called(ctx, notificationID, queueID)
	return args.Error(0)
}

func (m *NotificationRepository) MarkFailed(ctx context.Context, notificationID, queueID int64, reason string) error {
	args := m.Called(ctx, notificationID, queueID, reason)
	return args.Error(0)
}

type QueueRepository struct {
	mock.Mock
}

func (m *QueueRepository) GetByID(ctx context.Context, id int64) (*domain.NotificationQueue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationQueue), args.Error(1)
}

func (m *QueueRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.NotificationQueue, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.NotificationQueue), args.Get(1).(int64), args.Error(2)
}

func (m *QueueRepository) PendingBatch(ctx context.Context, limit int) ([]domain.NotificationQueue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationQueue), args.Error(1)
}

func (m *QueueRepository) IncrementRetry(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type ContentRepository struct {
	mock.Mock
}

func (m *ContentRepository) CreateBatch(ctx context.Context, contents []domain.NotificationContent) ([]domain.NotificationContent, error) {
	args := m.Called(ctx, contents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, []domain.NotificationContent) []domain.NotificationContent); ok {
		return fn(ctx, contents), args.Error(1)
	}
	return args.Get(0).([]domain.NotificationContent), args.Error(1)
}

func (m *ContentRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationContent, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationContent), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
