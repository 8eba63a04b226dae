package audit

import (
	"context"
	"database/sql"
	"errors"

	"campus-notify/internal/domain"
	"campus-notify/internal/repository"
)

var ErrNotFound = errors.New("record not found")

// Service exposes the read-only inspection surface: callers that need
// delivery confirmation poll these instead of awaiting the enqueue call.
type Service interface {
	ListNotifications(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetNotification(ctx context.Context, id int64) (*domain.Notification, error)
	ListContents(ctx context.Context, notificationID int64) ([]domain.NotificationContent, error)
	ListQueue(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationQueue], error)
	GetQueueEntry(ctx context.Context, id int64) (*domain.NotificationQueue, error)
}

type service struct {
	notifRepo   repository.NotificationRepository
	queueRepo   repository.QueueRepository
	contentRepo repository.ContentRepository
}

func NewService(notifRepo repository.NotificationRepository, queueRepo repository.QueueRepository, contentRepo repository.ContentRepository) Service {
	return &service{
		notifRepo:   notifRepo,
		queueRepo:   queueRepo,
		contentRepo: contentRepo,
	}
}

func (s *service) ListNotifications(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetNotification(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *service) ListContents(ctx context.Context, notificationID int64) ([]domain.NotificationContent, error) {
	if _, err := s.GetNotification(ctx, notificationID); err != nil {
		return nil, err
	}
	return s.contentRepo.ListByNotification(ctx, notificationID)
}

func (s *service) ListQueue(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationQueue], error) {
	rows, total, err := s.queueRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationQueue]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(rows, params.Page, params.PageSize, total), nil
}

func (s *service) GetQueueEntry(ctx context.Context, id int64) (*domain.NotificationQueue, error) {
	q, err := s.queueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}
