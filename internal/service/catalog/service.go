package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus-notify/internal/domain"
	"campus-notify/internal/repository"
)

var (
	ErrMasterNotFound = errors.New("notification master not found")
	ErrEventNotFound  = errors.New("notification event not found")
)

const masterCacheTTL = 5 * time.Minute

// Service is the catalog store: masters, their fields and metadata, and the
// render templates (events) bound to them. Pure persistence plus a
// read-through cache on the hot master lookups.
type Service interface {
	GetMaster(ctx context.Context, id int64) (*domain.NotificationMaster, error)
	GetMasterByName(ctx context.Context, name string) (*domain.NotificationMaster, error)
	ListMasters(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationMaster], error)
	CreateMaster(ctx context.Context, input domain.CreateMasterInput) (*domain.NotificationMaster, error)
	UpdateMaster(ctx context.Context, id int64, input domain.UpdateMasterInput) (*domain.NotificationMaster, error)

	ListFields(ctx context.Context, masterID int64) ([]domain.MasterField, error)
	AddField(ctx context.Context, masterID int64, input domain.CreateFieldInput) (*domain.MasterField, error)
	RemoveField(ctx context.Context, masterID, fieldID int64) error

	ListMeta(ctx context.Context, masterID int64) ([]domain.MasterMeta, error)
	AddMeta(ctx context.Context, masterID int64, input domain.MetaInput) (*domain.MasterMeta, error)
	UpdateMeta(ctx context.Context, masterID, metaID int64, value string) error
	RemoveMeta(ctx context.Context, masterID, metaID int64) error
	FindMeta(ctx context.Context, masterID int64, key string) (string, bool)

	GetEvent(ctx context.Context, id int64) (*domain.NotificationEvent, error)
	ListEvents(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationEvent], error)
	ListEventsByMaster(ctx context.Context, masterID int64) ([]domain.NotificationEvent, error)
	CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.NotificationEvent, error)
	UpdateEvent(ctx context.Context, id int64, input domain.UpdateEventInput) (*domain.NotificationEvent, error)
}

type service struct {
	masterRepo repository.MasterRepository
	eventRepo  repository.EventRepository
	redis      *redis.Client
}

func NewService(masterRepo repository.MasterRepository, eventRepo repository.EventRepository, redis *redis.Client) Service {
	return &service{
		masterRepo: masterRepo,
		eventRepo:  eventRepo,
		redis:      redis,
	}
}

func (s *service) GetMaster(ctx context.Context, id int64) (*domain.NotificationMaster, error) {
	cacheKey := fmt.Sprintf("catalog:master:id:%d", id)
	if m := s.cachedMaster(ctx, cacheKey); m != nil {
		return m, nil
	}

	m, err := s.masterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}

	s.cacheMaster(ctx, cacheKey, m)
	return m, nil
}

func (s *service) GetMasterByName(ctx context.Context, name string) (*domain.NotificationMaster, error) {
	cacheKey := "catalog:master:name:" + name
	if m := s.cachedMaster(ctx, cacheKey); m != nil {
		return m, nil
	}

	m, err := s.masterRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}

	s.cacheMaster(ctx, cacheKey, m)
	return m, nil
}

func (s *service) cachedMaster(ctx context.Context, key string) *domain.NotificationMaster {
	if s.redis == nil {
		return nil
	}
	cached, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var m domain.NotificationMaster
	if json.Unmarshal([]byte(cached), &m) != nil {
		return nil
	}
	return &m
}

func (s *service) cacheMaster(ctx context.Context, key string, m *domain.NotificationMaster) {
	if s.redis == nil {
		return
	}
	if data, err := json.Marshal(m); err == nil {
		_ = s.redis.Set(ctx, key, data, masterCacheTTL).Err()
	}
}

func (s *service) invalidateMaster(ctx context.Context, m *domain.NotificationMaster) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx,
		fmt.Sprintf("catalog:master:id:%d", m.ID),
		"catalog:master:name:"+m.Name,
	).Err()
}

func (s *service) ListMasters(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationMaster], error) {
	masters, total, err := s.masterRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationMaster]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(masters, params.Page, params.PageSize, total), nil
}

func (s *service) CreateMaster(ctx context.Context, input domain.CreateMasterInput) (*domain.NotificationMaster, error) {
	if input.Name == "" {
		return nil, errors.New("master name is required")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	m := &domain.NotificationMaster{
		Name:     input.Name,
		IsActive: active,
	}
	if err := s.masterRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateMaster(ctx context.Context, id int64, input domain.UpdateMasterInput) (*domain.NotificationMaster, error) {
	m, err := s.GetMaster(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateMaster(ctx, m)

	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}

	if err := s.masterRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListFields(ctx context.Context, masterID int64) ([]domain.MasterField, error) {
	if _, err := s.GetMaster(ctx, masterID); err != nil {
		return nil, err
	}
	return s.masterRepo.ListFields(ctx, masterID)
}

func (s *service) AddField(ctx context.Context, masterID int64, input domain.CreateFieldInput) (*domain.MasterField, error) {
	if _, err := s.GetMaster(ctx, masterID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, errors.New("field name is required")
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("invalid field type %q", input.Type)
	}

	f := &domain.MasterField{
		MasterID: masterID,
		Name:     input.Name,
		Type:     input.Type,
		Required: input.Required,
	}
	if err := s.masterRepo.AddField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) RemoveField(ctx context.Context, masterID, fieldID int64) error {
	return s.masterRepo.RemoveField(ctx, masterID, fieldID)
}

func (s *service) ListMeta(ctx context.Context, masterID int64) ([]domain.MasterMeta, error) {
	if _, err := s.GetMaster(ctx, masterID); err != nil {
		return nil, err
	}
	return s.masterRepo.ListMeta(ctx, masterID)
}

func (s *service) AddMeta(ctx context.Context, masterID int64, input domain.MetaInput) (*domain.MasterMeta, error) {
	if _, err := s.GetMaster(ctx, masterID); err != nil {
		return nil, err
	}
	if input.Key == "" {
		return nil, errors.New("meta key is required")
	}

	m := &domain.MasterMeta{
		MasterID: masterID,
		Key:      input.Key,
		Value:    input.Value,
	}
	if err := s.masterRepo.AddMeta(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateMeta(ctx context.Context, masterID, metaID int64, value string) error {
	return s.masterRepo.UpdateMeta(ctx, &domain.MasterMeta{
		ID:       metaID,
		MasterID: masterID,
		Value:    value,
	})
}

func (s *service) RemoveMeta(ctx context.Context, masterID, metaID int64) error {
	return s.masterRepo.RemoveMeta(ctx, masterID, metaID)
}

func (s *service) FindMeta(ctx context.Context, masterID int64, key string) (string, bool) {
	meta, err := s.masterRepo.ListMeta(ctx, masterID)
	if err != nil {
		return "", false
	}
	for _, m := range meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

func (s *service) GetEvent(ctx context.Context, id int64) (*domain.NotificationEvent, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *service) ListEvents(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationEvent], error) {
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationEvent]{}, err
	}
	params.Validate()
	return domain.NewPaginatedResponse(events, params.Page, params.PageSize, total), nil
}

func (s *service) ListEventsByMaster(ctx context.Context, masterID int64) ([]domain.NotificationEvent, error) {
	return s.eventRepo.ListByMaster(ctx, masterID)
}

func (s *service) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.NotificationEvent, error) {
	// Referential integrity surfaced as a catalog error rather than a raw
	// FK violation.
	if _, err := s.GetMaster(ctx, input.MasterID); err != nil {
		return nil, err
	}

	e := &domain.NotificationEvent{
		MasterID:        input.MasterID,
		SubjectTemplate: input.SubjectTemplate,
		HTMLBody:        input.HTMLBody,
		WATemplateName:  input.WATemplateName,
		WALanguage:      input.WALanguage,
		WAHeaderURL:     input.WAHeaderURL,
		WABodyParams:    input.WABodyParams,
		DefaultData:     input.DefaultData,
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) UpdateEvent(ctx context.Context, id int64, input domain.UpdateEventInput) (*domain.NotificationEvent, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SubjectTemplate != nil {
		e.SubjectTemplate = *input.SubjectTemplate
	}
	if input.HTMLBody != nil {
		e.HTMLBody = *input.HTMLBody
	}
	if input.WATemplateName != nil {
		e.WATemplateName = *input.WATemplateName
	}
	if input.WALanguage != nil {
		e.WALanguage = *input.WALanguage
	}
	if input.WAHeaderURL != nil {
		e.WAHeaderURL = *input.WAHeaderURL
	}
	if input.WABodyParams != nil {
		e.WABodyParams = input.WABodyParams
	}
	if input.DefaultData != nil {
		e.DefaultData = input.DefaultData
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
