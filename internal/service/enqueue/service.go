package enqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/repository"
	"campus-notify/internal/service/catalog"
)

// ErrValidation marks synchronous enqueue rejections; handlers map it to
// HTTP 400. Nothing is persisted when it is returned.
var ErrValidation = errors.New("invalid enqueue request")

// RequestOrigin carries the inbound request headers consulted by the
// devOnly routing decision.
type RequestOrigin struct {
	Origin string
	Host   string
}

type Service interface {
	// Enqueue validates the intent, resolves devOnly routing, and persists
	// the notification plus its queue row. Delivery is asynchronous; the
	// returned id is the handle for status polling.
	Enqueue(ctx context.Context, input domain.EnqueueInput, origin RequestOrigin) (int64, error)
}

type service struct {
	notifRepo       repository.NotificationRepository
	catalogSvc      catalog.Service
	environment     string
	stagingHostname string
	logger          *zap.Logger
}

func NewService(notifRepo repository.NotificationRepository, catalogSvc catalog.Service, environment, stagingHostname string, logger *zap.Logger) Service {
	return &service{
		notifRepo:       notifRepo,
		catalogSvc:      catalogSvc,
		environment:     environment,
		stagingHostname: stagingHostname,
		logger:          logger,
	}
}

func (s *service) Enqueue(ctx context.Context, input domain.EnqueueInput, origin RequestOrigin) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrValidation, domain.TruncateError(err.Error()))
	}

	master, err := s.catalogSvc.GetMaster(ctx, input.NotificationMasterID)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return 0, fmt.Errorf("%w: notification master %d not found", ErrValidation, input.NotificationMasterID)
		}
		return 0, err
	}
	if !master.IsActive {
		return 0, fmt.Errorf("%w: notification master %q is inactive", ErrValidation, master.Name)
	}

	devOnly := ResolveDevOnly(s.environment, origin, s.stagingHostname)

	n := &domain.Notification{
		UserID:   input.UserID,
		Variant:  input.Variant,
		Type:     input.Type,
		Message:  input.Message,
		MasterID: master.ID,
		Event: domain.EventPayload{
			DevOnly:                   devOnly,
			TemplateData:              input.TemplateData,
			OtherUsersEmails:          input.OtherUsersEmails,
			OtherUsersWhatsAppNumbers: input.OtherUsersWhatsAppNumbers,
			EmailAttachments:          input.EmailAttachments,
		},
	}

	queueID, err := s.notifRepo.CreateWithQueue(ctx, n)
	if err != nil {
		return 0, err
	}

	s.logger.Info("notification enqueued",
		zap.Int64("notification_id", n.ID),
		zap.Int64("queue_id", queueID),
		zap.String("master", master.Name),
		zap.String("variant", string(n.Variant)),
		zap.Bool("dev_only", devOnly))

	return n.ID, nil
}

// ResolveDevOnly decides whether delivery is redirected to the developer
// fallback address. Development and staging environments are always
// redirected; production redirects only when the request came from a
// non-production origin or host.
func ResolveDevOnly(environment string, origin RequestOrigin, stagingHostname string) bool {
	switch environment {
	case "development", "staging":
		return true
	}
	return isDevSource(origin.Origin, stagingHostname) || isDevSource(origin.Host, stagingHostname)
}

func isDevSource(value, stagingHostname string) bool {
	if value == "" {
		return false
	}
	host := strings.ToLower(value)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")

	if strings.HasPrefix(host, "localhost") ||
		strings.HasPrefix(host, "127.0.0.1") ||
		strings.HasPrefix(host, "[::1]") {
		return true
	}
	return stagingHostname != "" && strings.Contains(host, stagingHostname)
}
