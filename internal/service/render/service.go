package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/repository"
	"campus-notify/internal/service/catalog"
)

// Config carries the resolver's environment-dependent settings.
type Config struct {
	DefaultFromName    string
	DevFallbackEmail   string
	DevFallbackPhone   string
	DefaultCountryCode string
	AttachmentBucket   string
	FetchTimeout       time.Duration
}

// Service is the content resolver: given a notification it produces the
// immutable per-recipient content snapshots, creating them on first use and
// returning the stored rows on later attempts.
type Service interface {
	Resolve(ctx context.Context, n *domain.Notification) ([]domain.NotificationContent, error)
}

type service struct {
	userRepo    repository.UserRepository
	contentRepo repository.ContentRepository
	catalogSvc  catalog.Service
	minioClient *minio.Client
	httpClient  *http.Client
	cfg         Config
	logger      *zap.Logger
}

func NewService(
	userRepo repository.UserRepository,
	contentRepo repository.ContentRepository,
	catalogSvc catalog.Service,
	minioClient *minio.Client,
	cfg Config,
	logger *zap.Logger,
) Service {
	return &service{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		catalogSvc:  catalogSvc,
		minioClient: minioClient,
		httpClient:  &http.Client{Timeout: cfg.FetchTimeout},
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *service) Resolve(ctx context.Context, n *domain.Notification) ([]domain.NotificationContent, error) {
	existing, err := s.contentRepo.ListByNotification(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	event, err := s.eventForMaster(ctx, n.MasterID)
	if err != nil {
		return nil, err
	}

	data, err := s.templateData(event, n)
	if err != nil {
		return nil, err
	}

	recipients, err := s.recipients(ctx, n)
	if err != nil {
		return nil, err
	}

	fromName := s.cfg.DefaultFromName
	if v, ok := s.catalogSvc.FindMeta(ctx, n.MasterID, domain.MetaFromName); ok {
		fromName = v
	}

	var attachments domain.ContentAttachments
	if n.Variant == domain.VariantEmail {
		attachments, err = s.fetchAttachments(ctx, n.Event.EmailAttachments)
		if err != nil {
			return nil, err
		}
	}

	contents := make([]domain.NotificationContent, 0, len(recipients))
	for _, recipient := range recipients {
		c := domain.NotificationContent{
			NotificationID: n.ID,
			Variant:        n.Variant,
			Recipient:      recipient,
			DevOnly:        n.Event.DevOnly,
			FromName:       fromName,
		}

		if event != nil {
			c.Subject = Render(event.SubjectTemplate, data, s.logger)
			c.HTMLBody = Render(event.HTMLBody, data, s.logger)
			c.WATemplateName = event.WATemplateName
			c.WALanguage = event.WALanguage
			c.WAHeaderURL = Render(event.WAHeaderURL, data, s.logger)
			c.WABodyValues = s.bodyValues(event, data)
		}
		if c.Subject == "" {
			c.Subject = n.Message
		}
		if c.HTMLBody == "" {
			c.HTMLBody = n.Message
		}
		c.Attachments = attachments

		contents = append(contents, c)
	}

	return s.contentRepo.CreateBatch(ctx, contents)
}

func (s *service) eventForMaster(ctx context.Context, masterID int64) (*domain.NotificationEvent, error) {
	events, err := s.catalogSvc.ListEventsByMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		// No template configured; the fallback message text is used.
		return nil, nil
	}
	return &events[0], nil
}

func (s *service) templateData(event *domain.NotificationEvent, n *domain.Notification) (domain.TemplateValue, error) {
	supplied, err := domain.TemplateDataFromJSON(n.Event.TemplateData)
	if err != nil {
		return nil, fmt.Errorf("decode template data: %w", err)
	}
	if event == nil || len(event.DefaultData) == 0 {
		return supplied, nil
	}

	defaults, err := domain.TemplateDataFromJSON(event.DefaultData)
	if err != nil {
		return nil, fmt.Errorf("decode event default data: %w", err)
	}
	return domain.Merge(defaults, supplied), nil
}

func (s *service) recipients(ctx context.Context, n *domain.Notification) ([]string, error) {
	// devOnly collapses the whole fan-out to one developer recipient, so
	// non-production runs exercise the pipeline with a single external call.
	if n.Event.DevOnly {
		if n.Variant == domain.VariantWhatsApp {
			return []string{s.cfg.DevFallbackPhone}, nil
		}
		return []string{s.cfg.DevFallbackEmail}, nil
	}

	user, err := s.userRepo.GetByID(ctx, n.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", n.UserID, err)
	}

	switch n.Variant {
	case domain.VariantWhatsApp:
		cc := user.CountryCode
		if cc == "" {
			cc = s.cfg.DefaultCountryCode
		}
		recipients := []string{cc + user.WhatsAppNumber}
		recipients = append(recipients, n.Event.OtherUsersWhatsAppNumbers...)
		return recipients, nil
	default:
		recipients := []string{user.Email}
		recipients = append(recipients, n.Event.OtherUsersEmails...)
		return recipients, nil
	}
}

func (s *service) bodyValues(event *domain.NotificationEvent, data domain.TemplateValue) []string {
	values := make([]string, 0, len(event.WABodyParams))
	for _, key := range event.WABodyParams {
		value, ok := domain.Lookup(data, key)
		if !ok {
			s.logger.Warn("unresolved whatsapp body param", zap.String("param", key))
		}
		values = append(values, string(value))
	}
	return values
}

func (s *service) fetchAttachments(ctx context.Context, refs []domain.Attachment) (domain.ContentAttachments, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	out := make(domain.ContentAttachments, 0, len(refs))
	for _, ref := range refs {
		data, err := s.fetchDocument(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("fetch attachment %q: %w", ref.Name, err)
		}
		out = append(out, domain.ContentAttachment{
			Filename: ref.Name,
			Data:     base64.StdEncoding.EncodeToString(data),
		})
	}
	return out, nil
}

func (s *service) fetchDocument(ctx context.Context, ref domain.Attachment) ([]byte, error) {
	if ref.ObjectKey != "" {
		if s.minioClient == nil {
			return nil, fmt.Errorf("object storage not configured")
		}
		obj, err := s.minioClient.GetObject(ctx, s.cfg.AttachmentBucket, ref.ObjectKey, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		defer obj.Close()
		return io.ReadAll(obj)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document host returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
