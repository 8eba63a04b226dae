package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-notify/internal/config"
	"campus-notify/internal/repository"
	"campus-notify/internal/service/audit"
	"campus-notify/internal/service/catalog"
	"campus-notify/internal/service/enqueue"
	"campus-notify/internal/service/render"
)

type Services struct {
	Catalog catalog.Service
	Enqueue enqueue.Service
	Render  render.Service
	Audit   audit.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config, logger *zap.Logger) *Services {
	catalogService := catalog.NewService(repos.Master, repos.Event, redis)
	enqueueService := enqueue.NewService(repos.Notification, catalogService, cfg.Environment, cfg.StagingHostname, logger)
	renderService := render.NewService(repos.User, repos.Content, catalogService, minioClient, render.Config{
		DefaultFromName:    cfg.FromName,
		DevFallbackEmail:   cfg.DevFallbackEmail,
		DevFallbackPhone:   cfg.DevFallbackPhone,
		DefaultCountryCode: cfg.DefaultCountryCode,
		AttachmentBucket:   cfg.MinIOBucket,
		FetchTimeout:       cfg.SendTimeout,
	}, logger)

	auditService := audit.NewService(repos.Notification, repos.Queue, repos.Content)

	return &Services{
		Catalog: catalogService,
		Enqueue: enqueueService,
		Render:  renderService,
		Audit:   auditService,
	}
}
