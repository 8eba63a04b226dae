package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/provider"
	"campus-notify/internal/repository"
	"campus-notify/internal/service/render"
)

// Config tunes the polling loop. Retry granularity is one poll interval;
// there is no exponential backoff.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	SendTimeout  time.Duration
}

// Worker drains the notification queue: every poll tick it claims a batch
// of live rows, renders content, hands it to the channel provider for the
// notification's variant, and records the outcome. One instance per
// deployment; the pending-batch query has no row claiming.
type Worker struct {
	queueRepo repository.QueueRepository
	notifRepo repository.NotificationRepository
	resolver  render.Service
	providers *provider.Registry
	cfg       Config
	logger    *zap.Logger
}

func NewWorker(
	queueRepo repository.QueueRepository,
	notifRepo repository.NotificationRepository,
	resolver render.Service,
	providers *provider.Registry,
	cfg Config,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		queueRepo: queueRepo,
		notifRepo: notifRepo,
		resolver:  resolver,
		providers: providers,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks until ctx is canceled. An in-flight batch finishes before Run
// returns, so shutdown drains rather than abandons work.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("dispatch worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Int("batch_size", w.cfg.BatchSize),
		zap.Int("max_retries", w.cfg.MaxRetries))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dispatch worker stopped")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch runs one poll tick. Rows are processed sequentially, oldest
// first; a failure on one row never aborts the rest of the batch.
func (w *Worker) ProcessBatch(ctx context.Context) {
	rows, err := w.queueRepo.PendingBatch(ctx, w.cfg.BatchSize)
	if err != nil {
		w.logger.Error("failed to fetch pending queue rows", zap.Error(err))
		return
	}

	for i := range rows {
		w.processRow(ctx, &rows[i])
	}
}

func (w *Worker) processRow(ctx context.Context, row *domain.NotificationQueue) {
	if row.IsDeadLetter {
		return
	}

	err := w.attempt(ctx, row)
	if err == nil {
		if err := w.notifRepo.MarkSent(ctx, row.NotificationID, row.ID); err != nil {
			w.logger.Error("failed to mark notification sent",
				zap.Int64("notification_id", row.NotificationID), zap.Error(err))
		}
		w.logger.Info("notification delivered",
			zap.Int64("notification_id", row.NotificationID),
			zap.Int("retry_attempts", row.RetryAttempts))
		return
	}

	attempts, incErr := w.queueRepo.IncrementRetry(ctx, row.ID)
	if incErr != nil {
		w.logger.Error("failed to increment retry count",
			zap.Int64("queue_id", row.ID), zap.Error(incErr))
		return
	}

	if attempts >= w.cfg.MaxRetries {
		reason := domain.TruncateError(err.Error())
		if mfErr := w.notifRepo.MarkFailed(ctx, row.NotificationID, row.ID, reason); mfErr != nil {
			w.logger.Error("failed to mark notification failed",
				zap.Int64("notification_id", row.NotificationID), zap.Error(mfErr))
			return
		}
		w.logger.Warn("notification dead-lettered",
			zap.Int64("notification_id", row.NotificationID),
			zap.Int("attempts", attempts),
			zap.String("reason", reason))
		return
	}

	w.logger.Warn("delivery attempt failed, will retry",
		zap.Int64("notification_id", row.NotificationID),
		zap.Int("attempt", attempts),
		zap.Error(err))
}

// attempt performs one delivery try. Panics inside a single row are
// converted into a failed attempt so the batch keeps going.
func (w *Worker) attempt(ctx context.Context, row *domain.NotificationQueue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing queue row %d: %v", row.ID, r)
		}
	}()

	n, err := w.notifRepo.GetByID(ctx, row.NotificationID)
	if err != nil {
		return fmt.Errorf("load notification %d: %w", row.NotificationID, err)
	}
	if n.Status != domain.StatusPending {
		// Already terminal; archive the row without another send.
		return nil
	}

	contents, err := w.resolver.Resolve(ctx, n)
	if err != nil {
		return fmt.Errorf("resolve content: %w", err)
	}
	if len(contents) == 0 {
		return errors.New("no deliverable content resolved")
	}

	p, ok := w.providers.Get(n.Variant)
	if !ok {
		return fmt.Errorf("no provider registered for variant %s", n.Variant)
	}

	for i := range contents {
		sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
		result := p.Send(sendCtx, &contents[i])
		cancel()

		if !result.OK {
			return fmt.Errorf("provider send to %s failed: %s", contents[i].Recipient, result.Error)
		}
	}
	return nil
}
