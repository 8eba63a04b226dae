package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/provider"
	"campus-notify/internal/repository/mocks"
	"campus-notify/internal/service/dispatch"
)

type stubResolver struct {
	contents  []domain.NotificationContent
	err       error
	panicWith string
	calls     int
}

func (r *stubResolver) Resolve(ctx context.Context, n *domain.Notification) ([]domain.NotificationContent, error) {
	r.calls++
	if r.panicWith != "" {
		panic(r.panicWith)
	}
	return r.contents, r.err
}

type scriptedProvider struct {
	results []provider.Result
	sent    []string
}

func (p *scriptedProvider) Send(ctx context.Context, content *domain.NotificationContent) provider.Result {
	p.sent = append(p.sent, content.Recipient)
	if len(p.results) == 0 {
		return provider.Success()
	}
	result := p.results[0]
	p.results = p.results[1:]
	return result
}

func testConfig() dispatch.Config {
	return dispatch.Config{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    25,
		MaxRetries:   7,
		SendTimeout:  time.Second,
	}
}

func registryWith(variant domain.Variant, p provider.ChannelProvider) *provider.Registry {
	r := provider.NewRegistry()
	r.Register(variant, p)
	return r
}

func pendingNotification(id int64) *domain.Notification {
	return &domain.Notification{
		ID:      id,
		UserID:  1,
		Variant: domain.VariantEmail,
		Status:  domain.StatusPending,
	}
}

func emailContent(notificationID int64, recipient string) domain.NotificationContent {
	return domain.NotificationContent{
		NotificationID: notificationID,
		Variant:        domain.VariantEmail,
		Recipient:      recipient,
		Subject:        "Exam form submitted",
		HTMLBody:       "<p>done</p>",
	}
}

func TestProcessBatch_SuccessMarksSent(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)
	notifRepo.On("MarkSent", mock.Anything, int64(1), int64(10)).Return(nil)

	sender := &scriptedProvider{}
	resolver := &stubResolver{contents: []domain.NotificationContent{emailContent(1, "student@example.edu")}}

	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	assert.Equal(t, []string{"student@example.edu"}, sender.sent)
	notifRepo.AssertExpectations(t)
	queueRepo.AssertNotCalled(t, "IncrementRetry", mock.Anything, mock.Anything)
}

func TestProcessBatch_FailureIncrementsRetry(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(1, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)

	sender := &scriptedProvider{results: []provider.Result{provider.Failure(errors.New("smtp refused"))}}
	resolver := &stubResolver{contents: []domain.NotificationContent{emailContent(1, "student@example.edu")}}

	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	queueRepo.AssertExpectations(t)
	notifRepo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
	notifRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_ExhaustedRetriesDeadLetters(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1, RetryAttempts: 6}}, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(7, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)

	var storedReason string
	notifRepo.On("MarkFailed", mock.Anything, int64(1), int64(10), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedReason = args.String(3) }).
		Return(nil)

	longError := strings.Repeat("connection reset ", 80)
	sender := &scriptedProvider{results: []provider.Result{provider.Failure(errors.New(longError))}}
	resolver := &stubResolver{contents: []domain.NotificationContent{emailContent(1, "student@example.edu")}}

	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	notifRepo.AssertExpectations(t)
	assert.LessOrEqual(t, len([]rune(storedReason)), domain.MaxErrorLen)
}

func TestProcessBatch_SucceedsAfterTwoFailures(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil).Once()
	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1, RetryAttempts: 1}}, nil).Once()
	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1, RetryAttempts: 2}}, nil).Once()
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(1, nil).Once()
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(2, nil).Once()
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)
	notifRepo.On("MarkSent", mock.Anything, int64(1), int64(10)).Return(nil).Once()

	sender := &scriptedProvider{results: []provider.Result{
		provider.Failure(errors.New("smtp timeout")),
		provider.Failure(errors.New("smtp timeout")),
		provider.Success(),
	}}
	resolver := &stubResolver{contents: []domain.NotificationContent{emailContent(1, "student@example.edu")}}

	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	for i := 0; i < 3; i++ {
		w.ProcessBatch(context.Background())
	}

	queueRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
	notifRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_SkipsDeadLetterRows(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1, RetryAttempts: 7, IsDeadLetter: true}}, nil)

	resolver := &stubResolver{}
	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, &scriptedProvider{}), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	assert.Zero(t, resolver.calls)
	notifRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProcessBatch_TerminalNotificationArchivesWithoutSend(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	sent := pendingNotification(1)
	sent.Status = domain.StatusSent

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(sent, nil)
	notifRepo.On("MarkSent", mock.Anything, int64(1), int64(10)).Return(nil)

	sender := &scriptedProvider{}
	resolver := &stubResolver{}
	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	assert.Empty(t, sender.sent)
	assert.Zero(t, resolver.calls)
	notifRepo.AssertExpectations(t)
}

func TestProcessBatch_MissingProviderFailsAttempt(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	n := pendingNotification(1)
	n.Variant = domain.VariantSMS

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(1, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(n, nil)

	resolver := &stubResolver{contents: []domain.NotificationContent{emailContent(1, "student@example.edu")}}
	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, &scriptedProvider{}), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	queueRepo.AssertExpectations(t)
	notifRepo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_PanicIsIsolatedPerRow(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{
			{ID: 10, NotificationID: 1},
			{ID: 11, NotificationID: 2},
		}, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(1, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(11)).Return(1, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)
	notifRepo.On("GetByID", mock.Anything, int64(2)).Return(pendingNotification(2), nil)

	resolver := &stubResolver{panicWith: "template store corrupted"}
	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, &scriptedProvider{}), testConfig(), zap.NewNop())

	assert.NotPanics(t, func() { w.ProcessBatch(context.Background()) })
	assert.Equal(t, 2, resolver.calls)
	queueRepo.AssertExpectations(t)
}

func TestProcessBatch_FirstRecipientFailureAbortsAttempt(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)

	queueRepo.On("PendingBatch", mock.Anything, 25).
		Return([]domain.NotificationQueue{{ID: 10, NotificationID: 1}}, nil)
	queueRepo.On("IncrementRetry", mock.Anything, int64(10)).Return(2, nil)
	notifRepo.On("GetByID", mock.Anything, int64(1)).Return(pendingNotification(1), nil)

	sender := &scriptedProvider{results: []provider.Result{
		provider.Failure(errors.New("mailbox unavailable")),
		provider.Success(),
	}}
	resolver := &stubResolver{contents: []domain.NotificationContent{
		emailContent(1, "first@example.edu"),
		emailContent(1, "second@example.edu"),
	}}

	w := dispatch.NewWorker(queueRepo, notifRepo, resolver,
		registryWith(domain.VariantEmail, sender), testConfig(), zap.NewNop())
	w.ProcessBatch(context.Background())

	assert.Equal(t, []string{"first@example.edu"}, sender.sent)
	queueRepo.AssertExpectations(t)
}

func TestRun_StopsOnCancel(t *testing.T) {
	queueRepo := new(mocks.QueueRepository)
	notifRepo := new(mocks.NotificationRepository)
	queueRepo.On("PendingBatch", mock.Anything, 25).Return([]domain.NotificationQueue{}, nil).Maybe()

	w := dispatch.NewWorker(queueRepo, notifRepo, &stubResolver{},
		provider.NewRegistry(), testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
