package enqueue_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/repository/mocks"
	"campus-notify/internal/service/catalog"
	"campus-notify/internal/service/enqueue"
)

func validInput() domain.EnqueueInput {
	return domain.EnqueueInput{
		UserID:               5,
		Variant:              domain.VariantEmail,
		Type:                 domain.TypeExam,
		Message:              "Exam form submitted",
		NotificationMasterID: 3,
	}
}

func newService(notifRepo *mocks.NotificationRepository, masterRepo *mocks.MasterRepository, environment string) enqueue.Service {
	catalogSvc := catalog.NewService(masterRepo, new(mocks.EventRepository), nil)
	return enqueue.NewService(notifRepo, catalogSvc, environment, "staging.", zap.NewNop())
}

func TestEnqueue_Success(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	masterRepo := new(mocks.MasterRepository)

	masterRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.NotificationMaster{ID: 3, Name: "exam-form-submission", IsActive: true}, nil)

	notifRepo.On("CreateWithQueue", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).(*domain.Notification)
			n.ID = 42
		}).
		Return(int64(900), nil)

	svc := newService(notifRepo, masterRepo, "production")

	id, err := svc.Enqueue(context.Background(), validInput(), enqueue.RequestOrigin{Host: "erp.example.edu"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	created := notifRepo.Calls[0].Arguments.Get(1).(*domain.Notification)
	assert.Equal(t, int64(5), created.UserID)
	assert.Equal(t, domain.VariantEmail, created.Variant)
	assert.Equal(t, int64(3), created.MasterID)
	assert.False(t, created.Event.DevOnly)

	notifRepo.AssertExpectations(t)
	masterRepo.AssertExpectations(t)
}

func TestEnqueue_ValidationFailureDoesNotPersist(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	masterRepo := new(mocks.MasterRepository)
	svc := newService(notifRepo, masterRepo, "production")

	input := validInput()
	input.Message = ""

	_, err := svc.Enqueue(context.Background(), input, enqueue.RequestOrigin{})
	assert.ErrorIs(t, err, enqueue.ErrValidation)
	notifRepo.AssertNotCalled(t, "CreateWithQueue", mock.Anything, mock.Anything)
}

func TestEnqueue_UnknownMaster(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	masterRepo := new(mocks.MasterRepository)
	masterRepo.On("GetByID", mock.Anything, int64(3)).Return(nil, sql.ErrNoRows)

	svc := newService(notifRepo, masterRepo, "production")

	_, err := svc.Enqueue(context.Background(), validInput(), enqueue.RequestOrigin{})
	assert.ErrorIs(t, err, enqueue.ErrValidation)
	notifRepo.AssertNotCalled(t, "CreateWithQueue", mock.Anything, mock.Anything)
}

func TestEnqueue_InactiveMaster(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	masterRepo := new(mocks.MasterRepository)
	masterRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.NotificationMaster{ID: 3, Name: "exam-form-submission", IsActive: false}, nil)

	svc := newService(notifRepo, masterRepo, "production")

	_, err := svc.Enqueue(context.Background(), validInput(), enqueue.RequestOrigin{})
	assert.ErrorIs(t, err, enqueue.ErrValidation)
	notifRepo.AssertNotCalled(t, "CreateWithQueue", mock.Anything, mock.Anything)
}

func TestEnqueue_DevEnvironmentSetsDevOnly(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	masterRepo := new(mocks.MasterRepository)
	masterRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.NotificationMaster{ID: 3, Name: "exam-form-submission", IsActive: true}, nil)
	notifRepo.On("CreateWithQueue", mock.Anything, mock.Anything).Return(int64(1), nil)

	svc := newService(notifRepo, masterRepo, "development")

	_, err := svc.Enqueue(context.Background(), validInput(), enqueue.RequestOrigin{Host: "erp.example.edu"})
	assert.NoError(t, err)

	created := notifRepo.Calls[0].Arguments.Get(1).(*domain.Notification)
	assert.True(t, created.Event.DevOnly)
}

func TestResolveDevOnly(t *testing.T) {
	cases := []struct {
		name        string
		environment string
		origin      enqueue.RequestOrigin
		want        bool
	}{
		{"development always", "development", enqueue.RequestOrigin{Host: "erp.example.edu"}, true},
		{"staging always", "staging", enqueue.RequestOrigin{Host: "erp.example.edu"}, true},
		{"production real host", "production", enqueue.RequestOrigin{Host: "erp.example.edu"}, false},
		{"production localhost origin", "production", enqueue.RequestOrigin{Origin: "http://localhost:3000"}, true},
		{"production loopback origin", "production", enqueue.RequestOrigin{Origin: "http://127.0.0.1:8080"}, true},
		{"production ipv6 loopback", "production", enqueue.RequestOrigin{Origin: "http://[::1]:8080"}, true},
		{"production staging host", "production", enqueue.RequestOrigin{Host: "staging.example.edu"}, true},
		{"production staging origin", "production", enqueue.RequestOrigin{Origin: "https://staging.example.edu"}, true},
		{"production empty headers", "production", enqueue.RequestOrigin{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := enqueue.ResolveDevOnly(tc.environment, tc.origin, "staging.")
			assert.Equal(t, tc.want, got)
		})
	}
}
