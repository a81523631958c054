package notifier_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/mocks"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/service/notifier"
	"sauti-jamii/internal/service/push"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type captureSink struct {
	mu       sync.Mutex
	payloads []any
}

func (s *captureSink) Deliver(payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *captureSink) Close() error { return nil }

func (s *captureSink) received() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.payloads...)
}

type fanoutFixture struct {
	notifRepo *mocks.NotificationRepository
	prefRepo  *mocks.PreferenceRepository
	pushRepo  *mocks.PushRepository
	userRepo  *mocks.UserRepository
	registry  *realtime.Registry
	pushSvc   *mocks.PushService
	emailSvc  *mocks.EmailService
	svc       notifier.Service
}

func newFanoutFixture() *fanoutFixture {
	f := &fanoutFixture{
		notifRepo: new(mocks.NotificationRepository),
		prefRepo:  new(mocks.PreferenceRepository),
		pushRepo:  new(mocks.PushRepository),
		userRepo:  new(mocks.UserRepository),
		registry:  realtime.NewRegistry(),
		pushSvc:   new(mocks.PushService),
		emailSvc:  new(mocks.EmailService),
	}
	f.svc = notifier.NewService(f.notifRepo, f.prefRepo, f.pushRepo, f.userRepo, f.registry, f.pushSvc, f.emailSvc, nil)
	return f
}

func TestNotifierService_Notify(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	input := domain.NotificationInput{
		Type:  domain.NotifIssueStatus,
		Title: "Issue status changed to resolved",
		Body:  "Your issue is now resolved.",
		Data:  map[string]string{"issue_id": uuid.NewString()},
	}

	t.Run("Persists Even When Recipient Is Unreachable", func(t *testing.T) {
		f := newFanoutFixture()
		pref := domain.DefaultNotificationPreference(recipientID)

		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == recipientID && n.Type == input.Type && n.Title == input.Title
		})).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(pref, nil).Once()
		f.pushRepo.On("ListByUser", ctx, recipientID).Return([]domain.PushRegistration{}, nil).Once()

		notif, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		assert.NotNil(t, notif)
		assert.False(t, notif.IsRead)
		f.notifRepo.AssertExpectations(t)
		f.emailSvc.AssertNotCalled(t, "SendNotificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Persistence Failure Fails The Notify", func(t *testing.T) {
		f := newFanoutFixture()

		f.notifRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		notif, err := f.svc.Notify(ctx, recipientID, input)

		assert.Error(t, err)
		assert.Nil(t, notif)
		f.pushRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})

	t.Run("Live Connection Receives The Notification", func(t *testing.T) {
		f := newFanoutFixture()
		sink := &captureSink{}
		f.registry.Attach(recipientID, sink)

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(domain.DefaultNotificationPreference(recipientID), nil).Once()
		f.pushRepo.On("ListByUser", ctx, recipientID).Return([]domain.PushRegistration{}, nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		assert.Len(t, sink.received(), 1)
	})

	t.Run("First Notify Creates Default Preferences", func(t *testing.T) {
		f := newFanoutFixture()

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(nil, domain.ErrNotFound).Once()
		f.prefRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.NotificationPreference) bool {
			return p.UserID == recipientID && p.InApp && p.Push && !p.Email
		})).Return(nil).Once()
		f.pushRepo.On("ListByUser", ctx, recipientID).Return([]domain.PushRegistration{}, nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		f.prefRepo.AssertExpectations(t)
		// Email stays off by default.
		f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Push Disabled By Preference", func(t *testing.T) {
		f := newFanoutFixture()
		pref := &domain.NotificationPreference{UserID: recipientID, InApp: true, Push: false, Email: false}

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(pref, nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		f.pushRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})

	t.Run("Stale Registration Does Not Block The Rest", func(t *testing.T) {
		f := newFanoutFixture()
		gone := domain.PushRegistration{ID: uuid.New(), UserID: recipientID, Endpoint: "https://push.example.com/gone"}
		alive := domain.PushRegistration{ID: uuid.New(), UserID: recipientID, Endpoint: "https://push.example.com/alive"}

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(domain.DefaultNotificationPreference(recipientID), nil).Once()
		f.pushRepo.On("ListByUser", ctx, recipientID).Return([]domain.PushRegistration{gone, alive}, nil).Once()
		f.pushSvc.On("Deliver", ctx, mock.MatchedBy(func(r *domain.PushRegistration) bool {
			return r.ID == gone.ID
		}), mock.Anything).Return(push.ErrRegistrationGone).Once()
		f.pushSvc.On("Deliver", ctx, mock.MatchedBy(func(r *domain.PushRegistration) bool {
			return r.ID == alive.ID
		}), mock.Anything).Return(nil).Once()

		notif, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		assert.NotNil(t, notif)
		f.pushSvc.AssertExpectations(t)
	})

	t.Run("Email Channel When Opted In", func(t *testing.T) {
		f := newFanoutFixture()
		pref := &domain.NotificationPreference{UserID: recipientID, InApp: true, Push: false, Email: true}
		user := &domain.User{ID: recipientID, Email: "amina@example.com", FullName: "Amina Odhiambo"}

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(pref, nil).Once()
		f.userRepo.On("GetByID", ctx, recipientID).Return(user, nil).Once()
		f.emailSvc.On("SendNotificationEmail", ctx, user.Email, user.FullName, input.Title, input.Body).Return(nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("Encodes Structured Data", func(t *testing.T) {
		f := newFanoutFixture()
		pref := &domain.NotificationPreference{UserID: recipientID, InApp: false, Push: false, Email: false}

		var stored *domain.Notification
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			stored = n
			return true
		})).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(pref, nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		var decoded map[string]string
		assert.NoError(t, json.Unmarshal(stored.Data, &decoded))
		assert.Equal(t, input.Data["issue_id"], decoded["issue_id"])
	})
}

func TestNotifierService_ChannelSettings(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	input := domain.NotificationInput{Type: domain.NotifNewMessage, Title: "New message", Body: "hello"}

	t.Run("Defaults To All Enabled", func(t *testing.T) {
		f := newFanoutFixture()

		settings := f.svc.Settings()

		assert.True(t, settings.InApp)
		assert.True(t, settings.Push)
		assert.True(t, settings.Email)
	})

	t.Run("Kill Switch Suppresses A Channel", func(t *testing.T) {
		f := newFanoutFixture()
		f.svc.UpdateSettings(notifier.ChannelSettings{InApp: true, Push: false, Email: true})

		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.prefRepo.On("GetByUser", ctx, recipientID).Return(domain.DefaultNotificationPreference(recipientID), nil).Once()

		_, err := f.svc.Notify(ctx, recipientID, input)

		assert.NoError(t, err)
		// Per-user push preference is on, but the global switch wins.
		f.pushRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})
}

func TestNotifierService_Preferences(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Lazily Created On First Read", func(t *testing.T) {
		f := newFanoutFixture()

		f.prefRepo.On("GetByUser", ctx, userID).Return(nil, domain.ErrNotFound).Once()
		f.prefRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		pref, err := f.svc.GetPreferences(ctx, userID)

		assert.NoError(t, err)
		assert.True(t, pref.InApp)
		assert.True(t, pref.Push)
		assert.False(t, pref.Email)
	})

	t.Run("Partial Update Leaves Other Flags", func(t *testing.T) {
		f := newFanoutFixture()
		existing := &domain.NotificationPreference{UserID: userID, InApp: true, Push: true, Email: false}
		optIn := true

		f.prefRepo.On("GetByUser", ctx, userID).Return(existing, nil).Once()
		f.prefRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.NotificationPreference) bool {
			return p.Email && p.InApp && p.Push
		})).Return(nil).Once()

		pref, err := f.svc.UpdatePreferences(ctx, userID, domain.UpdatePreferenceInput{Email: &optIn})

		assert.NoError(t, err)
		assert.True(t, pref.Email)
		assert.True(t, pref.Push)
		f.prefRepo.AssertExpectations(t)
	})
}

func TestNotifierService_ReadTracking(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("MarkAsRead Scopes To Owner", func(t *testing.T) {
		f := newFanoutFixture()
		notifID := uuid.New()

		f.notifRepo.On("MarkAsRead", ctx, notifID, userID).Return(nil).Once()

		err := f.svc.MarkAsRead(ctx, userID, notifID)

		assert.NoError(t, err)
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("Unread Count Without Cache", func(t *testing.T) {
		f := newFanoutFixture()

		f.notifRepo.On("CountUnread", ctx, userID).Return(int64(4), nil).Once()

		count, err := f.svc.GetUnreadCount(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("List Pages Results", func(t *testing.T) {
		f := newFanoutFixture()
		params := domain.PaginationParams{Page: 1, PageSize: 20}
		stored := []domain.Notification{{ID: uuid.New(), UserID: userID}}

		f.notifRepo.On("ListByUser", ctx, userID, true, params).Return(stored, int64(1), nil).Once()

		page, err := f.svc.List(ctx, userID, true, params)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), page.TotalItems)
		assert.Len(t, page.Data, 1)
	})
}
