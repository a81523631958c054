// Package notifier is the delivery core: every "notify user X" intent in the
// platform lands here, is persisted first, and is then fanned out to whichever
// channels the recipient's preferences allow. Channel failures never propagate
// to the caller; the persisted row is the durable contract.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/repository"
	"sauti-jamii/internal/service/email"
	"sauti-jamii/internal/service/push"
)

// ChannelSettings are process-wide delivery kill-switches, owned by this
// service and read through explicit accessors rather than ambient globals.
// They gate channels on top of per-user preferences.
type ChannelSettings struct {
	InApp bool `json:"in_app"`
	Push  bool `json:"push"`
	Email bool `json:"email"`
}

type Service interface {
	// Notify persists a notification for the recipient and dispatches it to
	// the enabled channels. It fails only if the persistence step fails.
	Notify(ctx context.Context, recipientID uuid.UUID, input domain.NotificationInput) (*domain.Notification, error)

	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error)

	Settings() ChannelSettings
	UpdateSettings(settings ChannelSettings)
}

type service struct {
	notifRepo repository.NotificationRepository
	prefRepo  repository.PreferenceRepository
	pushRepo  repository.PushRepository
	userRepo  repository.UserRepository
	registry  *realtime.Registry
	pushSvc   push.Service
	emailSvc  email.Service
	redis     *redis.Client

	settingsMu sync.RWMutex
	settings   ChannelSettings
}

func NewService(
	notifRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	pushRepo repository.PushRepository,
	userRepo repository.UserRepository,
	registry *realtime.Registry,
	pushSvc push.Service,
	emailSvc email.Service,
	redisClient *redis.Client,
) Service {
	return &service{
		notifRepo: notifRepo,
		prefRepo:  prefRepo,
		pushRepo:  pushRepo,
		userRepo:  userRepo,
		registry:  registry,
		pushSvc:   pushSvc,
		emailSvc:  emailSvc,
		redis:     redisClient,
		settings:  ChannelSettings{InApp: true, Push: true, Email: true},
	}
}

// livePayload is what in-app sinks receive for a freshly created notification.
type livePayload struct {
	Event        string               `json:"event"`
	Notification *domain.Notification `json:"notification"`
}

func (s *service) Notify(ctx context.Context, recipientID uuid.UUID, input domain.NotificationInput) (*domain.Notification, error) {
	var data json.RawMessage
	if input.Data != nil {
		encoded, err := json.Marshal(input.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification data: %w", err)
		}
		data = encoded
	}

	notif := &domain.Notification{
		ID:     uuid.New(),
		UserID: recipientID,
		Type:   input.Type,
		Title:  input.Title,
		Body:   input.Body,
		Data:   data,
	}

	// The durable record comes first: channel dispatch is best-effort and a
	// disconnected recipient picks the notification up on their next poll.
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}
	s.invalidateUnreadCount(ctx, recipientID)

	pref := s.preferencesOrDefault(ctx, recipientID)
	settings := s.Settings()

	if settings.InApp && pref.InApp {
		s.registry.Broadcast(recipientID, livePayload{Event: "notification", Notification: notif})
	}

	if settings.Push && pref.Push {
		s.dispatchPush(ctx, recipientID, notif)
	}

	if settings.Email && pref.Email {
		s.dispatchEmail(ctx, recipientID, notif)
	}

	return notif, nil
}

// dispatchPush delivers to each of the recipient's registrations
// independently; one broken device must not block the others.
func (s *service) dispatchPush(ctx context.Context, recipientID uuid.UUID, notif *domain.Notification) {
	regs, err := s.pushRepo.ListByUser(ctx, recipientID)
	if err != nil {
		log.Printf("notifier: failed to list push registrations for %s: %v", recipientID, err)
		return
	}
	if len(regs) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type":  notif.Type,
		"title": notif.Title,
		"body":  notif.Body,
		"data":  notif.Data,
	})
	if err != nil {
		log.Printf("notifier: failed to encode push payload: %v", err)
		return
	}

	for i := range regs {
		if err := s.pushSvc.Deliver(ctx, &regs[i], payload); err != nil {
			log.Printf("notifier: push delivery for %s: %v", recipientID, err)
		}
	}
}

func (s *service) dispatchEmail(ctx context.Context, recipientID uuid.UUID, notif *domain.Notification) {
	user, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		log.Printf("notifier: failed to load user %s for email delivery: %v", recipientID, err)
		return
	}
	if err := s.emailSvc.SendNotificationEmail(ctx, user.Email, user.FullName, notif.Title, notif.Body); err != nil {
		log.Printf("notifier: email delivery to %s failed: %v", user.Email, err)
	}
}

// preferencesOrDefault loads the recipient's preference row, creating it with
// defaults on first access. Lookup failure falls back to the defaults so a
// preference-store hiccup cannot suppress delivery entirely.
func (s *service) preferencesOrDefault(ctx context.Context, userID uuid.UUID) *domain.NotificationPreference {
	pref, err := s.GetPreferences(ctx, userID)
	if err != nil {
		log.Printf("notifier: failed to load preferences for %s: %v", userID, err)
		return domain.DefaultNotificationPreference(userID)
	}
	return pref
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	pref, err := s.prefRepo.GetByUser(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	pref = domain.DefaultNotificationPreference(userID)
	if err := s.prefRepo.Create(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error) {
	pref, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.InApp != nil {
		pref.InApp = *input.InApp
	}
	if input.Push != nil {
		pref.Push = *input.Push
	}
	if input.Email != nil {
		pref.Email = *input.Email
	}

	if err := s.prefRepo.Update(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	cacheKey := unreadCountKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, count, 5*time.Minute).Err()
	}
	return count, nil
}

func (s *service) invalidateUnreadCount(ctx context.Context, userID uuid.UUID) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, unreadCountKey(userID)).Err()
	}
}

func unreadCountKey(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func (s *service) Settings() ChannelSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

func (s *service) UpdateSettings(settings ChannelSettings) {
	s.settingsMu.Lock()
	s.settings = settings
	s.settingsMu.Unlock()
}
