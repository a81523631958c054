package push

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"sauti-jamii/internal/config"
	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/repository"
)

// ErrRegistrationGone marks a delivery that failed because the provider
// reported the endpoint as permanently invalid. The registration has already
// been pruned by the time this is returned.
var ErrRegistrationGone = errors.New("push registration gone")

// Transport sends a payload to one external push endpoint and returns the
// provider's HTTP status code. Swappable so the core logic is independent of
// the configured push provider.
type Transport interface {
	Push(ctx context.Context, sub *webpush.Subscription, payload []byte) (int, error)
}

type Service interface {
	Register(ctx context.Context, userID uuid.UUID, input domain.RegisterPushInput, userAgent *string) (*domain.PushRegistration, error)
	Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error
	Registrations(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error)
	// Deliver attempts delivery to one registration. A provider response in
	// the gone/not-found class deletes the registration inline; any other
	// failure keeps it, attributed to transient provider trouble.
	Deliver(ctx context.Context, reg *domain.PushRegistration, payload []byte) error
}

type service struct {
	pushRepo  repository.PushRepository
	transport Transport
}

type webPushTransport struct {
	options webpush.Options
}

func (t *webPushTransport) Push(ctx context.Context, sub *webpush.Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, sub, &t.options)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func NewService(pushRepo repository.PushRepository, cfg *config.Config) Service {
	transport := &webPushTransport{
		options: webpush.Options{
			Subscriber:      cfg.VAPIDSubject,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             int(cfg.PushTTL.Seconds()),
		},
	}
	return NewServiceWithTransport(pushRepo, transport)
}

func NewServiceWithTransport(pushRepo repository.PushRepository, transport Transport) Service {
	return &service{
		pushRepo:  pushRepo,
		transport: transport,
	}
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, input domain.RegisterPushInput, userAgent *string) (*domain.PushRegistration, error) {
	if strings.TrimSpace(input.Endpoint) == "" || input.P256dh == "" || input.Auth == "" {
		return nil, fmt.Errorf("%w: endpoint, p256dh and auth are required", domain.ErrInvalidInput)
	}

	reg := &domain.PushRegistration{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  input.Endpoint,
		P256dh:    input.P256dh,
		Auth:      input.Auth,
		UserAgent: userAgent,
	}

	if err := s.pushRepo.Upsert(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *service) Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return fmt.Errorf("%w: endpoint is required", domain.ErrInvalidInput)
	}
	return s.pushRepo.DeleteByEndpoint(ctx, userID, endpoint)
}

func (s *service) Registrations(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error) {
	return s.pushRepo.ListByUser(ctx, userID)
}

func (s *service) Deliver(ctx context.Context, reg *domain.PushRegistration, payload []byte) error {
	sub := &webpush.Subscription{
		Endpoint: reg.Endpoint,
		Keys: webpush.Keys{
			P256dh: reg.P256dh,
			Auth:   reg.Auth,
		},
	}

	status, err := s.transport.Push(ctx, sub, payload)
	if err != nil {
		return fmt.Errorf("push delivery to %s failed: %w", reg.Endpoint, err)
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		// The endpoint no longer exists; prune it so we stop trying.
		if err := s.pushRepo.Delete(ctx, reg.ID); err != nil {
			log.Printf("push: failed to prune gone registration %s: %v", reg.ID, err)
		}
		return ErrRegistrationGone
	case status >= 400:
		return fmt.Errorf("push delivery to %s failed with status %d", reg.Endpoint, status)
	}

	return nil
}
