package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/google/uuid"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/pkg/telemetry"
)

// NewsletterService manages newsletter subscriptions
type NewsletterService interface {
	// Subscribe adds the email to the newsletter. Subscribing twice is a
	// no-op, and unsubscribed addresses are reactivated.
	Subscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	// Unsubscribe marks the email as unsubscribed. Unknown or already
	// unsubscribed emails are accepted without error.
	Unsubscribe(ctx context.Context, email string) error
	// List returns a page of subscribers with counts.
	List(ctx context.Context, limit, offset int) ([]*domain.Subscriber, *dto.SubscriberListMeta, error)
}

type newsletterService struct {
	repo repository.NewsletterRepository
}

// NewNewsletterService creates a new NewsletterService
func NewNewsletterService(repo repository.NewsletterRepository) NewsletterService {
	return &newsletterService{repo: repo}
}

// Subscribe adds the email to the newsletter
func (s *newsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.newsletter.subscribe")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	span.SetAttributes(attribute.String("email", email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		if existing.IsSubscribed() {
			span.SetStatus(codes.Ok, "already subscribed")
			return existing, nil
		}
		existing.UnsubscribedAt = nil
		existing.SubscribedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, existing); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetStatus(codes.Ok, "resubscribed")
		return existing, nil
	}

	subscriber := &domain.Subscriber{
		ID:           uuid.New().String(),
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return subscriber, nil
}

// Unsubscribe marks the email as unsubscribed
func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.newsletter.unsubscribe")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	span.SetAttributes(attribute.String("email", email))

	subscriber, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if subscriber == nil || !subscriber.IsSubscribed() {
		span.SetStatus(codes.Ok, "not subscribed")
		return nil
	}

	now := time.Now().UTC()
	subscriber.UnsubscribedAt = &now
	if err := s.repo.Update(ctx, subscriber); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// List returns a page of subscribers
func (s *newsletterService) List(ctx context.Context, limit, offset int) ([]*domain.Subscriber, *dto.SubscriberListMeta, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.newsletter.list")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	subscribers, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	total, active, err := s.repo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	meta := &dto.SubscriberListMeta{
		Total:  total,
		Active: active,
		Limit:  limit,
		Offset: offset,
	}

	span.SetAttributes(attribute.Int("count", len(subscribers)))
	span.SetStatus(codes.Ok, "")
	return subscribers, meta, nil
}
