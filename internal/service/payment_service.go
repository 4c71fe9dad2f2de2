package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"go.uber.org/zap"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/pkg/logger"
	"github.com/diabify/platform/pkg/telemetry"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrUnknownWebhookEvent = errors.New("unknown webhook event type")
)

// PaymentService processes payment provider webhook events
type PaymentService interface {
	// VerifySignature checks the HMAC-SHA256 signature of a raw webhook payload.
	VerifySignature(payload []byte, signature string) error
	// ProcessWebhookEvent applies a verified webhook event. Processing is
	// idempotent on the provider payment id.
	ProcessWebhookEvent(ctx context.Context, event *dto.WebhookEvent) error
}

type paymentService struct {
	paymentRepo     repository.PaymentRepository
	appointmentRepo repository.AppointmentRepository
	secret          string
	publisher       EventPublisher
}

// NewPaymentService creates a new PaymentService. publisher may be nil.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	appointmentRepo repository.AppointmentRepository,
	secret string,
	publisher EventPublisher,
) PaymentService {
	return &paymentService{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		secret:          secret,
		publisher:       publisher,
	}
}

// VerifySignature checks the webhook signature against the shared secret
func (s *paymentService) VerifySignature(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ProcessWebhookEvent applies a verified webhook event
func (s *paymentService) ProcessWebhookEvent(ctx context.Context, event *dto.WebhookEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "service.payment.process_webhook")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_type", event.Type),
		attribute.String("provider_payment_id", event.PaymentID),
		attribute.String("appointment_id", event.AppointmentID),
	)

	// Providers retry deliveries, so replays of an already recorded payment
	// are acknowledged without side effects.
	existing, err := s.paymentRepo.GetByProviderPaymentID(ctx, event.PaymentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("duplicate", true))
		span.SetStatus(codes.Ok, "")
		return nil
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, event.AppointmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if appointment == nil {
		span.SetStatus(codes.Error, "appointment not found")
		return ErrAppointmentNotFound
	}

	var status domain.PaymentStatus
	switch event.Type {
	case dto.WebhookEventPaymentSucceeded:
		status = domain.PaymentStatusSucceeded
		if err := appointment.Confirm(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	case dto.WebhookEventPaymentFailed:
		status = domain.PaymentStatusFailed
		if err := appointment.Cancel(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	default:
		span.SetStatus(codes.Error, "unknown webhook event type")
		return ErrUnknownWebhookEvent
	}

	payment, err := domain.NewPayment(event.PaymentID, event.AppointmentID, event.Amount, event.Currency, status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if status == domain.PaymentStatusFailed {
		payment.FailureReason = event.Reason
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	settled := &dto.PaymentSettledEvent{
		EventType:     event.Type,
		PaymentID:     payment.ID,
		AppointmentID: appointment.ID,
		Status:        string(status),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Timestamp:     time.Now().UTC(),
	}
	if s.publisher != nil {
		if err := s.publisher.PublishJSON(ctx, dto.TopicPayments, settled.Key(), settled); err != nil {
			logger.Get().Warn("failed to publish payment event",
				zap.String("payment_id", payment.ID),
				zap.Error(err))
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
