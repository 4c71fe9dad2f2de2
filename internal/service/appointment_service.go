package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/pkg/kafka"
	"github.com/diabify/platform/pkg/logger"
	"github.com/diabify/platform/pkg/telemetry"
)

var (
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrProfessionalInactive = errors.New("professional is not accepting appointments")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotOwned  = errors.New("appointment does not belong to user")
)

// EventPublisher publishes domain events to the message broker.
// A nil publisher disables event publishing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic, key string, payload interface{}) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher wraps a Kafka producer as an EventPublisher
func NewKafkaPublisher(producer *kafka.Producer) EventPublisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) PublishJSON(ctx context.Context, topic, key string, payload interface{}) error {
	return p.producer.ProduceJSON(ctx, topic, key, payload, nil)
}

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Create(ctx context.Context, userID string, req *dto.CreateAppointmentRequest) (*domain.Appointment, error)
	GetByID(ctx context.Context, userID, appointmentID string) (*domain.Appointment, error)
	ListMine(ctx context.Context, userID string, limit, offset int) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, userID, appointmentID string) (*domain.Appointment, error)

	CreateProfessional(ctx context.Context, req *dto.CreateProfessionalRequest) (*domain.Professional, error)
	UpdateProfessional(ctx context.Context, id string, req *dto.UpdateProfessionalRequest) (*domain.Professional, error)
	ListProfessionals(ctx context.Context, activeOnly bool) ([]*domain.Professional, error)
}

type appointmentService struct {
	appointmentRepo  repository.AppointmentRepository
	professionalRepo repository.ProfessionalRepository
	publisher        EventPublisher
}

// NewAppointmentService creates a new AppointmentService. publisher may be nil.
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	professionalRepo repository.ProfessionalRepository,
	publisher EventPublisher,
) AppointmentService {
	return &appointmentService{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		publisher:        publisher,
	}
}

func (s *appointmentService) publish(ctx context.Context, topic, key string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(ctx, topic, key, payload); err != nil {
		logger.Get().Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err))
	}
}

// Create books a new appointment with a professional
func (s *appointmentService) Create(ctx context.Context, userID string, req *dto.CreateAppointmentRequest) (*domain.Appointment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("professional_id", req.ProfessionalID),
	)

	professional, err := s.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if professional == nil {
		span.SetStatus(codes.Error, "professional not found")
		return nil, ErrProfessionalNotFound
	}
	if !professional.IsActive {
		span.SetStatus(codes.Error, "professional inactive")
		return nil, ErrProfessionalInactive
	}

	appointment, err := domain.NewAppointment(userID, req.ProfessionalID, req.StartsAt, req.Amount, req.Currency, req.Notes)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	event := &dto.AppointmentCreatedEvent{
		EventType:      "appointment.created",
		AppointmentID:  appointment.ID,
		UserID:         userID,
		ProfessionalID: req.ProfessionalID,
		StartsAt:       appointment.StartsAt,
		Timestamp:      appointment.CreatedAt,
	}
	s.publish(ctx, dto.TopicAppointments, event.Key(), event)

	span.SetAttributes(attribute.String("appointment_id", appointment.ID))
	span.SetStatus(codes.Ok, "")
	return appointment, nil
}

// GetByID retrieves an appointment owned by the user
func (s *appointmentService) GetByID(ctx context.Context, userID, appointmentID string) (*domain.Appointment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.get")
	defer span.End()

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if appointment == nil {
		span.SetStatus(codes.Error, "appointment not found")
		return nil, ErrAppointmentNotFound
	}
	if appointment.UserID != userID {
		span.SetStatus(codes.Error, "appointment not owned")
		return nil, ErrAppointmentNotOwned
	}

	span.SetStatus(codes.Ok, "")
	return appointment, nil
}

// ListMine lists the user's appointments
func (s *appointmentService) ListMine(ctx context.Context, userID string, limit, offset int) ([]*domain.Appointment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.list_mine")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	appointments, err := s.appointmentRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(appointments)))
	span.SetStatus(codes.Ok, "")
	return appointments, nil
}

// Cancel cancels an appointment owned by the user
func (s *appointmentService) Cancel(ctx context.Context, userID, appointmentID string) (*domain.Appointment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.cancel")
	defer span.End()

	appointment, err := s.GetByID(ctx, userID, appointmentID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := appointment.Cancel(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return appointment, nil
}

// CreateProfessional registers a new professional
func (s *appointmentService) CreateProfessional(ctx context.Context, req *dto.CreateProfessionalRequest) (*domain.Professional, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.create_professional")
	defer span.End()

	now := time.Now().UTC()
	professional := &domain.Professional{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Specialty: req.Specialty,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.professionalRepo.Create(ctx, professional); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("professional_id", professional.ID))
	span.SetStatus(codes.Ok, "")
	return professional, nil
}

// UpdateProfessional updates a professional's details
func (s *appointmentService) UpdateProfessional(ctx context.Context, id string, req *dto.UpdateProfessionalRequest) (*domain.Professional, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.update_professional")
	defer span.End()

	professional, err := s.professionalRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if professional == nil {
		span.SetStatus(codes.Error, "professional not found")
		return nil, ErrProfessionalNotFound
	}

	if req.Name != "" {
		professional.Name = req.Name
	}
	if req.Specialty != "" {
		professional.Specialty = req.Specialty
	}
	if req.IsActive != nil {
		professional.IsActive = *req.IsActive
	}

	if err := s.professionalRepo.Update(ctx, professional); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return professional, nil
}

// ListProfessionals lists professionals, optionally only active ones
func (s *appointmentService) ListProfessionals(ctx context.Context, activeOnly bool) ([]*domain.Professional, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.appointment.list_professionals")
	defer span.End()

	professionals, err := s.professionalRepo.List(ctx, activeOnly)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(professionals)))
	span.SetStatus(codes.Ok, "")
	return professionals, nil
}
