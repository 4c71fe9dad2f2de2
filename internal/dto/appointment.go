package dto

import (
	"time"
)

// CreateAppointmentRequest is the payload for booking an appointment
type CreateAppointmentRequest struct {
	ProfessionalID string    `json:"professional_id" binding:"required"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Notes          string    `json:"notes"`
}

// CreateProfessionalRequest is the payload for creating a professional (admin)
type CreateProfessionalRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
}

// UpdateProfessionalRequest is the payload for updating a professional (admin)
type UpdateProfessionalRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	IsActive  *bool  `json:"is_active"`
}

// AppointmentCreatedEvent is published when an appointment is booked
type AppointmentCreatedEvent struct {
	EventType      string    `json:"event_type"`
	AppointmentID  string    `json:"appointment_id"`
	UserID         string    `json:"user_id"`
	ProfessionalID string    `json:"professional_id"`
	StartsAt       time.Time `json:"starts_at"`
	Timestamp      time.Time `json:"timestamp"`
}

// Key returns the Kafka partition key for the event
func (e *AppointmentCreatedEvent) Key() string {
	return e.AppointmentID
}

// TopicAppointments is the Kafka topic for appointment events
const TopicAppointments = "appointments"
