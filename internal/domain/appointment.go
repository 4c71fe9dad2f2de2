package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Professional is a bookable healthcare professional, managed by admins
type Professional struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appointment represents a booked consultation with a professional
type Appointment struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	ProfessionalID string            `json:"professional_id"`
	StartsAt       time.Time         `json:"starts_at"`
	Status         AppointmentStatus `json:"status"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewAppointment creates a pending appointment
func NewAppointment(userID, professionalID string, startsAt time.Time, amount float64, currency, notes string) (*Appointment, error) {
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if professionalID == "" {
		return nil, errors.New("professional_id is required")
	}
	if startsAt.IsZero() {
		return nil, errors.New("starts_at is required")
	}
	if amount < 0 {
		return nil, errors.New("amount must not be negative")
	}
	if currency == "" {
		currency = "EUR"
	}

	now := time.Now().UTC()
	return &Appointment{
		ID:             uuid.New().String(),
		UserID:         userID,
		ProfessionalID: professionalID,
		StartsAt:       startsAt.UTC(),
		Status:         AppointmentStatusPending,
		Amount:         amount,
		Currency:       currency,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Confirm marks the appointment as confirmed (payment settled)
func (a *Appointment) Confirm() error {
	if a.Status != AppointmentStatusPending {
		return errors.New("appointment must be pending to confirm")
	}
	a.Status = AppointmentStatusConfirmed
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks the appointment as completed
func (a *Appointment) Complete() error {
	if a.Status != AppointmentStatusConfirmed {
		return errors.New("appointment must be confirmed to complete")
	}
	a.Status = AppointmentStatusCompleted
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel marks the appointment as cancelled
func (a *Appointment) Cancel() error {
	if a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled {
		return errors.New("appointment can no longer be cancelled")
	}
	a.Status = AppointmentStatusCancelled
	a.UpdatedAt = time.Now().UTC()
	return nil
}
