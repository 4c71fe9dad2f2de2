package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
)

// mockProfessionalRepository is an in-memory ProfessionalRepository
type mockProfessionalRepository struct {
	professionals map[string]*domain.Professional
}

func newMockProfessionalRepository() *mockProfessionalRepository {
	return &mockProfessionalRepository{professionals: make(map[string]*domain.Professional)}
}

func (r *mockProfessionalRepository) Create(ctx context.Context, pro *domain.Professional) error {
	r.professionals[pro.ID] = pro
	return nil
}

func (r *mockProfessionalRepository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	return r.professionals[id], nil
}

func (r *mockProfessionalRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Professional, error) {
	var result []*domain.Professional
	for _, pro := range r.professionals {
		if activeOnly && !pro.IsActive {
			continue
		}
		result = append(result, pro)
	}
	return result, nil
}

func (r *mockProfessionalRepository) Update(ctx context.Context, pro *domain.Professional) error {
	r.professionals[pro.ID] = pro
	return nil
}

func newAppointmentFixture() (AppointmentService, *mockAppointmentRepository, *mockProfessionalRepository, *recordingPublisher) {
	appointmentRepo := newMockAppointmentRepository()
	professionalRepo := newMockProfessionalRepository()
	publisher := &recordingPublisher{}
	svc := NewAppointmentService(appointmentRepo, professionalRepo, publisher)
	return svc, appointmentRepo, professionalRepo, publisher
}

func activeProfessional(repo *mockProfessionalRepository) *domain.Professional {
	pro := &domain.Professional{ID: "pro-1", Name: "Dr. A", Specialty: "endocrinology", IsActive: true}
	repo.professionals[pro.ID] = pro
	return pro
}

func TestAppointmentService_Create(t *testing.T) {
	svc, _, professionalRepo, publisher := newAppointmentFixture()
	ctx := context.Background()
	activeProfessional(professionalRepo)

	t.Run("successful booking", func(t *testing.T) {
		appt, err := svc.Create(ctx, "user-1", &dto.CreateAppointmentRequest{
			ProfessionalID: "pro-1",
			StartsAt:       time.Now().Add(48 * time.Hour),
			Amount:         60,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if appt.Status != domain.AppointmentStatusPending {
			t.Errorf("Create() status = %q, want pending", appt.Status)
		}
		if appt.Currency != "EUR" {
			t.Errorf("Create() currency = %q, want EUR default", appt.Currency)
		}
		if len(publisher.topics) != 1 || publisher.topics[0] != dto.TopicAppointments {
			t.Errorf("published topics = %v, want [appointments]", publisher.topics)
		}
	})

	t.Run("unknown professional", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-1", &dto.CreateAppointmentRequest{
			ProfessionalID: "missing",
			StartsAt:       time.Now().Add(48 * time.Hour),
		})
		if !errors.Is(err, ErrProfessionalNotFound) {
			t.Errorf("Create() error = %v, want ErrProfessionalNotFound", err)
		}
	})

	t.Run("inactive professional", func(t *testing.T) {
		professionalRepo.professionals["pro-1"].IsActive = false
		defer func() { professionalRepo.professionals["pro-1"].IsActive = true }()

		_, err := svc.Create(ctx, "user-1", &dto.CreateAppointmentRequest{
			ProfessionalID: "pro-1",
			StartsAt:       time.Now().Add(48 * time.Hour),
		})
		if !errors.Is(err, ErrProfessionalInactive) {
			t.Errorf("Create() error = %v, want ErrProfessionalInactive", err)
		}
	})
}

func TestAppointmentService_Ownership(t *testing.T) {
	svc, _, professionalRepo, _ := newAppointmentFixture()
	ctx := context.Background()
	activeProfessional(professionalRepo)

	appt, err := svc.Create(ctx, "user-1", &dto.CreateAppointmentRequest{
		ProfessionalID: "pro-1",
		StartsAt:       time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.GetByID(ctx, "user-2", appt.ID); !errors.Is(err, ErrAppointmentNotOwned) {
		t.Errorf("GetByID() other user error = %v, want ErrAppointmentNotOwned", err)
	}
	if _, err := svc.Cancel(ctx, "user-2", appt.ID); !errors.Is(err, ErrAppointmentNotOwned) {
		t.Errorf("Cancel() other user error = %v, want ErrAppointmentNotOwned", err)
	}
	if _, err := svc.GetByID(ctx, "user-1", "missing"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("GetByID() unknown id error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestAppointmentService_Cancel(t *testing.T) {
	svc, _, professionalRepo, _ := newAppointmentFixture()
	ctx := context.Background()
	activeProfessional(professionalRepo)

	appt, err := svc.Create(ctx, "user-1", &dto.CreateAppointmentRequest{
		ProfessionalID: "pro-1",
		StartsAt:       time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cancelled, err := svc.Cancel(ctx, "user-1", appt.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != domain.AppointmentStatusCancelled {
		t.Errorf("Cancel() status = %q, want cancelled", cancelled.Status)
	}

	// Cancelling a cancelled appointment fails on the state transition
	if _, err := svc.Cancel(ctx, "user-1", appt.ID); err == nil {
		t.Error("Cancel() on cancelled appointment did not error")
	}
}

func TestAppointmentService_Professionals(t *testing.T) {
	svc, _, _, _ := newAppointmentFixture()
	ctx := context.Background()

	created, err := svc.CreateProfessional(ctx, &dto.CreateProfessionalRequest{
		Name:      "Dr. B",
		Specialty: "nutrition",
	})
	if err != nil {
		t.Fatalf("CreateProfessional() error = %v", err)
	}
	if !created.IsActive {
		t.Error("CreateProfessional() IsActive = false, want true")
	}

	inactive := false
	updated, err := svc.UpdateProfessional(ctx, created.ID, &dto.UpdateProfessionalRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateProfessional() error = %v", err)
	}
	if updated.IsActive {
		t.Error("UpdateProfessional() IsActive = true, want false")
	}

	active, err := svc.ListProfessionals(ctx, true)
	if err != nil {
		t.Fatalf("ListProfessionals() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("ListProfessionals(activeOnly) returned %d, want 0", len(active))
	}

	all, err := svc.ListProfessionals(ctx, false)
	if err != nil {
		t.Fatalf("ListProfessionals() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListProfessionals(all) returned %d, want 1", len(all))
	}

	if _, err := svc.UpdateProfessional(ctx, "missing", &dto.UpdateProfessionalRequest{Name: "X"}); !errors.Is(err, ErrProfessionalNotFound) {
		t.Errorf("UpdateProfessional() unknown id error = %v, want ErrProfessionalNotFound", err)
	}
}
