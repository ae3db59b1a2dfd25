package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sergio-tacza/api/internal/models"
	"github.com/sergio-tacza/api/internal/schedule"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound   = errors.New("appointment not found")
	ErrValidation = errors.New("invalid appointment")
)

type Service struct {
	repo     Repository
	dir      Directory
	location *time.Location
}

func NewService(repo Repository, dir Directory, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		dir:      dir,
		location: location,
	}
}

// Create books a new appointment in pending state. The end time is derived
// once from the service duration and never recomputed, even if the service
// is edited later.
func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Appointment, error) {
	start, err := time.ParseInLocation("2006-01-02T15:04", req.Start, s.location)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("%w: bad start datetime", ErrValidation)
	}

	client, err := s.dir.ClientByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, fmt.Errorf("%w: client does not exist", ErrValidation)
		}
		return models.Appointment{}, err
	}

	service, err := s.dir.ServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, fmt.Errorf("%w: service does not exist", ErrValidation)
		}
		return models.Appointment{}, err
	}
	if service.DurationMin <= 0 {
		// Without a positive duration we cannot compute a valid end; refuse
		// instead of storing end <= start.
		return models.Appointment{}, fmt.Errorf("%w: service has no duration", ErrValidation)
	}

	appt := models.Appointment{
		ID:           primitive.NewObjectID().Hex(),
		ClientID:     client.ID,
		ServiceID:    service.ID,
		Start:        start,
		End:          start.Add(time.Duration(service.DurationMin) * time.Minute),
		Status:       models.AppointmentStatusPending,
		Notes:        req.Notes,
		ReminderSent: false,
		CreatedAt:    time.Now().In(s.location),
	}

	// An unresolvable barber is skipped, not rejected; the appointment is
	// simply left unassigned.
	if req.BarberID != "" {
		if barber, err := s.dir.BarberByID(ctx, req.BarberID); err == nil {
			appt.BarberID = barber.ID
		}
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Appointment, error) {
	var window *schedule.Window
	if filter.Date != "" {
		w, err := schedule.DayBounds(filter.Date, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date", ErrValidation)
		}
		window = &w
	}
	return s.repo.List(ctx, window, filter.BarberID)
}

// Confirm, Cancel and Complete overwrite the status unconditionally. There is
// deliberately no guard against re-transitioning a cancelled or completed
// appointment; callers relying on terminal states should check first.
func (s *Service) Confirm(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.AppointmentStatusConfirmed)
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.AppointmentStatusCancelled)
}

func (s *Service) Complete(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.AppointmentStatusCompleted)
}

func (s *Service) setStatus(ctx context.Context, id, status string) error {
	matched, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Dashboard(ctx context.Context, now time.Time) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalClients, err = s.dir.CountClients(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalServices, err = s.dir.CountServices(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalAppointments, err = s.repo.Count(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.ConfirmedAppointments, err = s.repo.CountByStatus(ctx, models.AppointmentStatusConfirmed); err != nil {
		return DashboardStats{}, err
	}
	if stats.AppointmentsToday, err = s.repo.CountInWindow(ctx, schedule.TodayBounds(now, s.location)); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
