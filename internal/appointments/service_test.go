package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sergio-tacza/api/internal/models"
	"github.com/sergio-tacza/api/internal/schedule"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	inserted []models.Appointment
	byID     map[string]models.Appointment
	statuses map[string]string
	deleted  []string

	total       int64
	byStatus    map[string]int64
	inWindow    int64
	insertErr   error
	setStatusOK bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:        map[string]models.Appointment{},
		statuses:    map[string]string{},
		byStatus:    map[string]int64{},
		setStatusOK: true,
	}
}

func (r *fakeRepo) Insert(ctx context.Context, appt models.Appointment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, appt)
	r.byID[appt.ID] = appt
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (models.Appointment, error) {
	appt, ok := r.byID[id]
	if !ok {
		return models.Appointment{}, mongo.ErrNoDocuments
	}
	return appt, nil
}

func (r *fakeRepo) List(ctx context.Context, window *schedule.Window, barberID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appt := range r.byID {
		if window != nil && (appt.Start.Before(window.From) || !appt.Start.Before(window.To)) {
			continue
		}
		if barberID != "" && appt.BarberID != barberID {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (r *fakeRepo) FindDueReminders(ctx context.Context, window schedule.Window) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) SetStatus(ctx context.Context, id, status string) (bool, error) {
	if !r.setStatusOK {
		return false, nil
	}
	r.statuses[id] = status
	return true, nil
}

func (r *fakeRepo) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return true, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) { return r.total, nil }

func (r *fakeRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.byStatus[status], nil
}

func (r *fakeRepo) CountInWindow(ctx context.Context, window schedule.Window) (int64, error) {
	return r.inWindow, nil
}

type fakeDir struct {
	clients  map[string]models.Client
	services map[string]models.Service
	barbers  map[string]models.User

	clientCount  int64
	serviceCount int64
}

func (d *fakeDir) ClientByID(ctx context.Context, id string) (models.Client, error) {
	c, ok := d.clients[id]
	if !ok {
		return models.Client{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (d *fakeDir) ServiceByID(ctx context.Context, id string) (models.Service, error) {
	s, ok := d.services[id]
	if !ok {
		return models.Service{}, mongo.ErrNoDocuments
	}
	return s, nil
}

func (d *fakeDir) BarberByID(ctx context.Context, id string) (models.User, error) {
	b, ok := d.barbers[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return b, nil
}

func (d *fakeDir) CountClients(ctx context.Context) (int64, error)  { return d.clientCount, nil }
func (d *fakeDir) CountServices(ctx context.Context) (int64, error) { return d.serviceCount, nil }

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func TestCreateDerivesEndFromDuration(t *testing.T) {
	loc := madrid(t)
	repo := newFakeRepo()
	dir := &fakeDir{
		clients:  map[string]models.Client{"c1": {ID: "c1", Name: "Luis", Phone: "612345678"}},
		services: map[string]models.Service{"s1": {ID: "s1", Name: "Corte de pelo", DurationMin: 30}},
	}
	svc := NewService(repo, dir, loc)

	appt, err := svc.Create(context.Background(), CreateRequest{
		ClientID:  "c1",
		ServiceID: "s1",
		Start:     "2025-11-17T10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2025, 11, 17, 10, 0, 0, 0, loc)
	if !appt.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", appt.Start, wantStart)
	}
	if !appt.End.Equal(wantStart.Add(30 * time.Minute)) {
		t.Fatalf("end = %v, want %v", appt.End, wantStart.Add(30*time.Minute))
	}
	if appt.Status != models.AppointmentStatusPending {
		t.Fatalf("status = %q, want pending", appt.Status)
	}
	if appt.ReminderSent {
		t.Fatal("new appointment must not be marked reminded")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
}

func TestCreateRejectsZeroDuration(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDir{
		clients:  map[string]models.Client{"c1": {ID: "c1"}},
		services: map[string]models.Service{"s1": {ID: "s1", Name: "Sin duración"}},
	}
	svc := NewService(repo, dir, madrid(t))

	_, err := svc.Create(context.Background(), CreateRequest{
		ClientID:  "c1",
		ServiceID: "s1",
		Start:     "2025-11-17T10:00",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatal("nothing should be inserted")
	}
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDir{
		services: map[string]models.Service{"s1": {ID: "s1", DurationMin: 30}},
	}
	svc := NewService(repo, dir, madrid(t))

	_, err := svc.Create(context.Background(), CreateRequest{
		ClientID:  "missing",
		ServiceID: "s1",
		Start:     "2025-11-17T10:00",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsBadStart(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeDir{}, madrid(t))

	_, err := svc.Create(context.Background(), CreateRequest{
		ClientID:  "c1",
		ServiceID: "s1",
		Start:     "17/11/2025 10:00",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSkipsUnresolvableBarber(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDir{
		clients:  map[string]models.Client{"c1": {ID: "c1"}},
		services: map[string]models.Service{"s1": {ID: "s1", DurationMin: 45}},
	}
	svc := NewService(repo, dir, madrid(t))

	appt, err := svc.Create(context.Background(), CreateRequest{
		ClientID:  "c1",
		ServiceID: "s1",
		BarberID:  "nobody",
		Start:     "2025-11-17T10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.BarberID != "" {
		t.Fatalf("expected unassigned barber, got %q", appt.BarberID)
	}
}

func TestTransitionsOverwriteStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.byID["a1"] = models.Appointment{ID: "a1", Status: models.AppointmentStatusPending}
	svc := NewService(repo, &fakeDir{}, madrid(t))

	if err := svc.Confirm(context.Background(), "a1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if repo.statuses["a1"] != models.AppointmentStatusConfirmed {
		t.Fatalf("status = %q, want confirmed", repo.statuses["a1"])
	}

	// Transitions do not guard terminal states: cancelling after completing
	// is accepted and overwrites.
	if err := svc.Complete(context.Background(), "a1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Cancel(context.Background(), "a1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if repo.statuses["a1"] != models.AppointmentStatusCancelled {
		t.Fatalf("status = %q, want cancelled", repo.statuses["a1"])
	}
}

func TestTransitionUnknownIDNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.setStatusOK = false
	svc := NewService(repo, &fakeDir{}, madrid(t))

	if err := svc.Confirm(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeDir{}, madrid(t))

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRejectsBadDate(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeDir{}, madrid(t))

	if _, err := svc.List(context.Background(), ListFilter{Date: "17-11-2025"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeDir{}, madrid(t))

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDashboardAggregatesCounts(t *testing.T) {
	repo := newFakeRepo()
	repo.total = 12
	repo.byStatus[models.AppointmentStatusConfirmed] = 4
	repo.inWindow = 3
	dir := &fakeDir{clientCount: 20, serviceCount: 6}
	svc := NewService(repo, dir, madrid(t))

	stats, err := svc.Dashboard(context.Background(), time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DashboardStats{
		TotalClients:          20,
		TotalServices:         6,
		TotalAppointments:     12,
		ConfirmedAppointments: 4,
		AppointmentsToday:     3,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
