package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sergio-tacza/api/internal/models"
	"github.com/sergio-tacza/api/internal/notifications"
	"github.com/sergio-tacza/api/internal/schedule"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeStore struct {
	appts   []models.Appointment
	findErr error
	markErr error

	findCalls int
	marked    []string
	markedOK  bool
}

func (s *fakeStore) FindDueReminders(ctx context.Context, window schedule.Window) ([]models.Appointment, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	var due []models.Appointment
	for _, a := range s.appts {
		if !a.ReminderSent && window.Contains(a.Start) {
			due = append(due, a)
		}
	}
	return due, nil
}

func (s *fakeStore) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	if s.markErr != nil {
		return false, s.markErr
	}
	s.marked = append(s.marked, id)
	for i := range s.appts {
		if s.appts[i].ID == id && !s.appts[i].ReminderSent {
			s.appts[i].ReminderSent = true
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectory struct {
	clients  map[string]models.Client
	services map[string]models.Service
}

func (d *fakeDirectory) ClientByID(ctx context.Context, id string) (models.Client, error) {
	c, ok := d.clients[id]
	if !ok {
		return models.Client{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (d *fakeDirectory) ServiceByID(ctx context.Context, id string) (models.Service, error) {
	s, ok := d.services[id]
	if !ok {
		return models.Service{}, mongo.ErrNoDocuments
	}
	return s, nil
}

type fakeDispatcher struct {
	outcome notifications.Outcome
	err     error
	sent    []string

	perAppt map[string]notifications.Outcome
}

func (d *fakeDispatcher) SendReminder(ctx context.Context, appt models.Appointment, client models.Client, service models.Service) (notifications.Outcome, error) {
	d.sent = append(d.sent, appt.ID)
	if d.perAppt != nil {
		if o, ok := d.perAppt[appt.ID]; ok {
			return o, nil
		}
	}
	return d.outcome, d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testScheduler(store *fakeStore, dir *fakeDirectory, dispatcher *fakeDispatcher) *Scheduler {
	return NewScheduler(store, dir, dispatcher, time.Minute, testLogger())
}

func apptAt(id, clientID, serviceID string, start time.Time) models.Appointment {
	return models.Appointment{
		ID:        id,
		ClientID:  clientID,
		ServiceID: serviceID,
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Status:    models.AppointmentStatusConfirmed,
	}
}

func TestTickMarksOnlyDelivered(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	inWindow := now.Add(24 * time.Hour)

	store := &fakeStore{appts: []models.Appointment{
		apptAt("a1", "c1", "s1", inWindow),
	}}
	dir := &fakeDirectory{
		clients:  map[string]models.Client{"c1": {ID: "c1", Name: "Luis", Phone: "612345678"}},
		services: map[string]models.Service{"s1": {ID: "s1", Name: "Corte de pelo", DurationMin: 30}},
	}
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeDelivered}

	result := testScheduler(store, dir, dispatcher).Tick(context.Background(), now)

	if result.Matched != 1 || result.Delivered != 1 {
		t.Fatalf("expected 1 matched / 1 delivered, got %+v", result)
	}
	if len(store.marked) != 1 || store.marked[0] != "a1" {
		t.Fatalf("expected a1 marked, got %v", store.marked)
	}
	if !store.appts[0].ReminderSent {
		t.Fatal("expected reminderSent to be set")
	}
}

func TestTickSimulatedLeavesFlagUntouched(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	inWindow := now.Add(24 * time.Hour)

	store := &fakeStore{appts: []models.Appointment{
		apptAt("a1", "c1", "s1", inWindow),
	}}
	dir := &fakeDirectory{
		clients:  map[string]models.Client{"c1": {ID: "c1", Name: "Luis", Phone: "612345678"}},
		services: map[string]models.Service{"s1": {ID: "s1", Name: "Corte de pelo"}},
	}
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeSimulated}

	sched := testScheduler(store, dir, dispatcher)
	result := sched.Tick(context.Background(), now)

	if result.Simulated != 1 || result.Delivered != 0 {
		t.Fatalf("expected 1 simulated / 0 delivered, got %+v", result)
	}
	if len(store.marked) != 0 {
		t.Fatalf("expected no mark, got %v", store.marked)
	}

	// A later tick that still covers the appointment picks it up again.
	result = sched.Tick(context.Background(), now.Add(time.Minute))
	if result.Matched != 1 {
		t.Fatalf("expected appointment matched again, got %+v", result)
	}
}

func TestTickAlreadySentNotMatched(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	appt := apptAt("a1", "c1", "s1", now.Add(24*time.Hour))
	appt.ReminderSent = true

	store := &fakeStore{appts: []models.Appointment{appt}}
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeDelivered}

	result := testScheduler(store, &fakeDirectory{}, dispatcher).Tick(context.Background(), now)

	if result.Matched != 0 {
		t.Fatalf("expected nothing matched, got %+v", result)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("expected no dispatch, got %v", dispatcher.sent)
	}
}

func TestTickStoreErrorAborts(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection reset")}
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeDelivered}

	result := testScheduler(store, &fakeDirectory{}, dispatcher).Tick(context.Background(), time.Now())

	if result != (TickResult{}) {
		t.Fatalf("expected zero result on store error, got %+v", result)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("expected no dispatch, got %v", dispatcher.sent)
	}
}

func TestTickFailureDoesNotStopBatch(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	inWindow := now.Add(24 * time.Hour)

	store := &fakeStore{appts: []models.Appointment{
		apptAt("a1", "c1", "s1", inWindow),
		apptAt("a2", "c2", "s1", inWindow.Add(5*time.Minute)),
	}}
	dir := &fakeDirectory{
		clients: map[string]models.Client{
			"c1": {ID: "c1", Name: "Luis", Phone: "612345678"},
			"c2": {ID: "c2", Name: "Marta", Phone: "698765432"},
		},
		services: map[string]models.Service{"s1": {ID: "s1", Name: "Corte de pelo"}},
	}
	dispatcher := &fakeDispatcher{
		outcome: notifications.OutcomeDelivered,
		perAppt: map[string]notifications.Outcome{"a1": notifications.OutcomeFailed},
	}

	result := testScheduler(store, dir, dispatcher).Tick(context.Background(), now)

	if result.Matched != 2 || result.Failed != 1 || result.Delivered != 1 {
		t.Fatalf("expected 2 matched / 1 failed / 1 delivered, got %+v", result)
	}
	if len(store.marked) != 1 || store.marked[0] != "a2" {
		t.Fatalf("expected only a2 marked, got %v", store.marked)
	}
}

func TestTickMissingSnapshotsStillDispatched(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)

	store := &fakeStore{appts: []models.Appointment{
		apptAt("a1", "gone", "gone", now.Add(24*time.Hour)),
	}}
	// Empty directory: lookups return ErrNoDocuments and the dispatcher
	// decides what to do with zero-value snapshots.
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeFailed, err: errors.New("no phone")}

	result := testScheduler(store, &fakeDirectory{}, dispatcher).Tick(context.Background(), now)

	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected dispatch attempted, got %v", dispatcher.sent)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failed, got %+v", result)
	}
}

func TestTickMarkErrorCountsFailed(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)

	store := &fakeStore{
		appts:   []models.Appointment{apptAt("a1", "c1", "s1", now.Add(24*time.Hour))},
		markErr: errors.New("write timeout"),
	}
	dir := &fakeDirectory{
		clients:  map[string]models.Client{"c1": {ID: "c1", Phone: "612345678"}},
		services: map[string]models.Service{"s1": {ID: "s1"}},
	}
	dispatcher := &fakeDispatcher{outcome: notifications.OutcomeDelivered}

	result := testScheduler(store, dir, dispatcher).Tick(context.Background(), now)

	if result.Delivered != 0 || result.Failed != 1 {
		t.Fatalf("expected 0 delivered / 1 failed, got %+v", result)
	}
}
