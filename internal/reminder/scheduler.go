// Package reminder runs the periodic job that finds appointments due a
// reminder and dispatches a notification exactly once per appointment.
package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sergio-tacza/api/internal/models"
	"github.com/sergio-tacza/api/internal/notifications"
	"github.com/sergio-tacza/api/internal/schedule"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the slice of the appointment repository the scheduler needs.
type Store interface {
	FindDueReminders(ctx context.Context, window schedule.Window) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
}

// Directory resolves the client and service snapshots sent with a reminder.
type Directory interface {
	ClientByID(ctx context.Context, id string) (models.Client, error)
	ServiceByID(ctx context.Context, id string) (models.Service, error)
}

// Dispatcher sends one reminder and reports the delivery outcome. Errors
// carry the failure reason; they never abort the batch.
type Dispatcher interface {
	SendReminder(ctx context.Context, appt models.Appointment, client models.Client, service models.Service) (notifications.Outcome, error)
}

// TickResult summarizes one scheduler pass.
type TickResult struct {
	Matched   int
	Delivered int
	Simulated int
	Failed    int
}

type Scheduler struct {
	store      Store
	dir        Directory
	dispatcher Dispatcher
	interval   time.Duration
	log        *slog.Logger

	cron *cron.Cron

	mu   sync.Mutex
	last TickResult
}

func NewScheduler(store Store, dir Directory, dispatcher Dispatcher, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:      store,
		dir:        dir,
		dispatcher: dispatcher,
		interval:   interval,
		log:        log,
	}
}

// Start schedules the periodic tick. SkipIfStillRunning guarantees ticks
// never overlap: a tick still working through its batch when the next trigger
// fires causes that trigger to be dropped, so the same window can never be
// processed twice concurrently.
func (s *Scheduler) Start() {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		s.Tick(ctx, time.Now())
	}))
	s.cron.Start()
	s.log.Info("reminder scheduler started", slog.Duration("interval", s.interval))
}

// Stop halts the trigger and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("reminder scheduler stopped")
}

// LastResult returns the counts of the most recent tick.
func (s *Scheduler) LastResult() TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Tick runs one scheduler pass anchored to now. A store failure aborts the
// whole tick; a failure on one appointment only skips that appointment.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) TickResult {
	window := schedule.ReminderWindow(now)

	appts, err := s.store.FindDueReminders(ctx, window)
	if err != nil {
		s.log.Error("reminder tick: store unavailable",
			slog.Time("window_from", window.From),
			slog.Time("window_to", window.To),
			slog.String("error", err.Error()),
		)
		return TickResult{}
	}

	var result TickResult
	result.Matched = len(appts)

	if len(appts) == 0 {
		s.log.Info("reminder tick: nothing due",
			slog.Time("window_from", window.From),
			slog.Time("window_to", window.To),
		)
		s.setLast(result)
		return result
	}

	for _, appt := range appts {
		if s.dispatchOne(ctx, appt, &result) {
			result.Delivered++
		}
	}

	s.log.Info("reminder tick: done",
		slog.Int("matched", result.Matched),
		slog.Int("delivered", result.Delivered),
		slog.Int("simulated", result.Simulated),
		slog.Int("failed", result.Failed),
	)
	s.setLast(result)
	return result
}

// dispatchOne resolves the snapshots, sends the reminder and commits the
// outcome. Only a Delivered outcome flips reminderSent; Simulated and Failed
// leave the appointment eligible for the next tick that still covers it.
func (s *Scheduler) dispatchOne(ctx context.Context, appt models.Appointment, result *TickResult) bool {
	client, err := s.dir.ClientByID(ctx, appt.ClientID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		s.log.Error("reminder dispatch: client lookup failed",
			slog.String("appointment_id", appt.ID),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return false
	}
	service, err := s.dir.ServiceByID(ctx, appt.ServiceID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		s.log.Error("reminder dispatch: service lookup failed",
			slog.String("appointment_id", appt.ID),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return false
	}

	outcome, err := s.dispatcher.SendReminder(ctx, appt, client, service)
	switch outcome {
	case notifications.OutcomeDelivered:
		marked, err := s.store.MarkReminderSent(ctx, appt.ID)
		if err != nil {
			s.log.Error("reminder dispatch: flag update failed",
				slog.String("appointment_id", appt.ID),
				slog.String("error", err.Error()),
			)
			result.Failed++
			return false
		}
		if !marked {
			// Someone else flipped the flag between our read and write; the
			// delivery stands but we do not count it twice.
			s.log.Warn("reminder dispatch: already marked",
				slog.String("appointment_id", appt.ID),
			)
		}
		s.log.Info("reminder dispatch: delivered",
			slog.String("appointment_id", appt.ID),
			slog.String("client_id", appt.ClientID),
		)
		return true
	case notifications.OutcomeSimulated:
		result.Simulated++
		return false
	default:
		result.Failed++
		if err != nil {
			s.log.Warn("reminder dispatch: failed",
				slog.String("appointment_id", appt.ID),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
}

func (s *Scheduler) setLast(result TickResult) {
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
}
