package schedule

import (
	"errors"
	"time"
)

const (
	// ReminderLead is how far ahead of an appointment its reminder is due.
	ReminderLead = 24 * time.Hour
	// ReminderTolerance widens the selection band so appointments whose
	// 24h mark falls between two scheduler ticks are still caught.
	ReminderTolerance = 30 * time.Minute
)

var ErrInvalidDate = errors.New("invalid date format")

// Window is a time interval over appointment start times. From is always
// inclusive; whether To is inclusive depends on the query (day listings use
// an exclusive upper bound, the reminder band an inclusive one).
type Window struct {
	From time.Time
	To   time.Time
}

// DayBounds returns the window [midnight(D), midnight(D+1)) for a calendar
// day given as "2006-01-02" in loc.
func DayBounds(dateStr string, loc *time.Location) (Window, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return Window{}, ErrInvalidDate
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return Window{From: from, To: from.AddDate(0, 0, 1)}, nil
}

// TodayBounds is DayBounds anchored to now's calendar day.
func TodayBounds(now time.Time, loc *time.Location) Window {
	n := now.In(loc)
	from := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	return Window{From: from, To: from.AddDate(0, 0, 1)}
}

// ReminderWindow returns the band [now+24h-30m, now+24h+30m], both ends
// inclusive, used to select appointments due a reminder at this tick.
func ReminderWindow(now time.Time) Window {
	mark := now.Add(ReminderLead)
	return Window{
		From: mark.Add(-ReminderTolerance),
		To:   mark.Add(ReminderTolerance),
	}
}

// Contains reports whether t falls inside w with both bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}
