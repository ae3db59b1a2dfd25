package schedule

import (
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestDayBounds(t *testing.T) {
	loc := mustLoadLoc(t)
	w, err := DayBounds("2025-11-17", loc)
	if err != nil {
		t.Fatalf("DayBounds error: %v", err)
	}
	wantFrom := time.Date(2025, 11, 17, 0, 0, 0, 0, loc)
	wantTo := time.Date(2025, 11, 18, 0, 0, 0, 0, loc)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Fatalf("unexpected bounds: %v .. %v", w.From, w.To)
	}
}

func TestDayBoundsInvalid(t *testing.T) {
	loc := mustLoadLoc(t)
	if _, err := DayBounds("17/11/2025", loc); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDayBoundsUpperExclusiveSemantics(t *testing.T) {
	loc := mustLoadLoc(t)
	w, err := DayBounds("2025-11-17", loc)
	if err != nil {
		t.Fatalf("DayBounds error: %v", err)
	}
	// An appointment starting exactly at midnight of the next day belongs to
	// that next day, so the listing filter must use start < To.
	nextMidnight := time.Date(2025, 11, 18, 0, 0, 0, 0, loc)
	if !w.To.Equal(nextMidnight) {
		t.Fatalf("expected To at next midnight, got %v", w.To)
	}
}

func TestReminderWindowBand(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2025, 11, 16, 10, 15, 0, 0, loc)
	w := ReminderWindow(now)

	wantFrom := time.Date(2025, 11, 17, 9, 45, 0, 0, loc)
	wantTo := time.Date(2025, 11, 17, 10, 45, 0, 0, loc)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Fatalf("unexpected band: %v .. %v", w.From, w.To)
	}

	inside := time.Date(2025, 11, 17, 10, 40, 0, 0, loc) // 24h10m ahead
	outside := time.Date(2025, 11, 17, 11, 0, 0, 0, loc) // 24h45m ahead
	if !w.Contains(inside) {
		t.Fatalf("expected %v inside the band", inside)
	}
	if w.Contains(outside) {
		t.Fatalf("expected %v outside the band", outside)
	}
}

func TestReminderWindowBoundsInclusive(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	w := ReminderWindow(now)
	if !w.Contains(w.From) || !w.Contains(w.To) {
		t.Fatalf("expected both band edges to be selectable")
	}
}

func TestTodayBounds(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2025, 11, 16, 23, 59, 0, 0, loc)
	w := TodayBounds(now, loc)
	if w.From.Day() != 16 || w.To.Day() != 17 {
		t.Fatalf("unexpected bounds: %v .. %v", w.From, w.To)
	}
	if w.From.Hour() != 0 || w.To.Hour() != 0 {
		t.Fatalf("bounds not aligned to midnight: %v .. %v", w.From, w.To)
	}
}
