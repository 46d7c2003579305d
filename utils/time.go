package utils

import (
	"os"
	"time"
)

var loc = time.Local

var clock = func() time.Time { return time.Now() }

// InitLocation loads the reference timezone from TZ (falls back to server-local).
// Every day-boundary decision in the system goes through this location.
func InitLocation() error {
	tz := os.Getenv("TZ")
	if tz == "" {
		return nil
	}
	l, err := time.LoadLocation(tz)
	if err != nil {
		return err
	}
	loc = l
	return nil
}

func SetLocation(l *time.Location) {
	loc = l
}

// SetClock overrides the wall clock (tests only).
func SetClock(fn func() time.Time) {
	clock = fn
}

func ResetClock() {
	clock = func() time.Time { return time.Now() }
}

// Now returns the current instant in the reference location.
func Now() time.Time {
	return clock().In(loc)
}

// DayKey truncates an instant to its calendar day in the reference location,
// formatted YYYY-MM-DD. All "already done today" checks key on this value.
func DayKey(t time.Time) string {
	return t.In(loc).Format("2006-01-02")
}

// TodayKey is DayKey(Now()).
func TodayKey() string {
	return DayKey(Now())
}

// StartOfDay returns midnight of t's calendar day in the reference location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// TodayRange returns [today 00:00, tomorrow 00:00).
func TodayRange() (start, end time.Time) {
	start = StartOfDay(Now())
	end = start.Add(24 * time.Hour)
	return
}

// InFastingWindow reports whether t falls inside the nightly fasting-completion
// window: 18:00–23:59 or 00:00–04:59 local time.
func InFastingWindow(t time.Time) bool {
	h := t.In(loc).Hour()
	return h >= 18 || h < 5
}
