// Package timeutil provides calendar-day utilities for TrackMyStudy Hub.
// All streak, schedule, and challenge logic is anchored to calendar days in a
// single configurable location, so every date computation goes through here.
// No external dependencies - uses only standard library.
package timeutil

import (
	"strings"
	"sync"
	"time"
)

var (
	locMu sync.RWMutex
	loc   = time.Local
)

// SetLocation sets the location used for all calendar-day computations.
// Call once at startup, before any domain logic runs.
func SetLocation(l *time.Location) {
	if l == nil {
		return
	}
	locMu.Lock()
	loc = l
	locMu.Unlock()
}

// Location returns the configured location.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return loc
}

// Now returns the current time in the configured location.
func Now() time.Time {
	return time.Now().In(Location())
}

// ToLocal converts a time to the configured location.
func ToLocal(t time.Time) time.Time {
	return t.In(Location())
}

// Date creates a time in the configured location with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, Location())
}

// StartOfDay returns the start of the day (00:00:00) in the configured location.
func StartOfDay(t time.Time) time.Time {
	local := ToLocal(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location())
}

// EndOfDay returns the end of the day (23:59:59.999999999).
func EndOfDay(t time.Time) time.Time {
	local := ToLocal(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Location())
}

// StartOfWeek returns the start of the calendar week containing t.
// Weeks start on Sunday: the weekly challenge window is anchored at the most
// recent Sunday, matching the rest of the weekly aggregations.
func StartOfWeek(t time.Time) time.Time {
	local := ToLocal(t)
	daysToSubtract := int(local.Weekday()) // Sunday = 0
	return StartOfDay(local.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Saturday 23:59:59).
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// IsToday checks if the given time is today in the configured location.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsYesterday checks if the given time is yesterday in the configured location.
func IsYesterday(t time.Time) bool {
	return IsSameDay(t, Now().AddDate(0, 0, -1))
}

// IsSameDay checks if two times are on the same calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	l1, l2 := ToLocal(t1), ToLocal(t2)
	return l1.Year() == l2.Year() && l1.YearDay() == l2.YearDay()
}

// IsConsecutiveDay checks if t2 is the day after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	nextDay := ToLocal(t1).AddDate(0, 0, 1)
	return IsSameDay(nextDay, t2)
}

// DaysSince calculates the number of whole days since the given time.
func DaysSince(t time.Time) int {
	return DaysBetween(t, Now())
}

// DaysBetween calculates the number of calendar days between two times.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD) used as the
	// canonical date key across all per-day collections.
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// DayKey formats a time as a YYYY-MM-DD date key in the configured location.
// Two times have equal DayKeys exactly when IsSameDay holds.
func DayKey(t time.Time) string {
	return ToLocal(t).Format(FormatDate)
}

// TodayKey returns today's date key.
func TodayKey() string {
	return DayKey(Now())
}

// ParseDayKey parses a YYYY-MM-DD date key in the configured location.
func ParseDayKey(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, Location())
}

// Weekday names in the lowercase form used as weeklySchedule keys.
var weekdayKeys = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayKeys returns the 7 lowercase weekday names, Monday first, matching
// the canonical key order of the weekly schedule.
func WeekdayKeys() []string {
	return []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}
}

// WeekdayKey returns the lowercase weekday name for a time.
func WeekdayKey(t time.Time) string {
	return weekdayKeys[int(ToLocal(t).Weekday())]
}

// NormalizeWeekday lowercases and trims a weekday name, returning ok=false
// for anything that is not one of the 7 canonical keys.
func NormalizeWeekday(day string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(day))
	for _, key := range weekdayKeys {
		if key == normalized {
			return normalized, true
		}
	}
	return "", false
}
