package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Minute), s.Next(now))
	assert.Equal(t, "@every 15m0s", s.String())
}

func TestDailySchedule_NextSameDay(t *testing.T) {
	s := NewDailyAt(23, 30)

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	next := s.Next(now)
	assert.Equal(t, time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC), next)
}

func TestDailySchedule_RollsToNextDay(t *testing.T) {
	s := NewDailyAt(0, 5)

	// Time of day already past: next occurrence is tomorrow.
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 5, 0, 0, time.UTC), s.Next(now))

	// Exactly at the boundary: Next is strictly after t.
	at := time.Date(2026, 3, 4, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 5, 0, 0, time.UTC), s.Next(at))
}

func TestDailySchedule_ClampsOutOfRange(t *testing.T) {
	s := NewDailyAt(25, 70)
	assert.Equal(t, 0, s.Hour)
	assert.Equal(t, 0, s.Minute)
	assert.Equal(t, "@daily 00:00", s.String())

	assert.Equal(t, "@daily 06:30", NewDailyAt(6, 30).String())
}

func TestDailySchedule_KeepsLocation(t *testing.T) {
	s := NewDailyAt(8, 0)
	zone := time.FixedZone("UTC+5", 5*3600)

	now := time.Date(2026, 3, 4, 7, 0, 0, 0, zone)
	next := s.Next(now)
	assert.Equal(t, zone, next.Location())
	assert.Equal(t, 8, next.Hour())
}
