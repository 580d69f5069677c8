package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey(t *testing.T) {
	SetLocation(time.UTC)

	assert.Equal(t, "2026-03-02", DayKey(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-02", DayKey(time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)))
}

func TestDayKey_UsesConfiguredLocation(t *testing.T) {
	almaty := time.FixedZone("UTC+5", 5*60*60)
	SetLocation(almaty)
	defer SetLocation(time.UTC)

	// 22:00 UTC is already the next calendar day in UTC+5.
	assert.Equal(t, "2026-03-03", DayKey(time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)))
}

func TestParseDayKey_RoundTrip(t *testing.T) {
	SetLocation(time.UTC)

	day, err := ParseDayKey("2026-03-02")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-02", DayKey(day))

	_, err = ParseDayKey("03/02/2026")
	assert.Error(t, err)
}

func TestStartOfWeek_AnchorsAtSunday(t *testing.T) {
	SetLocation(time.UTC)
	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// 2026-03-01 is a Sunday.
	for i := 0; i < 7; i++ {
		day := sunday.AddDate(0, 0, i).Add(15 * time.Hour)
		assert.Equal(t, sunday, StartOfWeek(day), "day offset %d", i)
	}

	nextSunday := sunday.AddDate(0, 0, 7)
	assert.Equal(t, nextSunday, StartOfWeek(nextSunday))
}

func TestIsSameDayAndConsecutive(t *testing.T) {
	SetLocation(time.UTC)
	morning := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	tomorrow := morning.AddDate(0, 0, 1)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(morning, tomorrow))
	assert.True(t, IsConsecutiveDay(morning, tomorrow))
	assert.False(t, IsConsecutiveDay(tomorrow, morning))
}

func TestDaysBetween(t *testing.T) {
	SetLocation(time.UTC)
	a := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestWeekdayKeys(t *testing.T) {
	keys := WeekdayKeys()
	assert.Len(t, keys, 7)
	assert.Equal(t, "monday", keys[0])
	assert.Equal(t, "sunday", keys[6])
}

func TestWeekdayKey(t *testing.T) {
	SetLocation(time.UTC)
	// 2026-03-01 is a Sunday.
	assert.Equal(t, "sunday", WeekdayKey(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "wednesday", WeekdayKey(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)))
}

func TestNormalizeWeekday(t *testing.T) {
	key, ok := NormalizeWeekday("  Friday ")
	assert.True(t, ok)
	assert.Equal(t, "friday", key)

	_, ok = NormalizeWeekday("someday")
	assert.False(t, ok)

	_, ok = NormalizeWeekday("")
	assert.False(t, ok)
}
