package userdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func qualifyingStat(date string) DayStat {
	return DayStat{Date: date, TotalMinutes: 45, CompletedSessions: 1, TotalSessions: 1}
}

func TestRecordStudyDay_StartsAtOne(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	var streak StudyStreak
	changed := streak.RecordStudyDay(qualifyingStat("2026-03-02"), now)

	assert.True(t, changed)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.Equal(t, "2026-03-02", streak.LastStudyDate)
	assert.Len(t, streak.StreakHistory, 1)
	assert.True(t, streak.IsActiveOn("2026-03-02"))
}

func TestRecordStudyDay_ContinuesFromYesterday(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	streak := StudyStreak{CurrentStreak: 4, LongestStreak: 4, LastStudyDate: "2026-03-02"}
	changed := streak.RecordStudyDay(qualifyingStat("2026-03-03"), now)

	assert.True(t, changed)
	assert.Equal(t, 5, streak.CurrentStreak)
	assert.Equal(t, 5, streak.LongestStreak)
	assert.Equal(t, "2026-03-03", streak.LastStudyDate)
}

func TestRecordStudyDay_SameDayIsNoOp(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 3, 22, 0, 0, 0, time.UTC)

	streak := StudyStreak{CurrentStreak: 5, LongestStreak: 9, LastStudyDate: "2026-03-03"}
	changed := streak.RecordStudyDay(qualifyingStat("2026-03-03"), now)

	assert.False(t, changed)
	assert.Equal(t, 5, streak.CurrentStreak)
	assert.Equal(t, 9, streak.LongestStreak)
}

func TestRecordStudyDay_GapResetsToOne(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	streak := StudyStreak{CurrentStreak: 6, LongestStreak: 6, LastStudyDate: "2026-03-02"}
	changed := streak.RecordStudyDay(qualifyingStat("2026-03-10"), now)

	assert.True(t, changed)
	assert.Equal(t, 1, streak.CurrentStreak)
	// LongestStreak never shrinks.
	assert.Equal(t, 6, streak.LongestStreak)
}

func TestRecordStudyDay_BelowThresholdIgnored(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	streak := StudyStreak{CurrentStreak: 2, LongestStreak: 2, LastStudyDate: "2026-03-02"}
	stat := DayStat{Date: "2026-03-03", TotalMinutes: 29}

	assert.False(t, streak.RecordStudyDay(stat, now))
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, "2026-03-02", streak.LastStudyDate)
}

func TestRecordStudyDay_HistoryDedupesSameDay(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	var streak StudyStreak
	streak.RecordStudyDay(qualifyingStat("2026-03-03"), now)
	streak.RecordStudyDay(qualifyingStat("2026-03-03"), now)

	assert.Len(t, streak.StreakHistory, 1)
}

func TestCheckBroken(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	// Last study yesterday and no qualifying minutes today: streak drops to 0.
	streak := StudyStreak{CurrentStreak: 5, LongestStreak: 7, LastStudyDate: "2026-03-03"}
	broken := streak.CheckBroken(DayStat{Date: "2026-03-04", TotalMinutes: 10}, now)
	assert.True(t, broken)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 7, streak.LongestStreak)

	// Already zero: nothing to break.
	assert.False(t, streak.CheckBroken(DayStat{}, now))

	// Qualifying minutes today keep the streak alive.
	streak = StudyStreak{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: "2026-03-03"}
	assert.False(t, streak.CheckBroken(qualifyingStat("2026-03-04"), now))
	assert.Equal(t, 3, streak.CurrentStreak)

	// Last study today: not a missed day.
	streak = StudyStreak{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: "2026-03-04"}
	assert.False(t, streak.CheckBroken(DayStat{}, now))
	assert.Equal(t, 3, streak.CurrentStreak)
}

func TestIsActiveOn(t *testing.T) {
	streak := StudyStreak{StreakHistory: []StreakEntry{
		{Date: "2026-03-02", Maintained: true},
		{Date: "2026-03-03", Maintained: false},
	}}

	assert.True(t, streak.IsActiveOn("2026-03-02"))
	assert.False(t, streak.IsActiveOn("2026-03-03"))
	assert.False(t, streak.IsActiveOn("2026-03-04"))
}
