package challenge

import (
	"time"

	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Progress Evaluation
// ═══════════════════════════════════════════════════════════════════════════

// ComputeProgress derives the current progress of a challenge from the
// UserData snapshot. Pure: no side effects, deterministic given the inputs.
func ComputeProgress(c *Challenge, data *userdata.UserData, now time.Time) int {
	if c == nil {
		return 0
	}
	switch c.Type {
	case TypeDaily:
		return dailyProgress(c.Target, data, now)
	case TypeWeekly:
		return weeklyProgress(data, now)
	default:
		return 0
	}
}

// dailyProgress walks backward from today counting contiguous qualifying
// days (>= 30 minutes in dailyStats). The walk stops at the first day with
// no qualifying entry: the run must be unbroken and anchored at today.
func dailyProgress(target int, data *userdata.UserData, now time.Time) int {
	progress := 0
	for i := 0; i < target; i++ {
		date := timeutil.DayKey(now.AddDate(0, 0, -i))
		stat, ok := data.StatsForDate(date)
		if !ok || !stat.Qualifies() {
			break
		}
		progress++
	}
	return progress
}

// weeklyProgress counts completed sessions dated within the current calendar
// week, [weekStart, weekStart+7d). Weeks start on the most recent Sunday.
func weeklyProgress(data *userdata.UserData, now time.Time) int {
	weekStart := timeutil.StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	progress := 0
	for _, session := range data.StudySessions {
		if !session.Completed {
			continue
		}
		day, err := timeutil.ParseDayKey(session.Date)
		if err != nil {
			continue
		}
		if !day.Before(weekStart) && day.Before(weekEnd) {
			progress++
		}
	}
	return progress
}
