package userdata

import (
	"sort"

	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// Goal Analytics Recomputation
// ═══════════════════════════════════════════════════════════════════════════

// RebuildGoalAnalytics computes the day's goal analytics wholesale from the
// goal list: completion counts, integer-percent rate, and per-priority
// breakdowns for each of the three tiers.
func RebuildGoalAnalytics(goals []Goal, date string) GoalAnalytics {
	analytics := GoalAnalytics{
		Date:       date,
		ByPriority: make(map[string]PriorityCount, 3),
	}
	for _, priority := range shared.Priorities() {
		analytics.ByPriority[priority.String()] = PriorityCount{}
	}

	for _, goal := range goals {
		if goal.Date != date {
			continue
		}
		analytics.TotalGoals++
		count := analytics.ByPriority[goal.Priority.String()]
		count.Total++
		if goal.Completed {
			analytics.CompletedGoals++
			count.Completed++
		}
		analytics.ByPriority[goal.Priority.String()] = count
	}

	if analytics.TotalGoals > 0 {
		rate := float64(analytics.CompletedGoals) / float64(analytics.TotalGoals) * 100
		analytics.CompletionRate = int(rate + 0.5)
	}

	return analytics
}

// ApplyGoalAnalytics replaces the entry for the analytics' date, keeps the
// entries ordered by date, and truncates to the last MaxGoalAnalytics.
func (u *UserData) ApplyGoalAnalytics(analytics GoalAnalytics) {
	replaced := false
	for i := range u.GoalAnalytics {
		if u.GoalAnalytics[i].Date == analytics.Date {
			u.GoalAnalytics[i] = analytics
			replaced = true
			break
		}
	}
	if !replaced {
		u.GoalAnalytics = append(u.GoalAnalytics, analytics)
		sort.Slice(u.GoalAnalytics, func(i, j int) bool {
			return u.GoalAnalytics[i].Date < u.GoalAnalytics[j].Date
		})
	}
	if len(u.GoalAnalytics) > MaxGoalAnalytics {
		u.GoalAnalytics = u.GoalAnalytics[len(u.GoalAnalytics)-MaxGoalAnalytics:]
	}
}

// AnalyticsForDate returns the goal analytics entry for a date, if any.
func (u *UserData) AnalyticsForDate(date string) (GoalAnalytics, bool) {
	for _, analytics := range u.GoalAnalytics {
		if analytics.Date == date {
			return analytics, true
		}
	}
	return GoalAnalytics{}, false
}
