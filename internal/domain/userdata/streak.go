package userdata

import (
	"time"

	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Study Streak
// ═══════════════════════════════════════════════════════════════════════════

// RecordStudyDay updates the streak after a session completion. The update
// only proceeds when the day's rebuilt stats meet the qualifying threshold.
// Returns true when the streak counters changed.
//
// Правила:
//   - lastStudyDate == вчера: серия продолжается, currentStreak++
//   - lastStudyDate == сегодня: счётчики уже обновлены, без изменений
//   - иначе: серия прервана или не начата, currentStreak = 1
//
// longestStreak только растёт, никогда не уменьшается.
func (s *StudyStreak) RecordStudyDay(stat DayStat, now time.Time) bool {
	if !stat.Qualifies() {
		return false
	}

	today := timeutil.DayKey(now)
	yesterday := timeutil.DayKey(now.AddDate(0, 0, -1))

	changed := false
	switch s.LastStudyDate {
	case yesterday:
		s.CurrentStreak++
		s.LastStudyDate = today
		changed = true
	case today:
		// Already counted today.
	default:
		s.CurrentStreak = 1
		s.LastStudyDate = today
		changed = true
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	s.markMaintained(today)
	return changed
}

// markMaintained appends today's history entry unless it is already the
// latest one, then truncates to the last MaxStreakHistory entries.
func (s *StudyStreak) markMaintained(today string) {
	if n := len(s.StreakHistory); n > 0 && s.StreakHistory[n-1].Date == today {
		s.StreakHistory[n-1].Maintained = true
		return
	}
	s.StreakHistory = append(s.StreakHistory, StreakEntry{Date: today, Maintained: true})
	if len(s.StreakHistory) > MaxStreakHistory {
		s.StreakHistory = s.StreakHistory[len(s.StreakHistory)-MaxStreakHistory:]
	}
}

// CheckBroken is the maintenance check for a missed day: when the last study
// day was yesterday and today's minutes are still below the threshold, the
// current streak resets to zero. longestStreak is untouched. Returns true
// when the streak was broken.
//
// The check runs on the first load of the day and from the daily maintenance
// job, never inside mutation handlers: completing a session later today
// would legitimately restart the streak at 1.
func (s *StudyStreak) CheckBroken(todayStat DayStat, now time.Time) bool {
	if s.CurrentStreak == 0 {
		return false
	}
	yesterday := timeutil.DayKey(now.AddDate(0, 0, -1))
	if s.LastStudyDate != yesterday {
		return false
	}
	if todayStat.Qualifies() {
		return false
	}
	s.CurrentStreak = 0
	return true
}

// IsActiveOn reports whether the streak counts the given day as studied.
func (s *StudyStreak) IsActiveOn(date string) bool {
	for _, entry := range s.StreakHistory {
		if entry.Date == date {
			return entry.Maintained
		}
	}
	return false
}
