package userdata

import (
	"sort"
	"time"

	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Study Sessions
// ═══════════════════════════════════════════════════════════════════════════

// NewStudySession creates a pending session stamped with the start time's
// calendar day.
func NewStudySession(id string, durationMinutes int, subject string, startedAt time.Time) StudySession {
	return StudySession{
		ID:        id,
		Date:      timeutil.DayKey(startedAt),
		Duration:  durationMinutes,
		Subject:   subject,
		StartTime: startedAt,
	}
}

// AddSession appends a session to the aggregate.
func (u *UserData) AddSession(session StudySession) {
	u.StudySessions = append(u.StudySessions, session)
}

// CompleteSession transitions the session with the given ID to completed and
// stamps its end time. Returns the updated session and false when the ID is
// unknown or the session is already completed (silent no-op either way).
func (u *UserData) CompleteSession(id string, endedAt time.Time) (StudySession, bool) {
	for i := range u.StudySessions {
		if u.StudySessions[i].ID != id {
			continue
		}
		if u.StudySessions[i].Completed {
			return StudySession{}, false
		}
		end := endedAt
		u.StudySessions[i].Completed = true
		u.StudySessions[i].EndTime = &end
		return u.StudySessions[i], true
	}
	return StudySession{}, false
}

// FindSession returns the session with the given ID, if any.
func (u *UserData) FindSession(id string) (StudySession, bool) {
	for _, session := range u.StudySessions {
		if session.ID == id {
			return session, true
		}
	}
	return StudySession{}, false
}

// SessionsForDate returns all sessions stamped with the given date key.
func (u *UserData) SessionsForDate(date string) []StudySession {
	sessions := make([]StudySession, 0)
	for _, session := range u.StudySessions {
		if session.Date == date {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// ═══════════════════════════════════════════════════════════════════════════
// Daily Stats Recomputation
// ═══════════════════════════════════════════════════════════════════════════

// RebuildDailyStats computes the day's stats wholesale from the session list:
// completed minutes, session counts, and per-subject completed minutes.
// Pending sessions count toward TotalSessions only.
func RebuildDailyStats(sessions []StudySession, date string) DayStat {
	stat := DayStat{
		Date:           date,
		SubjectMinutes: make(map[string]int),
	}

	for _, session := range sessions {
		if session.Date != date {
			continue
		}
		stat.TotalSessions++
		if !session.Completed {
			continue
		}
		stat.CompletedSessions++
		stat.TotalMinutes += session.Duration
		if session.Subject != "" {
			stat.SubjectMinutes[session.Subject] += session.Duration
		}
	}

	return stat
}

// ApplyDailyStats replaces the entry for the stat's date (never merges),
// keeps entries ordered by date, and truncates to the last MaxDailyStats.
func (u *UserData) ApplyDailyStats(stat DayStat) {
	replaced := false
	for i := range u.DailyStats {
		if u.DailyStats[i].Date == stat.Date {
			u.DailyStats[i] = stat
			replaced = true
			break
		}
	}
	if !replaced {
		u.DailyStats = append(u.DailyStats, stat)
		sort.Slice(u.DailyStats, func(i, j int) bool {
			return u.DailyStats[i].Date < u.DailyStats[j].Date
		})
	}
	if len(u.DailyStats) > MaxDailyStats {
		u.DailyStats = u.DailyStats[len(u.DailyStats)-MaxDailyStats:]
	}
}

// StatsForDate returns the daily stats entry for a date, if any.
func (u *UserData) StatsForDate(date string) (DayStat, bool) {
	for _, stat := range u.DailyStats {
		if stat.Date == date {
			return stat, true
		}
	}
	return DayStat{}, false
}
