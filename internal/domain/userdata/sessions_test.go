package userdata

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func TestNewStudySession(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	startedAt := time.Date(2026, 3, 2, 19, 30, 0, 0, time.UTC)

	session := NewStudySession("s1", 45, "Math", startedAt)

	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "2026-03-02", session.Date)
	assert.Equal(t, 45, session.Duration)
	assert.Equal(t, "Math", session.Subject)
	assert.False(t, session.Completed)
	assert.Nil(t, session.EndTime)
}

func TestCompleteSession(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	startedAt := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	endedAt := startedAt.Add(45 * time.Minute)

	data := Default()
	data.AddSession(NewStudySession("s1", 45, "Math", startedAt))

	session, ok := data.CompleteSession("s1", endedAt)
	assert.True(t, ok)
	assert.True(t, session.Completed)
	assert.Equal(t, endedAt, *session.EndTime)

	// Completing twice is a silent no-op.
	_, ok = data.CompleteSession("s1", endedAt.Add(time.Hour))
	assert.False(t, ok)

	_, ok = data.CompleteSession("unknown", endedAt)
	assert.False(t, ok)
}

func TestFindSession(t *testing.T) {
	data := Default()
	data.AddSession(StudySession{ID: "s1", Date: "2026-03-02"})

	session, ok := data.FindSession("s1")
	assert.True(t, ok)
	assert.Equal(t, "s1", session.ID)

	_, ok = data.FindSession("s2")
	assert.False(t, ok)
}

func TestRebuildDailyStats(t *testing.T) {
	sessions := []StudySession{
		{ID: "s1", Date: "2026-03-02", Duration: 45, Completed: true, Subject: "Math"},
		{ID: "s2", Date: "2026-03-02", Duration: 30, Completed: true, Subject: "Math"},
		{ID: "s3", Date: "2026-03-02", Duration: 60, Completed: true, Subject: "Physics"},
		{ID: "s4", Date: "2026-03-02", Duration: 90, Completed: false, Subject: "History"},
		{ID: "s5", Date: "2026-03-03", Duration: 20, Completed: true},
	}

	stat := RebuildDailyStats(sessions, "2026-03-02")

	assert.Equal(t, "2026-03-02", stat.Date)
	assert.Equal(t, 135, stat.TotalMinutes)
	assert.Equal(t, 3, stat.CompletedSessions)
	// The pending session counts toward total only.
	assert.Equal(t, 4, stat.TotalSessions)
	assert.Equal(t, 75, stat.SubjectMinutes["Math"])
	assert.Equal(t, 60, stat.SubjectMinutes["Physics"])
	_, hasHistory := stat.SubjectMinutes["History"]
	assert.False(t, hasHistory)
	assert.True(t, stat.Qualifies())
}

func TestRebuildDailyStats_EmptyDay(t *testing.T) {
	stat := RebuildDailyStats(nil, "2026-03-02")

	assert.Zero(t, stat.TotalMinutes)
	assert.Zero(t, stat.TotalSessions)
	assert.False(t, stat.Qualifies())
}

func TestApplyDailyStats_ReplacesAndSorts(t *testing.T) {
	data := Default()
	data.ApplyDailyStats(DayStat{Date: "2026-03-03", TotalMinutes: 30})
	data.ApplyDailyStats(DayStat{Date: "2026-03-01", TotalMinutes: 60})
	data.ApplyDailyStats(DayStat{Date: "2026-03-03", TotalMinutes: 90})

	assert.Len(t, data.DailyStats, 2)
	assert.Equal(t, "2026-03-01", data.DailyStats[0].Date)
	assert.Equal(t, "2026-03-03", data.DailyStats[1].Date)
	assert.Equal(t, 90, data.DailyStats[1].TotalMinutes)
}

func TestApplyDailyStats_TruncatesToLimit(t *testing.T) {
	data := Default()
	for i := 0; i < MaxDailyStats+10; i++ {
		date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		data.ApplyDailyStats(DayStat{Date: date.Format("2006-01-02"), TotalMinutes: i})
	}

	assert.Len(t, data.DailyStats, MaxDailyStats)
	assert.Equal(t, "2026-01-11", data.DailyStats[0].Date)
}

func TestSessionsForDate(t *testing.T) {
	data := Default()
	for i := 0; i < 3; i++ {
		data.AddSession(StudySession{ID: fmt.Sprintf("s%d", i), Date: "2026-03-02"})
	}
	data.AddSession(StudySession{ID: "other", Date: "2026-03-03"})

	assert.Len(t, data.SessionsForDate("2026-03-02"), 3)
	assert.Empty(t, data.SessionsForDate("2026-03-04"))
}

func TestStatsForDate(t *testing.T) {
	data := Default()
	data.ApplyDailyStats(DayStat{Date: "2026-03-02", TotalMinutes: 45})

	stat, ok := data.StatsForDate("2026-03-02")
	assert.True(t, ok)
	assert.Equal(t, 45, stat.TotalMinutes)

	_, ok = data.StatsForDate("2026-03-03")
	assert.False(t, ok)
}
