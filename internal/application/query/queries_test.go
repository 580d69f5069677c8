package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func newTestStore(t *testing.T, now time.Time) *state.Store {
	t.Helper()
	timeutil.SetLocation(time.UTC)

	kvStore := kv.NewMemoryStore()
	return state.New(state.Config{
		UserDataRepo:  kv.NewUserDataRepository(kvStore),
		ChallengeRepo: kv.NewChallengeRepository(kvStore),
		Now:           func() time.Time { return now },
	}).Load(context.Background())
}

func TestGetStudyMetrics_Empty(t *testing.T) {
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewGetStudyMetricsHandler(store)

	dto, err := handler.Handle(context.Background(), GetStudyMetricsQuery{})
	assert.NoError(t, err)
	assert.Zero(t, dto.TotalSubjects)
	assert.Zero(t, dto.AverageScore)
	assert.Zero(t, dto.AverageAttendance)
}

func TestGetStudyMetrics(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.Subjects = []userdata.Subject{
			{Name: "Math", Score: 92, Attendance: 80},
			{Name: "Physics", Score: 78, Attendance: 90},
			{Name: "History", Score: 85, Attendance: 100},
		}
	})

	dto, err := NewGetStudyMetricsHandler(store).Handle(ctx, GetStudyMetricsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 3, dto.TotalSubjects)
	assert.Equal(t, 85.0, dto.AverageScore)
	assert.Equal(t, 90.0, dto.AverageAttendance)
	assert.Zero(t, dto.BaselineGPA)
}

func TestGetStudyMetrics_BaselineDelta(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.Subjects = []userdata.Subject{{Name: "Math", Score: 70}}
		data.SetBaseline(data.Subjects, now)
		data.Subjects[0].Score = 82
	})

	dto, err := NewGetStudyMetricsHandler(store).Handle(ctx, GetStudyMetricsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 70.0, dto.BaselineGPA)
	assert.Equal(t, 12.0, dto.ScoreDelta)
}

func TestGetWeeklyStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		// 3 completed hours within the trailing week, one session outside.
		data.AddSession(userdata.StudySession{ID: "s1", Date: "2026-03-03", Duration: 90, Completed: true})
		data.AddSession(userdata.StudySession{ID: "s2", Date: "2026-03-04", Duration: 90, Completed: true})
		data.AddSession(userdata.StudySession{ID: "s3", Date: "2026-02-20", Duration: 60, Completed: true})
		data.AddSession(userdata.StudySession{ID: "s4", Date: "2026-03-04", Duration: 60})
		_ = data.SetSchedule("monday", 4, nil)
		_ = data.SetSchedule("tuesday", 2, nil)
		data.StudyData.SleepHours = 8
	})

	dto, err := NewGetWeeklyStatsHandler(store).Handle(ctx, GetWeeklyStatsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 3.0, dto.ActualHours)
	assert.Equal(t, 6.0, dto.PlannedHours)
	assert.Equal(t, 50.0, dto.CompletionRate)
	assert.Equal(t, 56.0, dto.SleepHours)
	assert.Equal(t, 2, dto.CompletedSessions)
	// Pending s4 counts towards the window total: 2 of 3 done.
	assert.Equal(t, 3, dto.TotalSessions)
	assert.Equal(t, 66.67, dto.SessionCompletionRate)
	assert.False(t, dto.BurnoutRisk)
}

func TestGetWeeklyStats_EmptyWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.AddSession(userdata.StudySession{ID: "old", Date: "2026-02-20", Duration: 60, Completed: true})
	})

	dto, err := NewGetWeeklyStatsHandler(store).Handle(ctx, GetWeeklyStatsQuery{})
	assert.NoError(t, err)
	assert.Zero(t, dto.TotalSessions)
	assert.Zero(t, dto.SessionCompletionRate)
	assert.Zero(t, dto.CompletionRate)
}

func TestGetWeeklyStats_WindowBoundary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		// Seven calendar days including today: 2026-02-26 is day one.
		data.AddSession(userdata.StudySession{ID: "in", Date: "2026-02-26", Duration: 60, Completed: true})
		data.AddSession(userdata.StudySession{ID: "out", Date: "2026-02-25", Duration: 60, Completed: true})
	})

	dto, err := NewGetWeeklyStatsHandler(store).Handle(ctx, GetWeeklyStatsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 1, dto.TotalSessions)
	assert.Equal(t, 1.0, dto.ActualHours)
	assert.Equal(t, 100.0, dto.SessionCompletionRate)
}

func TestGetWeeklyStats_BurnoutRisk(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		// 49 studied hours in the week with 5h sleep per night.
		for i := 0; i < 7; i++ {
			date := timeutil.DayKey(now.AddDate(0, 0, -i))
			data.AddSession(userdata.StudySession{ID: date, Date: date, Duration: 420, Completed: true})
		}
		data.StudyData.SleepHours = 5
	})

	dto, err := NewGetWeeklyStatsHandler(store).Handle(ctx, GetWeeklyStatsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 49.0, dto.ActualHours)
	assert.Equal(t, 35.0, dto.SleepHours)
	assert.True(t, dto.BurnoutRisk)
}

func TestGetTodayOverview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.AddGoal(userdata.Goal{ID: "g1", Text: "today", Date: "2026-03-04"})
		data.AddGoal(userdata.Goal{ID: "g2", Text: "yesterday", Date: "2026-03-03"})
		data.UpsertAttendance(userdata.AttendanceRecord{Date: "2026-03-04", Subject: "Math", Present: true})
		data.AddSession(userdata.StudySession{ID: "s1", Date: "2026-03-04", Duration: 45, Completed: true})
		data.ApplyDailyStats(userdata.DayStat{Date: "2026-03-04", TotalMinutes: 45, CompletedSessions: 1, TotalSessions: 1})
		data.UpsertStress(userdata.StressRecord{Date: "2026-03-03", Level: 4})
		data.UpsertStress(userdata.StressRecord{Date: "2026-03-04", Level: 7})
	})

	dto, err := NewGetTodayOverviewHandler(store).Handle(ctx, GetTodayOverviewQuery{})
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-04", dto.Date)
	assert.Len(t, dto.Goals, 1)
	assert.Len(t, dto.Attendance, 1)
	assert.Len(t, dto.Sessions, 1)
	assert.Equal(t, 45, dto.StudyMinutes)
	assert.True(t, dto.QualifyingDay)
	assert.Equal(t, 7, dto.StressLevel)
	assert.True(t, dto.HighStress)
	assert.Len(t, dto.StressTrend, 2)
	assert.Equal(t, 5.5, dto.AverageStressLevel)
}

func TestGetStreakStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	dto, err := NewGetStreakStatusHandler(store).Handle(ctx, GetStreakStatusQuery{})
	assert.NoError(t, err)
	assert.Zero(t, dto.CurrentStreak)
	assert.False(t, dto.AtRisk)
	assert.Contains(t, dto.Message, "start your streak")

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.StudyStreak = userdata.StudyStreak{
			CurrentStreak: 4,
			LongestStreak: 6,
			LastStudyDate: "2026-03-03",
			StreakHistory: []userdata.StreakEntry{{Date: "2026-03-03", Maintained: true}},
		}
	})

	dto, err = NewGetStreakStatusHandler(store).Handle(ctx, GetStreakStatusQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 4, dto.CurrentStreak)
	assert.Equal(t, 6, dto.LongestStreak)
	assert.False(t, dto.ActiveToday)
	// Alive but nothing counted today yet.
	assert.True(t, dto.AtRisk)
}

func TestGetChallengeStatus_EmptySlot(t *testing.T) {
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	dto, err := NewGetChallengeStatusHandler(store).Handle(context.Background(), GetChallengeStatusQuery{})
	assert.NoError(t, err)
	assert.False(t, dto.Exists)
	assert.False(t, dto.Active)
}

func TestGetChallengeStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	c, _ := challenge.New("c1", challenge.TypeDaily, now)
	c.ApplyProgress(2, now)
	store.SaveChallenge(ctx, c)

	dto, err := NewGetChallengeStatusHandler(store).Handle(ctx, GetChallengeStatusQuery{})
	assert.NoError(t, err)
	assert.True(t, dto.Exists)
	assert.Equal(t, "c1", dto.ID)
	assert.Equal(t, 2, dto.Progress)
	assert.Equal(t, challenge.DailyTarget, dto.Target)
	assert.Equal(t, 40, dto.PercentComplete)
	assert.True(t, dto.Active)
}

func TestGetGoalTrend(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		for i := 0; i < 10; i++ {
			date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
			data.ApplyGoalAnalytics(userdata.GoalAnalytics{
				Date:           date.Format("2006-01-02"),
				TotalGoals:     2,
				CompletionRate: i * 10,
			})
		}
	})

	// Default window is 7 days, tail of the series.
	result, err := NewGetGoalTrendHandler(store).Handle(ctx, GetGoalTrendQuery{})
	assert.NoError(t, err)
	assert.Len(t, result.Points, 7)
	assert.Equal(t, "2026-03-04", result.Points[0].Date)
	assert.Equal(t, "2026-03-10", result.Points[6].Date)
	assert.Equal(t, 90, result.Points[6].CompletionRate)

	_, err = NewGetGoalTrendHandler(store).Handle(ctx, GetGoalTrendQuery{Days: -1})
	assert.Error(t, err)
}

func TestGetAchievements(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.StudyStreak.LongestStreak = 7
		for _, id := range []string{"s1", "s2", "s3"} {
			data.AddSession(userdata.StudySession{ID: id, Date: "2026-03-04", Duration: 30, Completed: true})
		}
	})

	result, err := NewGetAchievementsHandler(store).Handle(ctx, GetAchievementsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 6, result.TotalCount)
	assert.Equal(t, 2, result.UnlockedCount)
	assert.Len(t, result.Achievements, 6)

	onlyUnlocked, err := NewGetAchievementsHandler(store).Handle(ctx, GetAchievementsQuery{OnlyUnlocked: true})
	assert.NoError(t, err)
	assert.Len(t, onlyUnlocked.Achievements, 2)
	assert.Equal(t, 2, onlyUnlocked.UnlockedCount)
}
