package userdata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func TestDefault_HasSevenScheduleDays(t *testing.T) {
	data := Default()

	assert.Len(t, data.WeeklySchedule, 7)
	for _, day := range timeutil.WeekdayKeys() {
		entry, ok := data.WeeklySchedule[day]
		assert.True(t, ok, "missing weekday %s", day)
		assert.NotNil(t, entry.Subjects)
		assert.Zero(t, entry.Planned)
	}

	assert.NotNil(t, data.Subjects)
	assert.NotNil(t, data.DailyGoals)
	assert.NotNil(t, data.StudySessions)
	assert.NotNil(t, data.StudyStreak.StreakHistory)
	assert.Nil(t, data.BaselineData)
}

func TestNormalize_RepairsScheduleAndSlices(t *testing.T) {
	data := &UserData{
		WeeklySchedule: WeeklySchedule{
			"monday":  {Planned: 4, Subjects: []string{"Math"}},
			"funday":  {Planned: 99}, // unknown key is dropped
			"tuesday": {Planned: 2, Subjects: nil},
		},
	}

	data.Normalize()

	assert.Len(t, data.WeeklySchedule, 7)
	assert.Equal(t, 4.0, data.WeeklySchedule["monday"].Planned)
	assert.Equal(t, 2.0, data.WeeklySchedule["tuesday"].Planned)
	assert.NotNil(t, data.WeeklySchedule["tuesday"].Subjects)
	_, hasFunday := data.WeeklySchedule["funday"]
	assert.False(t, hasFunday)

	assert.NotNil(t, data.Subjects)
	assert.NotNil(t, data.DailyGoals)
	assert.NotNil(t, data.StressRecords)
	assert.NotNil(t, data.StudyStreak.StreakHistory)
}

// An old blob without newer fields still gets defaults: the blob is
// unmarshaled over the Default() template.
func TestUnmarshalOverDefault_KeepsTemplateFields(t *testing.T) {
	blob := []byte(`{"name":"Aset","subjects":[{"name":"Math","score":88}]}`)

	data := Default()
	err := json.Unmarshal(blob, data)
	assert.NoError(t, err)
	data.Normalize()

	assert.Equal(t, "Aset", data.Name)
	assert.Len(t, data.Subjects, 1)
	assert.Len(t, data.WeeklySchedule, 7)
	assert.NotNil(t, data.StudySessions)
	assert.NotNil(t, data.GoalAnalytics)
}

func TestToggleGoal(t *testing.T) {
	data := Default()
	data.AddGoal(Goal{ID: "g1", Text: "Read chapter 4", Date: "2026-03-02", Priority: shared.PriorityHigh})

	goal, ok := data.ToggleGoal("g1")
	assert.True(t, ok)
	assert.True(t, goal.Completed)

	goal, ok = data.ToggleGoal("g1")
	assert.True(t, ok)
	assert.False(t, goal.Completed)

	_, ok = data.ToggleGoal("missing")
	assert.False(t, ok)
}

func TestGoalsForDate(t *testing.T) {
	data := Default()
	data.AddGoal(Goal{ID: "g1", Date: "2026-03-02"})
	data.AddGoal(Goal{ID: "g2", Date: "2026-03-03"})
	data.AddGoal(Goal{ID: "g3", Date: "2026-03-02"})

	goals := data.GoalsForDate("2026-03-02")
	assert.Len(t, goals, 2)
	assert.Equal(t, "g1", goals[0].ID)
	assert.Equal(t, "g3", goals[1].ID)
}

func TestSetSchedule(t *testing.T) {
	data := Default()

	err := data.SetSchedule("Monday", 3.5, []string{"Math", "Physics"})
	assert.NoError(t, err)
	assert.Equal(t, 3.5, data.WeeklySchedule["monday"].Planned)
	assert.Equal(t, []string{"Math", "Physics"}, data.WeeklySchedule["monday"].Subjects)

	// Completed hours survive a plan rewrite.
	err = data.SetDayProgress("monday", 2)
	assert.NoError(t, err)
	err = data.SetSchedule("monday", 5, []string{"Math"})
	assert.NoError(t, err)
	assert.Equal(t, 2.0, data.WeeklySchedule["monday"].Completed)

	err = data.SetSchedule("someday", 1, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidWeekday)
}

func TestUpsertAttendance_ReplacesSameDateSubject(t *testing.T) {
	data := Default()
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-02", Subject: "Math", Present: false})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-02", Subject: "Math", Present: true, Notes: "late"})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-02", Subject: "Physics", Present: true})

	assert.Len(t, data.AttendanceRecords, 2)
	records := data.AttendanceForDate("2026-03-02")
	assert.Len(t, records, 2)
	assert.True(t, records[0].Present)
	assert.Equal(t, "late", records[0].Notes)
}

func TestAttendancePercent(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	data := Default()
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-08", Subject: "Math", Present: true})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-09", Subject: "Math", Present: true})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-10", Subject: "Math", Present: false})
	// Outside the window and a different subject, both ignored.
	data.UpsertAttendance(AttendanceRecord{Date: "2025-01-01", Subject: "Math", Present: false})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-09", Subject: "Physics", Present: false})

	// 2 of 3 within the window, rounded to the nearest integer.
	assert.Equal(t, 67.0, data.AttendancePercent("Math", now, MaxAttendanceWindow))
	assert.Equal(t, 0.0, data.AttendancePercent("History", now, MaxAttendanceWindow))
}

func TestRefreshSubjectAttendance(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	data := Default()
	data.Subjects = append(data.Subjects, Subject{Name: "Math", Score: 90})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-09", Subject: "Math", Present: true})
	data.UpsertAttendance(AttendanceRecord{Date: "2026-03-10", Subject: "Math", Present: true})

	data.RefreshSubjectAttendance("Math", now)
	assert.Equal(t, 100.0, data.Subjects[0].Attendance)

	// Unknown subject is a no-op.
	data.RefreshSubjectAttendance("History", now)
}

func TestUpsertStress(t *testing.T) {
	data := Default()
	data.UpsertStress(StressRecord{Date: "2026-03-02", Level: 4})
	data.UpsertStress(StressRecord{Date: "2026-03-02", Level: 8, Factors: []string{"exams"}})

	assert.Len(t, data.StressRecords, 1)
	record, ok := data.StressForDate("2026-03-02")
	assert.True(t, ok)
	assert.Equal(t, 8, record.Level)
	assert.Equal(t, []string{"exams"}, record.Factors)

	_, ok = data.StressForDate("2026-03-03")
	assert.False(t, ok)
}

func TestUpsertStress_TruncatesToLimit(t *testing.T) {
	data := Default()
	for i := 0; i < MaxStressRecords+5; i++ {
		date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		data.UpsertStress(StressRecord{Date: date.Format("2006-01-02"), Level: 3})
	}

	assert.Len(t, data.StressRecords, MaxStressRecords)
	// The oldest entries were dropped.
	assert.Equal(t, "2026-01-06", data.StressRecords[0].Date)
}

func TestSetBaseline_WriteOnce(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	subjects := []Subject{{Name: "Math", Score: 80}, {Name: "Physics", Score: 90}}

	data := Default()
	assert.False(t, data.SetBaseline(nil, now))
	assert.Nil(t, data.BaselineData)

	assert.True(t, data.SetBaseline(subjects, now))
	assert.Equal(t, 85.0, data.BaselineData.OverallGPA)
	assert.Equal(t, now, data.BaselineData.DateRecorded)

	// Second write is refused.
	assert.False(t, data.SetBaseline([]Subject{{Name: "History", Score: 50}}, now))
	assert.Equal(t, 85.0, data.BaselineData.OverallGPA)
}

func TestAppendPerformance_TruncatesToLimit(t *testing.T) {
	data := Default()
	subjects := []Subject{{Name: "Math", Score: 75}}

	assert.False(t, data.AppendPerformance(nil, time.Now()))

	for i := 0; i < MaxPerformanceEntries+3; i++ {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		assert.True(t, data.AppendPerformance(subjects, now))
	}

	assert.Len(t, data.PerformanceHistory, MaxPerformanceEntries)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), data.PerformanceHistory[0].Date)
	assert.Equal(t, 75.0, data.PerformanceHistory[0].OverallGPA)
}

func TestMeanScore(t *testing.T) {
	assert.Equal(t, 0.0, MeanScore(nil))
	assert.Equal(t, 85.0, MeanScore([]Subject{{Score: 92}, {Score: 78}, {Score: 85}}))
}

func TestClone_IsDeep(t *testing.T) {
	data := Default()
	data.Subjects = append(data.Subjects, Subject{Name: "Math", Score: 90})
	data.AddGoal(Goal{ID: "g1", Text: "original"})
	data.ApplyDailyStats(DayStat{Date: "2026-03-02", TotalMinutes: 60, SubjectMinutes: map[string]int{"Math": 60}})
	data.SetBaseline([]Subject{{Name: "Math", Score: 90}}, time.Now())
	end := time.Now()
	data.AddSession(StudySession{ID: "s1", Date: "2026-03-02", Completed: true, EndTime: &end})

	clone := data.Clone()

	clone.Subjects[0].Score = 10
	clone.DailyGoals[0].Text = "mutated"
	clone.DailyStats[0].SubjectMinutes["Math"] = 999
	clone.BaselineData.OverallGPA = 0
	*clone.StudySessions[0].EndTime = time.Time{}
	entry := clone.WeeklySchedule["monday"]
	entry.Planned = 42
	clone.WeeklySchedule["monday"] = entry

	assert.Equal(t, 90.0, data.Subjects[0].Score)
	assert.Equal(t, "original", data.DailyGoals[0].Text)
	assert.Equal(t, 60, data.DailyStats[0].SubjectMinutes["Math"])
	assert.Equal(t, 90.0, data.BaselineData.OverallGPA)
	assert.Equal(t, end, *data.StudySessions[0].EndTime)
	assert.Zero(t, data.WeeklySchedule["monday"].Planned)
}

func TestNormalizeSubjectName(t *testing.T) {
	assert.Equal(t, "Math", NormalizeSubjectName("  Math "))
	assert.Equal(t, "", NormalizeSubjectName("   "))
}
