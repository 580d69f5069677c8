package challenge

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func TestComputeProgress_DailyContiguousRun(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 6, 22, 0, 0, 0, time.UTC)

	data := userdata.Default()
	// Three qualifying days ending today.
	for i := 0; i < 3; i++ {
		date := timeutil.DayKey(now.AddDate(0, 0, -i))
		data.ApplyDailyStats(userdata.DayStat{Date: date, TotalMinutes: 45})
	}

	c, _ := New("c1", TypeDaily, now.AddDate(0, 0, -3))
	assert.Equal(t, 3, ComputeProgress(c, data, now))
}

func TestComputeProgress_DailyStopsAtGap(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 6, 22, 0, 0, 0, time.UTC)

	data := userdata.Default()
	data.ApplyDailyStats(userdata.DayStat{Date: "2026-03-06", TotalMinutes: 60})
	data.ApplyDailyStats(userdata.DayStat{Date: "2026-03-05", TotalMinutes: 15}) // below threshold
	data.ApplyDailyStats(userdata.DayStat{Date: "2026-03-04", TotalMinutes: 60})

	c, _ := New("c1", TypeDaily, now)
	// The run must be unbroken and anchored at today.
	assert.Equal(t, 1, ComputeProgress(c, data, now))
}

func TestComputeProgress_DailyNothingToday(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC)

	data := userdata.Default()
	data.ApplyDailyStats(userdata.DayStat{Date: "2026-03-05", TotalMinutes: 60})

	c, _ := New("c1", TypeDaily, now)
	assert.Equal(t, 0, ComputeProgress(c, data, now))
}

func TestComputeProgress_DailyCapsAtTarget(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	data := userdata.Default()
	for i := 0; i < 9; i++ {
		date := timeutil.DayKey(now.AddDate(0, 0, -i))
		data.ApplyDailyStats(userdata.DayStat{Date: date, TotalMinutes: 40})
	}

	c, _ := New("c1", TypeDaily, now)
	assert.Equal(t, DailyTarget, ComputeProgress(c, data, now))
}

func TestComputeProgress_WeeklyCountsCurrentWeek(t *testing.T) {
	timeutil.SetLocation(time.UTC)
	// 2026-03-01 is a Sunday, so the current week is Mar 1 through Mar 7.
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	data := userdata.Default()
	for i := 0; i < 4; i++ {
		data.AddSession(userdata.StudySession{
			ID: fmt.Sprintf("s%d", i), Date: "2026-03-02", Duration: 30, Completed: true,
		})
	}
	// Pending session and last week's session are both ignored.
	data.AddSession(userdata.StudySession{ID: "pending", Date: "2026-03-03", Duration: 30})
	data.AddSession(userdata.StudySession{ID: "old", Date: "2026-02-28", Duration: 30, Completed: true})

	c, _ := New("c1", TypeWeekly, now)
	assert.Equal(t, 4, ComputeProgress(c, data, now))
}

func TestComputeProgress_NilChallenge(t *testing.T) {
	assert.Equal(t, 0, ComputeProgress(nil, userdata.Default(), time.Now()))
}
