package query

import (
	"context"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TODAY OVERVIEW QUERY
// Всё про сегодняшний день одним запросом: цели, посещаемость, сессии,
// стресс с трендом за последнюю неделю.
// ══════════════════════════════════════════════════════════════════════════════

// GetTodayOverviewQuery has no parameters.
type GetTodayOverviewQuery struct{}

// StressTrendPointDTO - одна точка тренда стресса.
type StressTrendPointDTO struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// TodayOverviewDTO - сводка за сегодня.
type TodayOverviewDTO struct {
	// Date - сегодняшний день в формате YYYY-MM-DD.
	Date string `json:"date"`

	// Goals - цели, поставленные на сегодня.
	Goals []userdata.Goal `json:"goals"`

	// Attendance - отметки посещаемости за сегодня.
	Attendance []userdata.AttendanceRecord `json:"attendance"`

	// Sessions - учебные сессии за сегодня (включая незавершённые).
	Sessions []userdata.StudySession `json:"sessions"`

	// StudyMinutes - суммарные минуты по завершённым сессиям за сегодня.
	StudyMinutes int `json:"study_minutes"`

	// QualifyingDay - набраны ли минимальные 30 минут.
	QualifyingDay bool `json:"qualifying_day"`

	// StressLevel - сегодняшний уровень стресса (0 = не записан).
	StressLevel int `json:"stress_level"`

	// HighStress - уровень 7 и выше.
	HighStress bool `json:"high_stress"`

	// StressTrend - последние записи стресса (до 7 точек).
	StressTrend []StressTrendPointDTO `json:"stress_trend"`

	// AverageStressLevel - средний уровень по точкам тренда, 1 знак.
	AverageStressLevel float64 `json:"average_stress_level"`
}

// GetTodayOverviewHandler handles the GetTodayOverviewQuery.
type GetTodayOverviewHandler struct {
	store *state.Store
}

// NewGetTodayOverviewHandler creates a new GetTodayOverviewHandler.
func NewGetTodayOverviewHandler(store *state.Store) *GetTodayOverviewHandler {
	return &GetTodayOverviewHandler{store: store}
}

// Handle executes the query.
func (h *GetTodayOverviewHandler) Handle(_ context.Context, _ GetTodayOverviewQuery) (*TodayOverviewDTO, error) {
	data := h.store.UserData()
	today := timeutil.DayKey(h.store.Now())

	dto := &TodayOverviewDTO{
		Date:       today,
		Goals:      data.GoalsForDate(today),
		Attendance: data.AttendanceForDate(today),
		Sessions:   data.SessionsForDate(today),
	}

	if stat, ok := data.StatsForDate(today); ok {
		dto.StudyMinutes = stat.TotalMinutes
		dto.QualifyingDay = stat.Qualifies()
	}

	if record, ok := data.StressForDate(today); ok {
		dto.StressLevel = record.Level
		dto.HighStress = shared.StressLevel(record.Level).IsHigh()
	}

	// stressRecords хранится отсортированным по дате, берём хвост.
	records := data.StressRecords
	if len(records) > 7 {
		records = records[len(records)-7:]
	}

	dto.StressTrend = make([]StressTrendPointDTO, 0, len(records))
	var levelSum int
	for _, record := range records {
		dto.StressTrend = append(dto.StressTrend, StressTrendPointDTO{
			Date:  record.Date,
			Level: record.Level,
		})
		levelSum = levelSum + record.Level
	}
	if len(records) > 0 {
		dto.AverageStressLevel = round1(float64(levelSum) / float64(len(records)))
	}

	return dto, nil
}
