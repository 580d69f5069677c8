package query

import (
	"context"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WEEKLY STATS QUERY
// Фактические часы учёбы за последние 7 календарных дней против плана из
// недельного расписания, плюс недельный сон и флаг выгорания.
// ══════════════════════════════════════════════════════════════════════════════

// Пороги выгорания: учёба от 42 часов в неделю при сне меньше 40 часов.
const (
	burnoutStudyHours = 42.0
	burnoutSleepHours = 40.0
)

// GetWeeklyStatsQuery has no parameters.
type GetWeeklyStatsQuery struct{}

// WeeklyStatsDTO - недельная сводка.
type WeeklyStatsDTO struct {
	// ActualHours - часы по завершённым сессиям за последние 7 дней.
	ActualHours float64 `json:"actual_hours"`

	// PlannedHours - сумма плановых часов недельного расписания.
	PlannedHours float64 `json:"planned_hours"`

	// CompletionRate - процент выполнения плана (0 при пустом плане).
	CompletionRate float64 `json:"completion_rate"`

	// SessionCompletionRate - процент завершённых сессий среди всех сессий
	// окна, включая незавершённые (0 при пустом окне).
	SessionCompletionRate float64 `json:"session_completion_rate"`

	// SleepHours - недельный сон: дневной показатель из профиля, умноженный
	// на 7.
	SleepHours float64 `json:"sleep_hours"`

	// BurnoutRisk - учёба на пределе при недосыпе.
	BurnoutRisk bool `json:"burnout_risk"`

	// CompletedSessions - количество завершённых сессий за 7 дней.
	CompletedSessions int `json:"completed_sessions"`

	// TotalSessions - количество всех сессий за 7 дней.
	TotalSessions int `json:"total_sessions"`
}

// GetWeeklyStatsHandler handles the GetWeeklyStatsQuery.
type GetWeeklyStatsHandler struct {
	store *state.Store
}

// NewGetWeeklyStatsHandler creates a new GetWeeklyStatsHandler.
func NewGetWeeklyStatsHandler(store *state.Store) *GetWeeklyStatsHandler {
	return &GetWeeklyStatsHandler{store: store}
}

// Handle executes the query.
func (h *GetWeeklyStatsHandler) Handle(_ context.Context, _ GetWeeklyStatsQuery) (*WeeklyStatsDTO, error) {
	data := h.store.UserData()
	now := h.store.Now()

	// Ключи дат YYYY-MM-DD сравниваются лексикографически. Окно - 7
	// календарных дней включая сегодня (cutoff = today-6): дневные ключи не
	// несут времени суток, поэтому отсечка today-7 захватила бы восьмой день.
	cutoff := timeutil.DayKey(now.AddDate(0, 0, -6))

	var (
		totalMinutes int
		completed    int
		total        int
	)
	for _, session := range data.StudySessions {
		if session.Date < cutoff {
			continue
		}
		total = total + 1
		if !session.Completed {
			continue
		}
		totalMinutes = totalMinutes + session.Duration
		completed = completed + 1
	}

	dto := &WeeklyStatsDTO{
		ActualHours:       round2(float64(totalMinutes) / 60.0),
		SleepHours:        round2(data.StudyData.SleepHours * 7),
		CompletedSessions: completed,
		TotalSessions:     total,
	}
	if total > 0 {
		dto.SessionCompletionRate = round2(float64(completed) / float64(total) * 100)
	}

	for _, day := range data.WeeklySchedule {
		dto.PlannedHours = dto.PlannedHours + day.Planned
	}
	dto.PlannedHours = round2(dto.PlannedHours)

	if dto.PlannedHours > 0 {
		dto.CompletionRate = round2(dto.ActualHours / dto.PlannedHours * 100)
	}

	dto.BurnoutRisk = dto.ActualHours >= burnoutStudyHours && dto.SleepHours < burnoutSleepHours

	return dto, nil
}
