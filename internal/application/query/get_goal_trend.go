package query

import (
	"context"
	"errors"

	"github.com/trackmystudy/study-hub/internal/application/state"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET GOAL TREND QUERY
// Последние N точек goal analytics в хронологическом порядке - готовый ряд
// для графика выполнения целей.
// ══════════════════════════════════════════════════════════════════════════════

// GetGoalTrendQuery contains the trend window.
type GetGoalTrendQuery struct {
	// Days - размер окна (по умолчанию 7, максимум 30).
	Days int
}

// Validate validates and normalizes the query.
func (q *GetGoalTrendQuery) Validate() error {
	if q.Days < 0 {
		return errors.New("days cannot be negative")
	}
	if q.Days == 0 {
		q.Days = 7
	}
	if q.Days > 30 {
		q.Days = 30
	}
	return nil
}

// GoalTrendPointDTO - одна точка тренда.
type GoalTrendPointDTO struct {
	// Date - день в формате YYYY-MM-DD.
	Date string `json:"date"`

	// CompletionRate - процент выполненных целей за день.
	CompletionRate int `json:"completion_rate"`

	// TotalGoals - количество целей за день.
	TotalGoals int `json:"total_goals"`
}

// GetGoalTrendResult содержит точки тренда.
type GetGoalTrendResult struct {
	Points []GoalTrendPointDTO `json:"points"`
}

// GetGoalTrendHandler handles the GetGoalTrendQuery.
type GetGoalTrendHandler struct {
	store *state.Store
}

// NewGetGoalTrendHandler creates a new GetGoalTrendHandler.
func NewGetGoalTrendHandler(store *state.Store) *GetGoalTrendHandler {
	return &GetGoalTrendHandler{store: store}
}

// Handle executes the query.
func (h *GetGoalTrendHandler) Handle(_ context.Context, q GetGoalTrendQuery) (*GetGoalTrendResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	data := h.store.UserData()

	// goalAnalytics хранится отсортированным по дате, берём хвост.
	analytics := data.GoalAnalytics
	if len(analytics) > q.Days {
		analytics = analytics[len(analytics)-q.Days:]
	}

	points := make([]GoalTrendPointDTO, 0, len(analytics))
	for _, entry := range analytics {
		points = append(points, GoalTrendPointDTO{
			Date:           entry.Date,
			CompletionRate: entry.CompletionRate,
			TotalGoals:     entry.TotalGoals,
		})
	}

	return &GetGoalTrendResult{Points: points}, nil
}
