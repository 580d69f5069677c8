package query

import (
	"context"
	"fmt"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STREAK STATUS QUERY
// Текущее состояние серии плюс мотивационное сообщение по уровню серии.
// ══════════════════════════════════════════════════════════════════════════════

// GetStreakStatusQuery has no parameters.
type GetStreakStatusQuery struct{}

// StreakStatusDTO - состояние серии.
type StreakStatusDTO struct {
	// CurrentStreak - длина текущей серии в днях.
	CurrentStreak int `json:"current_streak"`

	// LongestStreak - рекордная длина серии.
	LongestStreak int `json:"longest_streak"`

	// LastStudyDate - последний зачтённый день, YYYY-MM-DD.
	LastStudyDate string `json:"last_study_date,omitempty"`

	// ActiveToday - зачтён ли сегодняшний день.
	ActiveToday bool `json:"active_today"`

	// AtRisk - серия жива, но сегодня минимум ещё не набран.
	AtRisk bool `json:"at_risk"`

	// Message - мотивационное сообщение.
	Message string `json:"message"`

	// History - последние отметки поддержания серии.
	History []userdata.StreakEntry `json:"history"`
}

// GetStreakStatusHandler handles the GetStreakStatusQuery.
type GetStreakStatusHandler struct {
	store *state.Store
}

// NewGetStreakStatusHandler creates a new GetStreakStatusHandler.
func NewGetStreakStatusHandler(store *state.Store) *GetStreakStatusHandler {
	return &GetStreakStatusHandler{store: store}
}

// Handle executes the query.
func (h *GetStreakStatusHandler) Handle(_ context.Context, _ GetStreakStatusQuery) (*StreakStatusDTO, error) {
	data := h.store.UserData()
	now := h.store.Now()

	streak := data.StudyStreak
	today := timeutil.DayKey(now)

	dto := &StreakStatusDTO{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		LastStudyDate: streak.LastStudyDate,
		ActiveToday:   streak.IsActiveOn(today),
		History:       streak.StreakHistory,
	}
	dto.AtRisk = streak.CurrentStreak > 0 && !dto.ActiveToday
	dto.Message = streakMessage(streak.CurrentStreak, dto.ActiveToday)

	return dto, nil
}

// streakMessage подбирает сообщение под длину серии.
func streakMessage(streak int, activeToday bool) string {
	switch {
	case streak == 0:
		return "Study 30 minutes today to start your streak!"
	case streak >= 30:
		return fmt.Sprintf("%d days - you are unstoppable!", streak)
	case streak >= 14:
		return fmt.Sprintf("%d days strong. This is a real habit now.", streak)
	case streak >= 7:
		return fmt.Sprintf("A full week and counting - %d days!", streak)
	case streak >= 3:
		return fmt.Sprintf("%d days in a row. Momentum is building!", streak)
	default:
		if activeToday {
			return fmt.Sprintf("Day %d done. Come back tomorrow!", streak)
		}
		return fmt.Sprintf("Day %d - study today to keep it alive!", streak)
	}
}
