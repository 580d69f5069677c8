package query

import (
	"context"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// Достижения вычисляются из агрегата на лету, отдельно не персистятся.
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery contains the filter options.
type GetAchievementsQuery struct {
	// OnlyUnlocked - возвращать только разблокированные достижения.
	OnlyUnlocked bool
}

// GetAchievementsResult содержит достижения.
type GetAchievementsResult struct {
	// Achievements - полный список в фиксированном порядке.
	Achievements []userdata.Achievement `json:"achievements"`

	// UnlockedCount - сколько из них разблокировано.
	UnlockedCount int `json:"unlocked_count"`

	// TotalCount - сколько достижений всего.
	TotalCount int `json:"total_count"`
}

// GetAchievementsHandler handles the GetAchievementsQuery.
type GetAchievementsHandler struct {
	store *state.Store
}

// NewGetAchievementsHandler creates a new GetAchievementsHandler.
func NewGetAchievementsHandler(store *state.Store) *GetAchievementsHandler {
	return &GetAchievementsHandler{store: store}
}

// Handle executes the query.
func (h *GetAchievementsHandler) Handle(_ context.Context, q GetAchievementsQuery) (*GetAchievementsResult, error) {
	data := h.store.UserData()

	all := userdata.ComputeAchievements(data.StudyStreak, data.CompletedSessionCount())

	result := &GetAchievementsResult{TotalCount: len(all)}
	for _, achievement := range all {
		if achievement.Unlocked {
			result.UnlockedCount = result.UnlockedCount + 1
		}
		if q.OnlyUnlocked && !achievement.Unlocked {
			continue
		}
		result.Achievements = append(result.Achievements, achievement)
	}

	return result, nil
}
