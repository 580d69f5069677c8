package query

import (
	"context"
	"time"

	"github.com/trackmystudy/study-hub/internal/application/state"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CHALLENGE STATUS QUERY
// Текущий челлендж с прогрессом. Пустой слот - не ошибка: Active=false.
// ══════════════════════════════════════════════════════════════════════════════

// GetChallengeStatusQuery has no parameters.
type GetChallengeStatusQuery struct{}

// ChallengeStatusDTO - состояние челленджа.
type ChallengeStatusDTO struct {
	// Exists - есть ли челлендж в слоте вообще.
	Exists bool `json:"exists"`

	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`

	// Progress и Target - прогресс к цели.
	Progress int `json:"progress"`
	Target   int `json:"target"`

	// PercentComplete - прогресс в процентах, целое число.
	PercentComplete int `json:"percent_complete"`

	Active      bool       `json:"active"`
	Completed   bool       `json:"completed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GetChallengeStatusHandler handles the GetChallengeStatusQuery.
type GetChallengeStatusHandler struct {
	store *state.Store
}

// NewGetChallengeStatusHandler creates a new GetChallengeStatusHandler.
func NewGetChallengeStatusHandler(store *state.Store) *GetChallengeStatusHandler {
	return &GetChallengeStatusHandler{store: store}
}

// Handle executes the query.
func (h *GetChallengeStatusHandler) Handle(_ context.Context, _ GetChallengeStatusQuery) (*ChallengeStatusDTO, error) {
	c := h.store.Challenge()
	if c == nil {
		return &ChallengeStatusDTO{}, nil
	}

	dto := &ChallengeStatusDTO{
		Exists:      true,
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type.String(),
		Progress:    c.Progress,
		Target:      c.Target,
		Active:      c.Active,
		Completed:   c.Completed,
		CompletedAt: c.CompletedAt,
	}
	startedAt := c.StartedAt
	dto.StartedAt = &startedAt
	if c.Target > 0 {
		dto.PercentComplete = c.Progress * 100 / c.Target
		if dto.PercentComplete > 100 {
			dto.PercentComplete = 100
		}
	}

	return dto, nil
}
