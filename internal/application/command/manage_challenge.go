package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// START CHALLENGE COMMAND
// Replaces the single challenge slot with a fresh active challenge and
// evaluates its progress immediately, so a daily challenge started on day 3
// of an existing streak shows 3/5 right away.
// ══════════════════════════════════════════════════════════════════════════════

// StartChallengeCommand contains the challenge type.
type StartChallengeCommand struct {
	// Type is "daily" or "weekly".
	Type string
}

// Validate validates the command.
func (c StartChallengeCommand) Validate() error {
	_, err := challenge.ParseType(c.Type)
	return err
}

// StartChallengeResult contains the started challenge.
type StartChallengeResult struct {
	Challenge *challenge.Challenge `json:"challenge"`
}

// StartChallengeHandler handles the StartChallengeCommand.
type StartChallengeHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewStartChallengeHandler creates a new StartChallengeHandler.
func NewStartChallengeHandler(store *state.Store, eventPublisher shared.EventPublisher) *StartChallengeHandler {
	return &StartChallengeHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *StartChallengeHandler) Handle(ctx context.Context, cmd StartChallengeCommand) (*StartChallengeResult, error) {
	challengeType, err := challenge.ParseType(cmd.Type)
	if err != nil {
		return nil, err
	}

	now := h.store.Now()
	c, err := challenge.New(uuid.NewString(), challengeType, now)
	if err != nil {
		return nil, err
	}

	// Стартовая оценка прогресса: история учёбы уже может закрывать
	// часть цели.
	progress := challenge.ComputeProgress(c, h.store.UserData(), now)
	changed := c.ApplyProgress(progress, now)

	h.store.SaveChallenge(ctx, c)

	_ = h.eventPublisher.Publish(shared.NewChallengeStartedEvent(c.ID, c.Type.String(), c.Target))
	if changed {
		_ = h.eventPublisher.Publish(shared.NewChallengeProgressEvent(c.ID, c.Progress, c.Target))
	}
	if c.Completed {
		_ = h.eventPublisher.Publish(shared.NewChallengeCompletedEvent(c.ID, c.Type.String()))
	}

	return &StartChallengeResult{Challenge: c.Clone()}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET CHALLENGE COMMAND
// Clears the challenge slot and deletes the persisted blob. Resetting an
// empty slot is a no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ResetChallengeCommand has no payload.
type ResetChallengeCommand struct{}

// ResetChallengeResult contains the reset outcome.
type ResetChallengeResult struct {
	// Reset is false when no challenge was active.
	Reset bool `json:"reset"`
}

// ResetChallengeHandler handles the ResetChallengeCommand.
type ResetChallengeHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewResetChallengeHandler creates a new ResetChallengeHandler.
func NewResetChallengeHandler(store *state.Store, eventPublisher shared.EventPublisher) *ResetChallengeHandler {
	return &ResetChallengeHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *ResetChallengeHandler) Handle(ctx context.Context, _ ResetChallengeCommand) (*ResetChallengeResult, error) {
	current := h.store.Challenge()
	if current == nil {
		return &ResetChallengeResult{Reset: false}, nil
	}

	h.store.ResetChallenge(ctx)

	_ = h.eventPublisher.Publish(shared.NewChallengeResetEvent(current.ID))

	return &ResetChallengeResult{Reset: true}, nil
}
