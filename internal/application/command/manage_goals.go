// Package command contains write operations (CQRS - Commands).
// Every handler funnels its state change through the state store's single
// write path and publishes the domain events the reactive layer listens to.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD DAILY GOAL COMMAND
// Appends a goal stamped with today's calendar day. Unconditional append,
// no dedup: the same text twice is two goals.
// ══════════════════════════════════════════════════════════════════════════════

// AddDailyGoalCommand contains the data to create a goal.
type AddDailyGoalCommand struct {
	// Text is the goal description.
	Text string

	// Priority is one of low/medium/high. Empty defaults to medium.
	Priority string
}

// Validate validates the command.
func (c AddDailyGoalCommand) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("add_daily_goal: text is required")
	}
	if _, err := shared.NewPriority(c.Priority); err != nil {
		return fmt.Errorf("add_daily_goal: %w", err)
	}
	return nil
}

// AddDailyGoalResult contains the created goal.
type AddDailyGoalResult struct {
	Goal userdata.Goal `json:"goal"`
}

// AddDailyGoalHandler handles the AddDailyGoalCommand.
type AddDailyGoalHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewAddDailyGoalHandler creates a new AddDailyGoalHandler.
func NewAddDailyGoalHandler(store *state.Store, eventPublisher shared.EventPublisher) *AddDailyGoalHandler {
	return &AddDailyGoalHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *AddDailyGoalHandler) Handle(ctx context.Context, cmd AddDailyGoalCommand) (*AddDailyGoalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	priority, _ := shared.NewPriority(cmd.Priority)
	goal := userdata.Goal{
		ID:       uuid.NewString(),
		Text:     strings.TrimSpace(cmd.Text),
		Date:     timeutil.DayKey(h.store.Now()),
		Priority: priority,
	}

	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.AddGoal(goal)
	})

	_ = h.eventPublisher.Publish(shared.NewGoalAddedEvent(goal.ID, goal.Text, goal.Priority.String(), goal.Date))

	return &AddDailyGoalResult{Goal: goal}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE GOAL COMPLETION COMMAND
// Flips the completed flag. Unknown IDs are a silent no-op. Goal analytics
// for the goal's date are rebuilt reactively via the goal.toggled event.
// ══════════════════════════════════════════════════════════════════════════════

// ToggleGoalCompletionCommand identifies the goal to toggle.
type ToggleGoalCompletionCommand struct {
	// GoalID is the goal's unique ID.
	GoalID string
}

// Validate validates the command.
func (c ToggleGoalCompletionCommand) Validate() error {
	if c.GoalID == "" {
		return errors.New("toggle_goal: goal_id is required")
	}
	return nil
}

// ToggleGoalCompletionResult contains the toggle outcome.
type ToggleGoalCompletionResult struct {
	// Toggled is false when the goal ID was unknown (no-op).
	Toggled bool `json:"toggled"`

	// Goal is the updated goal when Toggled is true.
	Goal userdata.Goal `json:"goal,omitempty"`
}

// ToggleGoalCompletionHandler handles the ToggleGoalCompletionCommand.
type ToggleGoalCompletionHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewToggleGoalCompletionHandler creates a new ToggleGoalCompletionHandler.
func NewToggleGoalCompletionHandler(store *state.Store, eventPublisher shared.EventPublisher) *ToggleGoalCompletionHandler {
	return &ToggleGoalCompletionHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *ToggleGoalCompletionHandler) Handle(ctx context.Context, cmd ToggleGoalCompletionCommand) (*ToggleGoalCompletionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		toggled bool
		goal    userdata.Goal
	)
	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		goal, toggled = data.ToggleGoal(cmd.GoalID)
	})

	if !toggled {
		// Favor availability over strict validation: unknown IDs no-op.
		return &ToggleGoalCompletionResult{Toggled: false}, nil
	}

	_ = h.eventPublisher.Publish(shared.NewGoalToggledEvent(goal.ID, goal.Completed, goal.Date))

	return &ToggleGoalCompletionResult{Toggled: true, Goal: goal}, nil
}
