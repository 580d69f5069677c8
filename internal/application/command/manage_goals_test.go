package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

func TestAddDailyGoal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewAddDailyGoalHandler(env.store, env.bus)

	result, err := handler.Handle(ctx, AddDailyGoalCommand{Text: "  Read chapter 4 ", Priority: "high"})
	assert.NoError(t, err)
	assert.Equal(t, "Read chapter 4", result.Goal.Text)
	assert.Equal(t, "2026-03-04", result.Goal.Date)
	assert.Equal(t, shared.PriorityHigh, result.Goal.Priority)
	assert.False(t, result.Goal.Completed)

	// Analytics for the day are rebuilt reactively.
	analytics, ok := env.store.UserData().AnalyticsForDate("2026-03-04")
	assert.True(t, ok)
	assert.Equal(t, 1, analytics.TotalGoals)
	assert.Zero(t, analytics.CompletedGoals)
}

func TestAddDailyGoal_DefaultPriorityAndDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewAddDailyGoalHandler(env.store, env.bus)

	first, err := handler.Handle(ctx, AddDailyGoalCommand{Text: "revise"})
	assert.NoError(t, err)
	assert.Equal(t, shared.PriorityMedium, first.Goal.Priority)

	// No dedup: the same text twice is two goals.
	second, err := handler.Handle(ctx, AddDailyGoalCommand{Text: "revise"})
	assert.NoError(t, err)
	assert.NotEqual(t, first.Goal.ID, second.Goal.ID)
	assert.Len(t, env.store.UserData().GoalsForDate("2026-03-04"), 2)
}

func TestAddDailyGoal_Validation(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewAddDailyGoalHandler(env.store, env.bus)

	_, err := handler.Handle(context.Background(), AddDailyGoalCommand{Text: "   "})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), AddDailyGoalCommand{Text: "x", Priority: "urgent"})
	assert.Error(t, err)
}

func TestToggleGoalCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	addHandler := NewAddDailyGoalHandler(env.store, env.bus)
	toggleHandler := NewToggleGoalCompletionHandler(env.store, env.bus)

	first, _ := addHandler.Handle(ctx, AddDailyGoalCommand{Text: "one", Priority: "high"})
	_, err := addHandler.Handle(ctx, AddDailyGoalCommand{Text: "two", Priority: "low"})
	assert.NoError(t, err)

	result, err := toggleHandler.Handle(ctx, ToggleGoalCompletionCommand{GoalID: first.Goal.ID})
	assert.NoError(t, err)
	assert.True(t, result.Toggled)
	assert.True(t, result.Goal.Completed)

	// 1 of 2 done: rate 50, per-priority counters updated.
	analytics, ok := env.store.UserData().AnalyticsForDate("2026-03-04")
	assert.True(t, ok)
	assert.Equal(t, 2, analytics.TotalGoals)
	assert.Equal(t, 1, analytics.CompletedGoals)
	assert.Equal(t, 50, analytics.CompletionRate)
	assert.Equal(t, 1, analytics.ByPriority["high"].Completed)
	assert.Zero(t, analytics.ByPriority["low"].Completed)
}

func TestToggleGoalCompletion_UnknownIDNoOps(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewToggleGoalCompletionHandler(env.store, env.bus)

	result, err := handler.Handle(context.Background(), ToggleGoalCompletionCommand{GoalID: "ghost"})
	assert.NoError(t, err)
	assert.False(t, result.Toggled)

	_, err = handler.Handle(context.Background(), ToggleGoalCompletionCommand{})
	assert.Error(t, err)
}
