package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

func TestStartChallenge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewStartChallengeHandler(env.store, env.bus)

	result, err := handler.Handle(ctx, StartChallengeCommand{Type: "daily"})
	assert.NoError(t, err)
	assert.Equal(t, challenge.TypeDaily, result.Challenge.Type)
	assert.Equal(t, challenge.DailyTarget, result.Challenge.Target)
	assert.True(t, result.Challenge.Active)

	assert.NotNil(t, env.store.Challenge())
}

func TestStartChallenge_InvalidType(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	_, err := NewStartChallengeHandler(env.store, env.bus).Handle(context.Background(), StartChallengeCommand{Type: "monthly"})
	assert.ErrorIs(t, err, shared.ErrInvalidChallenge)
}

// A daily challenge started mid-streak gets credit for the existing run.
func TestStartChallenge_EvaluatesImmediately(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(t, now)

	env.store.SaveUserData(ctx, func(data *userdata.UserData) {
		for i := 0; i < 3; i++ {
			date := timeutil.DayKey(now.AddDate(0, 0, -i))
			data.ApplyDailyStats(userdata.DayStat{Date: date, TotalMinutes: 45})
		}
	})

	result, err := NewStartChallengeHandler(env.store, env.bus).Handle(ctx, StartChallengeCommand{Type: "daily"})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Challenge.Progress)
}

func TestStartChallenge_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewStartChallengeHandler(env.store, env.bus)

	first, err := handler.Handle(ctx, StartChallengeCommand{Type: "daily"})
	assert.NoError(t, err)
	second, err := handler.Handle(ctx, StartChallengeCommand{Type: "weekly"})
	assert.NoError(t, err)
	assert.NotEqual(t, first.Challenge.ID, second.Challenge.ID)

	current := env.store.Challenge()
	assert.Equal(t, second.Challenge.ID, current.ID)
	assert.Equal(t, challenge.TypeWeekly, current.Type)
}

func TestResetChallenge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	// Empty slot: nothing to reset.
	result, err := NewResetChallengeHandler(env.store, env.bus).Handle(ctx, ResetChallengeCommand{})
	assert.NoError(t, err)
	assert.False(t, result.Reset)

	_, err = NewStartChallengeHandler(env.store, env.bus).Handle(ctx, StartChallengeCommand{Type: "weekly"})
	assert.NoError(t, err)

	result, err = NewResetChallengeHandler(env.store, env.bus).Handle(ctx, ResetChallengeCommand{})
	assert.NoError(t, err)
	assert.True(t, result.Reset)
	assert.Nil(t, env.store.Challenge())
}
