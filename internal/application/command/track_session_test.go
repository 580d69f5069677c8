package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/application/eventhandler"
	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/infrastructure/messaging"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// testEnv wires the full mutation pipeline the way the entrypoints do:
// memory store, synchronous bus, state store, reactive handlers.
type testEnv struct {
	store *state.Store
	bus   *messaging.InMemoryEventBus
	clock *time.Time
}

func newTestEnv(t *testing.T, start time.Time) *testEnv {
	t.Helper()
	timeutil.SetLocation(time.UTC)

	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.AsyncMode = false
	bus := messaging.NewInMemoryEventBus(busConfig)
	t.Cleanup(func() { _ = bus.Close() })

	clock := start
	kvStore := kv.NewMemoryStore()
	store := state.New(state.Config{
		UserDataRepo:  kv.NewUserDataRepository(kvStore),
		ChallengeRepo: kv.NewChallengeRepository(kvStore),
		EventBus:      bus,
		Now:           func() time.Time { return clock },
	}).Load(context.Background())

	sessionHandler := eventhandler.NewOnSessionCompletedHandler(store, bus, nil)
	for _, eventType := range sessionHandler.EventTypes() {
		assert.NoError(t, bus.Subscribe(eventType, sessionHandler.Handle))
	}
	goalHandler := eventhandler.NewOnGoalChangedHandler(store, nil)
	for _, eventType := range goalHandler.EventTypes() {
		assert.NoError(t, bus.Subscribe(eventType, goalHandler.Handle))
	}

	return &testEnv{store: store, bus: bus, clock: &clock}
}

func TestStartStudySession(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewStartStudySessionHandler(env.store, env.bus)

	result, err := handler.Handle(context.Background(), StartStudySessionCommand{
		DurationMinutes: 45,
		Subject:         "  Math ",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "2026-03-04", result.Session.Date)
	assert.Equal(t, "Math", result.Session.Subject)
	assert.False(t, result.Session.Completed)

	stored, ok := env.store.UserData().FindSession(result.SessionID)
	assert.True(t, ok)
	assert.Equal(t, 45, stored.Duration)
}

func TestStartStudySession_Validation(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewStartStudySessionHandler(env.store, env.bus)

	_, err := handler.Handle(context.Background(), StartStudySessionCommand{DurationMinutes: 0})
	assert.Error(t, err)
}

func TestCompleteStudySession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	start, err := NewStartStudySessionHandler(env.store, env.bus).Handle(ctx, StartStudySessionCommand{
		DurationMinutes: 45, Subject: "Math",
	})
	assert.NoError(t, err)

	result, err := NewCompleteStudySessionHandler(env.store, env.bus).Handle(ctx, CompleteStudySessionCommand{
		SessionID: start.SessionID,
	})
	assert.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 45, result.DayStat.TotalMinutes)
	assert.Equal(t, 1, result.DayStat.CompletedSessions)
	assert.True(t, result.StreakUpdated)
	assert.Equal(t, 1, result.CurrentStreak)

	data := env.store.UserData()
	assert.Equal(t, "2026-03-04", data.StudyStreak.LastStudyDate)
	stat, ok := data.StatsForDate("2026-03-04")
	assert.True(t, ok)
	assert.Equal(t, 45, stat.SubjectMinutes["Math"])
}

func TestCompleteStudySession_NoOps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewCompleteStudySessionHandler(env.store, env.bus)

	_, err := handler.Handle(ctx, CompleteStudySessionCommand{})
	assert.Error(t, err)

	// Unknown ID is a silent no-op.
	result, err := handler.Handle(ctx, CompleteStudySessionCommand{SessionID: "ghost"})
	assert.NoError(t, err)
	assert.False(t, result.Completed)

	// Double completion is too.
	start, _ := NewStartStudySessionHandler(env.store, env.bus).Handle(ctx, StartStudySessionCommand{DurationMinutes: 45})
	first, err := handler.Handle(ctx, CompleteStudySessionCommand{SessionID: start.SessionID})
	assert.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := handler.Handle(ctx, CompleteStudySessionCommand{SessionID: start.SessionID})
	assert.NoError(t, err)
	assert.False(t, second.Completed)
}

func TestCompleteStudySession_ShortSessionDoesNotTouchStreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	start, _ := NewStartStudySessionHandler(env.store, env.bus).Handle(ctx, StartStudySessionCommand{DurationMinutes: 20})
	result, err := NewCompleteStudySessionHandler(env.store, env.bus).Handle(ctx, CompleteStudySessionCommand{SessionID: start.SessionID})

	assert.NoError(t, err)
	assert.True(t, result.Completed)
	assert.False(t, result.StreakUpdated)
	assert.Zero(t, result.CurrentStreak)
}

// The full reactive loop: completing sessions moves the weekly challenge
// forward through the session.completed event, and the seventh one finishes it.
func TestCompleteStudySession_DrivesWeeklyChallenge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	started, err := NewStartChallengeHandler(env.store, env.bus).Handle(ctx, StartChallengeCommand{Type: "weekly"})
	assert.NoError(t, err)
	assert.Zero(t, started.Challenge.Progress)

	startHandler := NewStartStudySessionHandler(env.store, env.bus)
	completeHandler := NewCompleteStudySessionHandler(env.store, env.bus)

	for i := 1; i <= challenge.WeeklyTarget; i++ {
		start, err := startHandler.Handle(ctx, StartStudySessionCommand{DurationMinutes: 45, Subject: "Math"})
		assert.NoError(t, err)
		_, err = completeHandler.Handle(ctx, CompleteStudySessionCommand{SessionID: start.SessionID})
		assert.NoError(t, err)

		c := env.store.Challenge()
		assert.Equal(t, i, c.Progress, "after %d completions", i)
	}

	c := env.store.Challenge()
	assert.True(t, c.Completed)
	assert.False(t, c.Active)
	assert.NotNil(t, c.CompletedAt)
}

func TestCompleteStudySession_DrivesDailyChallenge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	_, err := NewStartChallengeHandler(env.store, env.bus).Handle(ctx, StartChallengeCommand{Type: "daily"})
	assert.NoError(t, err)

	startHandler := NewStartStudySessionHandler(env.store, env.bus)
	completeHandler := NewCompleteStudySessionHandler(env.store, env.bus)

	// Three qualifying days in a row.
	for day := 0; day < 3; day++ {
		*env.clock = time.Date(2026, 3, 4+day, 20, 0, 0, 0, time.UTC)
		start, _ := startHandler.Handle(ctx, StartStudySessionCommand{DurationMinutes: 40})
		_, err := completeHandler.Handle(ctx, CompleteStudySessionCommand{SessionID: start.SessionID})
		assert.NoError(t, err)
	}

	c := env.store.Challenge()
	assert.Equal(t, 3, c.Progress)
	assert.True(t, c.Active)
}
