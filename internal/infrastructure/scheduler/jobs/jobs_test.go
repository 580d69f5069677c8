package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newJobStore(t *testing.T, clock *time.Time, bus shared.EventPublisher) *state.Store {
	t.Helper()
	timeutil.SetLocation(time.UTC)

	kvStore := kv.NewMemoryStore()
	return state.New(state.Config{
		UserDataRepo:  kv.NewUserDataRepository(kvStore),
		ChallengeRepo: kv.NewChallengeRepository(kvStore),
		EventBus:      bus,
		Now:           func() time.Time { return *clock },
	}).Load(context.Background())
}

func TestStreakMaintenanceJob(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	bus := &recordingPublisher{}
	store := newJobStore(t, &clock, bus)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.StudyStreak = userdata.StudyStreak{
			CurrentStreak: 3,
			LongestStreak: 3,
			LastStudyDate: "2026-03-04",
			StreakHistory: []userdata.StreakEntry{{Date: "2026-03-04", Maintained: true}},
		}
	})

	job := NewStreakMaintenanceJob(store, nil)
	assert.Equal(t, "streak_maintenance", job.Name())

	// Same day: maintenance already ran on load, nothing to do.
	assert.NoError(t, job.Run(ctx))
	assert.Equal(t, 3, store.UserData().StudyStreak.CurrentStreak)

	// Next day without any study: the streak breaks.
	clock = clock.AddDate(0, 0, 1)
	assert.NoError(t, job.Run(ctx))
	streak := store.UserData().StudyStreak
	assert.Zero(t, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	assert.Contains(t, bus.types(), shared.EventStreakBroken)
}

func TestChallengeRefreshJob(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	bus := &recordingPublisher{}
	store := newJobStore(t, &clock, bus)

	store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.ApplyDailyStats(userdata.DayStat{
			Date: "2026-03-04", TotalMinutes: 45, CompletedSessions: 1, TotalSessions: 1,
		})
	})

	c, err := challenge.New("c1", challenge.TypeDaily, clock)
	assert.NoError(t, err)
	store.SaveChallenge(ctx, c)

	job := NewChallengeRefreshJob(store, bus, nil)
	assert.Equal(t, "challenge_refresh", job.Name())

	assert.NoError(t, job.Run(ctx))
	assert.Equal(t, 1, store.Challenge().Progress)
	assert.Contains(t, bus.types(), shared.EventChallengeProgress)

	// Second run on the same state changes nothing and stays quiet.
	published := len(bus.types())
	assert.NoError(t, job.Run(ctx))
	assert.Len(t, bus.types(), published)
}

func TestChallengeRefreshJob_EmptySlot(t *testing.T) {
	clock := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	bus := &recordingPublisher{}
	store := newJobStore(t, &clock, bus)

	job := NewChallengeRefreshJob(store, bus, nil)
	assert.NoError(t, job.Run(context.Background()))
	assert.Empty(t, bus.types())
}
