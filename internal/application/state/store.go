// Package state implements the State Store: the singleton holder of the
// UserData and Challenge aggregates, their load-on-start hydration, and the
// single durable write path every mutation funnels through.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/logger"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// Patch mutates the working copy of the aggregate inside the write path.
// Each mutation computes new values for one or more top-level fields; the
// store takes care of the lastUpdated stamp and persistence.
type Patch func(*userdata.UserData)

// Config contains Store dependencies.
type Config struct {
	UserDataRepo  userdata.Repository
	ChallengeRepo challenge.Repository
	EventBus      shared.EventPublisher
	Logger        *logger.Logger

	// Now overrides the clock. Defaults to timeutil.Now.
	Now func() time.Time
}

// Store holds the canonical in-memory aggregates and serializes all writes.
// Reads return deep copies, so callers can never mutate shared state.
type Store struct {
	mu sync.RWMutex

	userRepo      userdata.Repository
	challengeRepo challenge.Repository
	bus           shared.EventPublisher
	log           *logger.Logger
	now           func() time.Time

	data      *userdata.UserData
	challenge *challenge.Challenge

	// maintenanceDay is the day key of the last streak maintenance check,
	// so the check runs at most once per day on load.
	maintenanceDay string
}

// New creates a Store. Call Load before use.
func New(cfg Config) *Store {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	now := cfg.Now
	if now == nil {
		now = timeutil.Now
	}
	return &Store{
		userRepo:      cfg.UserDataRepo,
		challengeRepo: cfg.ChallengeRepo,
		bus:           cfg.EventBus,
		log:           log.With(logger.Component("state_store")),
		now:           now,
		data:          userdata.Default(),
	}
}

// Now returns the store's current time. Mutation handlers use this so the
// whole pipeline shares one clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// ═══════════════════════════════════════════════════════════════════════════
// Hydration
// ═══════════════════════════════════════════════════════════════════════════

// Load hydrates both aggregates from the key-value store. A missing or
// unparseable UserData blob falls back to the default template: the failure
// is logged, never returned. The Challenge aggregate loads independently and
// does not participate in the merge.
//
// Load never fails; it returns the store for chaining convenience.
func (s *Store) Load(ctx context.Context) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.userRepo.Load(ctx)
	switch {
	case err == nil:
		s.data = data
	case errors.Is(err, shared.ErrBlobNotFound):
		s.data = userdata.Default()
	default:
		// Corrupt or unreachable blob: silent fallback to defaults.
		s.log.Warn("loading userdata failed, falling back to defaults", logger.Err(err))
		s.data = userdata.Default()
	}

	c, err := s.challengeRepo.Load(ctx)
	switch {
	case err == nil:
		s.challenge = c
	case errors.Is(err, shared.ErrBlobNotFound):
		s.challenge = nil
	default:
		s.log.Warn("loading challenge failed, treating as absent", logger.Err(err))
		s.challenge = nil
	}

	s.maintainStreakLocked(ctx)
	return s
}

// ═══════════════════════════════════════════════════════════════════════════
// Snapshot Reads
// ═══════════════════════════════════════════════════════════════════════════

// UserData returns a deep copy of the current aggregate.
func (s *Store) UserData() *userdata.UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Challenge returns a deep copy of the current challenge, or nil when no
// challenge is started.
func (s *Store) Challenge() *challenge.Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.challenge.Clone()
}

// ═══════════════════════════════════════════════════════════════════════════
// Write Paths
// ═══════════════════════════════════════════════════════════════════════════

// SaveUserData is the ONLY durable write path for UserData. It applies the
// patch to a working copy, stamps lastUpdated, swaps the in-memory snapshot,
// and persists the whole blob synchronously. Persistence failures are logged
// and swallowed: loss of durability must never crash a caller.
//
// Returns a deep copy of the new state for the caller's event payloads.
func (s *Store) SaveUserData(ctx context.Context, patch Patch) *userdata.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	patch(next)
	next.LastUpdated = s.now()
	s.data = next

	if err := s.userRepo.Save(ctx, next); err != nil {
		s.log.Error("persisting userdata failed", logger.Err(err))
	}

	return next.Clone()
}

// SaveChallenge replaces the current challenge and persists it.
func (s *Store) SaveChallenge(ctx context.Context, c *challenge.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenge = c.Clone()

	if err := s.challengeRepo.Save(ctx, s.challenge); err != nil {
		s.log.Error("persisting challenge failed", logger.Err(err))
	}
}

// ResetChallenge clears the challenge to absent and removes its blob.
func (s *Store) ResetChallenge(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenge = nil

	if err := s.challengeRepo.Delete(ctx); err != nil {
		s.log.Error("deleting challenge blob failed", logger.Err(err))
	}
}

// ClearUserData resets the aggregate to the default template and removes the
// persisted blob. Irreversible.
func (s *Store) ClearUserData(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = userdata.Default()

	if err := s.userRepo.Delete(ctx); err != nil {
		s.log.Error("deleting userdata blob failed", logger.Err(err))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Maintenance
// ═══════════════════════════════════════════════════════════════════════════

// MaintainStreak runs the missed-day check: when the last study day was
// yesterday and today's minutes are still below the qualifying threshold,
// the current streak resets to zero (longestStreak untouched). Runs from the
// daily scheduler job; Load also triggers it once per day.
// Returns true when the streak was broken.
func (s *Store) MaintainStreak(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintainStreakLocked(ctx)
}

func (s *Store) maintainStreakLocked(ctx context.Context) bool {
	today := timeutil.DayKey(s.now())
	if s.maintenanceDay == today {
		return false
	}
	s.maintenanceDay = today

	todayStat, _ := s.data.StatsForDate(today)
	previous := s.data.StudyStreak.CurrentStreak

	next := s.data.Clone()
	if !next.StudyStreak.CheckBroken(todayStat, s.now()) {
		return false
	}

	next.LastUpdated = s.now()
	s.data = next
	if err := s.userRepo.Save(ctx, next); err != nil {
		s.log.Error("persisting userdata failed", logger.Err(err))
	}

	s.log.Info("study streak broken by missed day",
		logger.StreakDays(previous),
		logger.DateKey(today),
	)
	if s.bus != nil {
		if err := s.bus.Publish(shared.NewStreakBrokenEvent(previous)); err != nil {
			s.log.Warn("publishing streak.broken failed", logger.Err(err))
		}
	}
	return true
}
