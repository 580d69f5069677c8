package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ══════════════════════════════════════════════════════════════════════════════
// START STUDY SESSION COMMAND
// Creates a pending session dated today and returns its ID for the later
// completion call.
// ══════════════════════════════════════════════════════════════════════════════

// StartStudySessionCommand contains the data to start a session.
type StartStudySessionCommand struct {
	// DurationMinutes is the planned session length.
	DurationMinutes int

	// Subject is optional.
	Subject string
}

// Validate validates the command.
func (c StartStudySessionCommand) Validate() error {
	if c.DurationMinutes <= 0 {
		return errors.New("start_session: duration must be positive")
	}
	return nil
}

// StartStudySessionResult contains the created session.
type StartStudySessionResult struct {
	SessionID string                `json:"session_id"`
	Session   userdata.StudySession `json:"session"`
}

// StartStudySessionHandler handles the StartStudySessionCommand.
type StartStudySessionHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewStartStudySessionHandler creates a new StartStudySessionHandler.
func NewStartStudySessionHandler(store *state.Store, eventPublisher shared.EventPublisher) *StartStudySessionHandler {
	return &StartStudySessionHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *StartStudySessionHandler) Handle(ctx context.Context, cmd StartStudySessionCommand) (*StartStudySessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	session := userdata.NewStudySession(
		uuid.NewString(),
		cmd.DurationMinutes,
		userdata.NormalizeSubjectName(cmd.Subject),
		h.store.Now(),
	)

	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.AddSession(session)
	})

	_ = h.eventPublisher.Publish(shared.NewSessionStartedEvent(session.ID, session.Duration, session.Subject))

	return &StartStudySessionResult{SessionID: session.ID, Session: session}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE STUDY SESSION COMMAND
// Marks the session completed, stamps endTime, then rebuilds the day's stats
// wholesale and updates the study streak - all inside the same write.
// Unknown or already-completed IDs are a silent no-op.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteStudySessionCommand identifies the session to complete.
type CompleteStudySessionCommand struct {
	// SessionID is the session's unique ID.
	SessionID string
}

// Validate validates the command.
func (c CompleteStudySessionCommand) Validate() error {
	if c.SessionID == "" {
		return errors.New("complete_session: session_id is required")
	}
	return nil
}

// CompleteStudySessionResult contains the completion outcome.
type CompleteStudySessionResult struct {
	// Completed is false when the session ID was unknown or already
	// completed (no-op).
	Completed bool `json:"completed"`

	// Session is the completed session when Completed is true.
	Session userdata.StudySession `json:"session,omitempty"`

	// DayStat is the rebuilt stats entry for the session's day.
	DayStat userdata.DayStat `json:"day_stat,omitempty"`

	// StreakUpdated reports whether the streak counters changed.
	StreakUpdated bool `json:"streak_updated"`

	// CurrentStreak is the streak after the update.
	CurrentStreak int `json:"current_streak"`
}

// CompleteStudySessionHandler handles the CompleteStudySessionCommand.
type CompleteStudySessionHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewCompleteStudySessionHandler creates a new CompleteStudySessionHandler.
func NewCompleteStudySessionHandler(store *state.Store, eventPublisher shared.EventPublisher) *CompleteStudySessionHandler {
	return &CompleteStudySessionHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *CompleteStudySessionHandler) Handle(ctx context.Context, cmd CompleteStudySessionCommand) (*CompleteStudySessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.store.Now()

	var (
		completed     bool
		session       userdata.StudySession
		stat          userdata.DayStat
		streakUpdated bool
		streak        userdata.StudyStreak
	)
	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		session, completed = data.CompleteSession(cmd.SessionID, now)
		if !completed {
			return
		}
		stat = userdata.RebuildDailyStats(data.StudySessions, session.Date)
		data.ApplyDailyStats(stat)
		streakUpdated = data.StudyStreak.RecordStudyDay(stat, now)
		streak = data.StudyStreak
	})

	if !completed {
		return &CompleteStudySessionResult{Completed: false}, nil
	}

	_ = h.eventPublisher.Publish(shared.NewSessionCompletedEvent(
		session.ID, session.Duration, session.Subject, session.Date, stat.TotalMinutes,
	))
	if streakUpdated {
		_ = h.eventPublisher.Publish(shared.NewStreakUpdatedEvent(
			streak.CurrentStreak, streak.LongestStreak, streak.LastStudyDate,
		))
	}

	return &CompleteStudySessionResult{
		Completed:     true,
		Session:       session,
		DayStat:       stat,
		StreakUpdated: streakUpdated,
		CurrentStreak: streak.CurrentStreak,
	}, nil
}
