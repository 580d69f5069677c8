package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - each represents something significant that happened
// in the domain. Reactive recomputation (goal analytics, challenge progress)
// is driven by these.
const (
	// UserData events
	EventGoalAdded        EventType = "goal.added"
	EventGoalToggled      EventType = "goal.toggled"
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventAttendanceMarked EventType = "attendance.marked"
	EventStressRecorded   EventType = "stress.recorded"
	EventStreakUpdated    EventType = "streak.updated"
	EventStreakBroken     EventType = "streak.broken"
	EventUserDataCleared  EventType = "userdata.cleared"

	// Challenge events
	EventChallengeStarted   EventType = "challenge.started"
	EventChallengeProgress  EventType = "challenge.progress"
	EventChallengeCompleted EventType = "challenge.completed"
	EventChallengeReset     EventType = "challenge.reset"
)

// Event is the interface implemented by all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced the event.
	AggregateID() string

	// Payload returns the event-specific data.
	Payload() any
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// EventType returns the type of the event.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID returns the aggregate ID.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// The service is single-user, so both aggregates are singletons and every
// event carries a fixed aggregate ID.
const (
	UserDataAggregateID  = "userdata"
	ChallengeAggregateID = "challenge"
)

// ═══════════════════════════════════════════════════════════════════════════
// UserData Events
// ═══════════════════════════════════════════════════════════════════════════

// GoalAddedEvent is published when a daily goal is appended.
type GoalAddedEvent struct {
	BaseEvent
	GoalID   string `json:"goal_id"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
	Date     string `json:"date"`
}

// NewGoalAddedEvent creates a new GoalAddedEvent.
func NewGoalAddedEvent(goalID, text, priority, date string) *GoalAddedEvent {
	return &GoalAddedEvent{
		BaseEvent: NewBaseEvent(EventGoalAdded, UserDataAggregateID),
		GoalID:    goalID,
		Text:      text,
		Priority:  priority,
		Date:      date,
	}
}

// Payload returns the event payload.
func (e *GoalAddedEvent) Payload() any {
	return map[string]any{
		"goal_id":  e.GoalID,
		"text":     e.Text,
		"priority": e.Priority,
		"date":     e.Date,
	}
}

// GoalToggledEvent is published when a goal's completion flag flips.
// Goal analytics for the goal's date are rebuilt in response.
type GoalToggledEvent struct {
	BaseEvent
	GoalID    string `json:"goal_id"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// NewGoalToggledEvent creates a new GoalToggledEvent.
func NewGoalToggledEvent(goalID string, completed bool, date string) *GoalToggledEvent {
	return &GoalToggledEvent{
		BaseEvent: NewBaseEvent(EventGoalToggled, UserDataAggregateID),
		GoalID:    goalID,
		Completed: completed,
		Date:      date,
	}
}

// Payload returns the event payload.
func (e *GoalToggledEvent) Payload() any {
	return map[string]any{
		"goal_id":   e.GoalID,
		"completed": e.Completed,
		"date":      e.Date,
	}
}

// SessionStartedEvent is published when a pending study session is created.
type SessionStartedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Duration  int    `json:"duration_minutes"`
	Subject   string `json:"subject,omitempty"`
}

// NewSessionStartedEvent creates a new SessionStartedEvent.
func NewSessionStartedEvent(sessionID string, duration int, subject string) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent: NewBaseEvent(EventSessionStarted, UserDataAggregateID),
		SessionID: sessionID,
		Duration:  duration,
		Subject:   subject,
	}
}

// Payload returns the event payload.
func (e *SessionStartedEvent) Payload() any {
	return map[string]any{
		"session_id":       e.SessionID,
		"duration_minutes": e.Duration,
		"subject":          e.Subject,
	}
}

// SessionCompletedEvent is published when a study session transitions to
// completed. Daily stats and streak have already been rebuilt by the time
// subscribers see it; the challenge evaluator reacts to this event.
type SessionCompletedEvent struct {
	BaseEvent
	SessionID    string `json:"session_id"`
	Duration     int    `json:"duration_minutes"`
	Subject      string `json:"subject,omitempty"`
	Date         string `json:"date"`
	TotalMinutes int    `json:"total_minutes_today"`
}

// NewSessionCompletedEvent creates a new SessionCompletedEvent.
func NewSessionCompletedEvent(sessionID string, duration int, subject, date string, totalMinutes int) *SessionCompletedEvent {
	return &SessionCompletedEvent{
		BaseEvent:    NewBaseEvent(EventSessionCompleted, UserDataAggregateID),
		SessionID:    sessionID,
		Duration:     duration,
		Subject:      subject,
		Date:         date,
		TotalMinutes: totalMinutes,
	}
}

// Payload returns the event payload.
func (e *SessionCompletedEvent) Payload() any {
	return map[string]any{
		"session_id":          e.SessionID,
		"duration_minutes":    e.Duration,
		"subject":             e.Subject,
		"date":                e.Date,
		"total_minutes_today": e.TotalMinutes,
	}
}

// AttendanceMarkedEvent is published when attendance is upserted for a subject.
type AttendanceMarkedEvent struct {
	BaseEvent
	Subject string `json:"subject"`
	Present bool   `json:"present"`
	Date    string `json:"date"`
}

// NewAttendanceMarkedEvent creates a new AttendanceMarkedEvent.
func NewAttendanceMarkedEvent(subject string, present bool, date string) *AttendanceMarkedEvent {
	return &AttendanceMarkedEvent{
		BaseEvent: NewBaseEvent(EventAttendanceMarked, UserDataAggregateID),
		Subject:   subject,
		Present:   present,
		Date:      date,
	}
}

// Payload returns the event payload.
func (e *AttendanceMarkedEvent) Payload() any {
	return map[string]any{
		"subject": e.Subject,
		"present": e.Present,
		"date":    e.Date,
	}
}

// StressRecordedEvent is published when a stress level is upserted for a day.
type StressRecordedEvent struct {
	BaseEvent
	Level int    `json:"level"`
	Date  string `json:"date"`
}

// NewStressRecordedEvent creates a new StressRecordedEvent.
func NewStressRecordedEvent(level int, date string) *StressRecordedEvent {
	return &StressRecordedEvent{
		BaseEvent: NewBaseEvent(EventStressRecorded, UserDataAggregateID),
		Level:     level,
		Date:      date,
	}
}

// Payload returns the event payload.
func (e *StressRecordedEvent) Payload() any {
	return map[string]any{
		"level": e.Level,
		"date":  e.Date,
	}
}

// StreakUpdatedEvent is published when the study streak counters change.
type StreakUpdatedEvent struct {
	BaseEvent
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastStudyDate string `json:"last_study_date"`
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(current, longest int, lastStudyDate string) *StreakUpdatedEvent {
	return &StreakUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventStreakUpdated, UserDataAggregateID),
		CurrentStreak: current,
		LongestStreak: longest,
		LastStudyDate: lastStudyDate,
	}
}

// Payload returns the event payload.
func (e *StreakUpdatedEvent) Payload() any {
	return map[string]any{
		"current_streak":  e.CurrentStreak,
		"longest_streak":  e.LongestStreak,
		"last_study_date": e.LastStudyDate,
	}
}

// StreakBrokenEvent is published by the maintenance check when a missed day
// resets the current streak to zero.
type StreakBrokenEvent struct {
	BaseEvent
	PreviousStreak int `json:"previous_streak"`
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(previousStreak int) *StreakBrokenEvent {
	return &StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, UserDataAggregateID),
		PreviousStreak: previousStreak,
	}
}

// Payload returns the event payload.
func (e *StreakBrokenEvent) Payload() any {
	return map[string]any{"previous_streak": e.PreviousStreak}
}

// UserDataClearedEvent is published when all user data is reset to defaults.
type UserDataClearedEvent struct {
	BaseEvent
}

// NewUserDataClearedEvent creates a new UserDataClearedEvent.
func NewUserDataClearedEvent() *UserDataClearedEvent {
	return &UserDataClearedEvent{
		BaseEvent: NewBaseEvent(EventUserDataCleared, UserDataAggregateID),
	}
}

// Payload returns the event payload.
func (e *UserDataClearedEvent) Payload() any { return nil }

// ═══════════════════════════════════════════════════════════════════════════
// Challenge Events
// ═══════════════════════════════════════════════════════════════════════════

// ChallengeStartedEvent is published when a challenge is (re)started.
type ChallengeStartedEvent struct {
	BaseEvent
	ChallengeID   string `json:"challenge_id"`
	ChallengeType string `json:"challenge_type"`
	Target        int    `json:"target"`
}

// NewChallengeStartedEvent creates a new ChallengeStartedEvent.
func NewChallengeStartedEvent(challengeID, challengeType string, target int) *ChallengeStartedEvent {
	return &ChallengeStartedEvent{
		BaseEvent:     NewBaseEvent(EventChallengeStarted, ChallengeAggregateID),
		ChallengeID:   challengeID,
		ChallengeType: challengeType,
		Target:        target,
	}
}

// Payload returns the event payload.
func (e *ChallengeStartedEvent) Payload() any {
	return map[string]any{
		"challenge_id":   e.ChallengeID,
		"challenge_type": e.ChallengeType,
		"target":         e.Target,
	}
}

// ChallengeProgressEvent is published when recomputed progress differs from
// the stored value. Equal progress publishes nothing, which is what stops
// the evaluate-write-evaluate loop.
type ChallengeProgressEvent struct {
	BaseEvent
	ChallengeID string `json:"challenge_id"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

// NewChallengeProgressEvent creates a new ChallengeProgressEvent.
func NewChallengeProgressEvent(challengeID string, progress, target int) *ChallengeProgressEvent {
	return &ChallengeProgressEvent{
		BaseEvent:   NewBaseEvent(EventChallengeProgress, ChallengeAggregateID),
		ChallengeID: challengeID,
		Progress:    progress,
		Target:      target,
	}
}

// Payload returns the event payload.
func (e *ChallengeProgressEvent) Payload() any {
	return map[string]any{
		"challenge_id": e.ChallengeID,
		"progress":     e.Progress,
		"target":       e.Target,
	}
}

// ChallengeCompletedEvent is published when progress reaches the target.
type ChallengeCompletedEvent struct {
	BaseEvent
	ChallengeID   string `json:"challenge_id"`
	ChallengeType string `json:"challenge_type"`
}

// NewChallengeCompletedEvent creates a new ChallengeCompletedEvent.
func NewChallengeCompletedEvent(challengeID, challengeType string) *ChallengeCompletedEvent {
	return &ChallengeCompletedEvent{
		BaseEvent:     NewBaseEvent(EventChallengeCompleted, ChallengeAggregateID),
		ChallengeID:   challengeID,
		ChallengeType: challengeType,
	}
}

// Payload returns the event payload.
func (e *ChallengeCompletedEvent) Payload() any {
	return map[string]any{
		"challenge_id":   e.ChallengeID,
		"challenge_type": e.ChallengeType,
	}
}

// ChallengeResetEvent is published when the challenge is manually cleared.
type ChallengeResetEvent struct {
	BaseEvent
	ChallengeID string `json:"challenge_id"`
}

// NewChallengeResetEvent creates a new ChallengeResetEvent.
func NewChallengeResetEvent(challengeID string) *ChallengeResetEvent {
	return &ChallengeResetEvent{
		BaseEvent:   NewBaseEvent(EventChallengeReset, ChallengeAggregateID),
		ChallengeID: challengeID,
	}
}

// Payload returns the event payload.
func (e *ChallengeResetEvent) Payload() any {
	return map[string]any{"challenge_id": e.ChallengeID}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
