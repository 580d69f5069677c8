// Package challenge содержит доменную модель учебных челленджей.
//
// Challenge - независимый опциональный агрегат: одновременно существует не
// более одного. Жизненный цикл: absent -> started (progress=0, active=true)
// -> progress обновляется автоматически -> completed (active=false,
// терминальное состояние) либо ручной сброс в absent. Запуск нового
// челленджа всегда безусловно заменяет текущий.
package challenge

import (
	"time"

	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// Type определяет вид челленджа.
type Type string

const (
	// TypeDaily - 5 подряд идущих дней с учёбой не менее 30 минут.
	TypeDaily Type = "daily"
	// TypeWeekly - 7 завершённых сессий в текущей календарной неделе.
	TypeWeekly Type = "weekly"
)

// IsValid checks if the challenge type is known.
func (t Type) IsValid() bool {
	return t == TypeDaily || t == TypeWeekly
}

// String returns the string representation.
func (t Type) String() string {
	return string(t)
}

// ParseType parses a challenge type with validation.
func ParseType(value string) (Type, error) {
	t := Type(value)
	if !t.IsValid() {
		return "", shared.ErrInvalidChallenge
	}
	return t, nil
}

// Targets per challenge type.
const (
	DailyTarget  = 5
	WeeklyTarget = 7
)

// Challenge - агрегат челленджа. JSON-теги совпадают с форматом хранения.
type Challenge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        Type       `json:"type"`
	Target      int        `json:"target"`
	Progress    int        `json:"progress"`
	Active      bool       `json:"active"`
	StartedAt   time.Time  `json:"startedAt"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// New creates a fresh challenge of the given type.
func New(id string, challengeType Type, now time.Time) (*Challenge, error) {
	if !challengeType.IsValid() {
		return nil, shared.ErrInvalidChallenge
	}

	c := &Challenge{
		ID:        id,
		Type:      challengeType,
		Active:    true,
		StartedAt: now,
	}

	switch challengeType {
	case TypeDaily:
		c.Name = "5-Day Study Streak"
		c.Description = "Study at least 30 minutes each day for 5 days in a row"
		c.Target = DailyTarget
	case TypeWeekly:
		c.Name = "Weekly Session Goal"
		c.Description = "Complete 7 study sessions this week"
		c.Target = WeeklyTarget
	}

	return c, nil
}

// ApplyProgress stores the recomputed progress and, when the target is
// reached, marks the challenge completed (terminal: active drops to false).
// Returns false when the stored progress already equals the new value -
// the caller must not persist or republish in that case, which is what
// breaks the evaluate-write-evaluate loop.
func (c *Challenge) ApplyProgress(progress int, now time.Time) bool {
	if c.Completed || !c.Active {
		return false
	}
	if progress == c.Progress {
		return false
	}

	c.Progress = progress
	if c.Progress >= c.Target {
		c.Completed = true
		c.Active = false
		completedAt := now
		c.CompletedAt = &completedAt
	}
	return true
}

// Clone returns a deep copy of the challenge.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	clone := *c
	if c.CompletedAt != nil {
		completedAt := *c.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
