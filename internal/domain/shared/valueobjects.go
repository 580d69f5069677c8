package shared

import (
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// Score Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Score represents a subject score on a 0-100 scale.
type Score float64

const (
	MinScore Score = 0
	MaxScore Score = 100
)

// IsValid checks if the score is within valid range.
func (s Score) IsValid() bool {
	return s >= MinScore && s <= MaxScore
}

// Float64 returns the underlying float64 value.
func (s Score) Float64() float64 {
	return float64(s)
}

// NewScore creates a new Score with validation.
func NewScore(value float64) (Score, error) {
	s := Score(value)
	if !s.IsValid() {
		return 0, NewDomainError("shared", "NewScore", ErrValueOutOfRange, "score must be between 0 and 100")
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Priority Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Priority represents the priority tier of a daily goal.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks if the priority is one of the three tiers.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// String returns the string representation.
func (p Priority) String() string {
	return string(p)
}

// NewPriority creates a Priority with validation, defaulting to medium
// when the input is empty.
func NewPriority(value string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PriorityMedium, nil
	}
	p := Priority(normalized)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Priorities returns the tiers in descending order of urgency.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ═══════════════════════════════════════════════════════════════════════════
// StressLevel Value Object
// ═══════════════════════════════════════════════════════════════════════════

// StressLevel represents a self-reported stress level on a 1-10 scale.
type StressLevel int

const (
	MinStressLevel StressLevel = 1
	MaxStressLevel StressLevel = 10
)

// IsValid checks if the stress level is within valid range.
func (s StressLevel) IsValid() bool {
	return s >= MinStressLevel && s <= MaxStressLevel
}

// Int returns the underlying int value.
func (s StressLevel) Int() int {
	return int(s)
}

// IsHigh returns true for levels that warrant attention (7 and above).
func (s StressLevel) IsHigh() bool {
	return s >= 7
}

// NewStressLevel creates a new StressLevel with validation.
func NewStressLevel(value int) (StressLevel, error) {
	s := StressLevel(value)
	if !s.IsValid() {
		return 0, ErrInvalidStressLvl
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// DateKey Value Object
// ═══════════════════════════════════════════════════════════════════════════

// DateKey is a calendar date in YYYY-MM-DD form, the canonical key for all
// per-day collections (daily stats, goal analytics, stress records).
type DateKey string

var dateKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValid checks if the date key has the canonical format.
func (d DateKey) IsValid() bool {
	if !dateKeyRegex.MatchString(string(d)) {
		return false
	}
	_, err := time.Parse("2006-01-02", string(d))
	return err == nil
}

// String returns the string representation.
func (d DateKey) String() string {
	return string(d)
}

// NewDateKey creates a new DateKey with validation.
func NewDateKey(value string) (DateKey, error) {
	d := DateKey(strings.TrimSpace(value))
	if !d.IsValid() {
		return "", NewDomainError("shared", "NewDateKey", ErrInvalidFormat, "date must be YYYY-MM-DD")
	}
	return d, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Minutes Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Minutes represents a study duration in whole minutes.
type Minutes int

// QualifyingDayMinutes is the minimum daily study time for a day to count
// toward the streak and the daily challenge.
const QualifyingDayMinutes Minutes = 30

// IsValid checks that the duration is positive.
func (m Minutes) IsValid() bool {
	return m > 0
}

// Int returns the underlying int value.
func (m Minutes) Int() int {
	return int(m)
}

// Hours converts minutes to fractional hours.
func (m Minutes) Hours() float64 {
	return float64(m) / 60.0
}

// Qualifies reports whether this much study time makes a qualifying day.
func (m Minutes) Qualifies() bool {
	return m >= QualifyingDayMinutes
}

// NewMinutes creates a new Minutes value with validation.
func NewMinutes(value int) (Minutes, error) {
	m := Minutes(value)
	if !m.IsValid() {
		return 0, ErrInvalidDuration
	}
	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// LastNDays returns a TimeRange covering the trailing N days up to now.
func LastNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}
