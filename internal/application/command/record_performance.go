package command

import (
	"context"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET BASELINE DATA COMMAND
// Records the write-once baseline snapshot of the current subjects. When a
// baseline already exists, or there are no subjects yet, the call no-ops.
// ══════════════════════════════════════════════════════════════════════════════

// SetBaselineDataCommand has no payload: the baseline is taken from the
// aggregate's current subject list.
type SetBaselineDataCommand struct{}

// SetBaselineDataResult contains the recorded baseline.
type SetBaselineDataResult struct {
	// Recorded is false when a baseline already existed or there were no
	// subjects to snapshot.
	Recorded bool `json:"recorded"`

	// Baseline is the stored snapshot, present whenever the aggregate
	// carries one (new or pre-existing).
	Baseline *userdata.BaselineData `json:"baseline,omitempty"`
}

// SetBaselineDataHandler handles the SetBaselineDataCommand.
type SetBaselineDataHandler struct {
	store *state.Store
}

// NewSetBaselineDataHandler creates a new SetBaselineDataHandler.
func NewSetBaselineDataHandler(store *state.Store) *SetBaselineDataHandler {
	return &SetBaselineDataHandler{store: store}
}

// Handle executes the command.
func (h *SetBaselineDataHandler) Handle(ctx context.Context, _ SetBaselineDataCommand) (*SetBaselineDataResult, error) {
	now := h.store.Now()

	var recorded bool
	snapshot := h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		recorded = data.SetBaseline(data.Subjects, now)
	})

	return &SetBaselineDataResult{Recorded: recorded, Baseline: snapshot.BaselineData}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PERFORMANCE HISTORY COMMAND
// Appends a dated snapshot of the current subjects to the performance
// history (last 10 kept). No subjects means nothing to record.
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePerformanceHistoryCommand has no payload: the snapshot is taken
// from the aggregate's current subject list.
type UpdatePerformanceHistoryCommand struct{}

// UpdatePerformanceHistoryResult contains the appended entry.
type UpdatePerformanceHistoryResult struct {
	// Recorded is false when there were no subjects to snapshot.
	Recorded bool `json:"recorded"`

	// Entry is the appended history entry when Recorded is true.
	Entry userdata.PerformanceEntry `json:"entry,omitempty"`

	// HistoryLength is the history size after the append.
	HistoryLength int `json:"history_length"`
}

// UpdatePerformanceHistoryHandler handles the UpdatePerformanceHistoryCommand.
type UpdatePerformanceHistoryHandler struct {
	store *state.Store
}

// NewUpdatePerformanceHistoryHandler creates a new UpdatePerformanceHistoryHandler.
func NewUpdatePerformanceHistoryHandler(store *state.Store) *UpdatePerformanceHistoryHandler {
	return &UpdatePerformanceHistoryHandler{store: store}
}

// Handle executes the command.
func (h *UpdatePerformanceHistoryHandler) Handle(ctx context.Context, _ UpdatePerformanceHistoryCommand) (*UpdatePerformanceHistoryResult, error) {
	now := h.store.Now()

	var recorded bool
	snapshot := h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		recorded = data.AppendPerformance(data.Subjects, now)
	})

	result := &UpdatePerformanceHistoryResult{
		Recorded:      recorded,
		HistoryLength: len(snapshot.PerformanceHistory),
	}
	if recorded && len(snapshot.PerformanceHistory) > 0 {
		result.Entry = snapshot.PerformanceHistory[len(snapshot.PerformanceHistory)-1]
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SUBJECT SCORE COMMAND
// Upserts a subject with its current score. New subjects are appended,
// existing ones (matched by normalized name) keep their attendance.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateSubjectScoreCommand contains the score change.
type UpdateSubjectScoreCommand struct {
	// Subject is the subject name.
	Subject string

	// Score is the grade, 0-100.
	Score float64
}

// Validate validates the command.
func (c UpdateSubjectScoreCommand) Validate() error {
	if userdata.NormalizeSubjectName(c.Subject) == "" {
		return shared.ErrEmptySubjectName
	}
	if _, err := shared.NewScore(c.Score); err != nil {
		return err
	}
	return nil
}

// UpdateSubjectScoreResult contains the updated subject.
type UpdateSubjectScoreResult struct {
	Subject userdata.Subject `json:"subject"`
}

// UpdateSubjectScoreHandler handles the UpdateSubjectScoreCommand.
type UpdateSubjectScoreHandler struct {
	store *state.Store
}

// NewUpdateSubjectScoreHandler creates a new UpdateSubjectScoreHandler.
func NewUpdateSubjectScoreHandler(store *state.Store) *UpdateSubjectScoreHandler {
	return &UpdateSubjectScoreHandler{store: store}
}

// Handle executes the command.
func (h *UpdateSubjectScoreHandler) Handle(ctx context.Context, cmd UpdateSubjectScoreCommand) (*UpdateSubjectScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	name := userdata.NormalizeSubjectName(cmd.Subject)

	var subject userdata.Subject
	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		for i := range data.Subjects {
			if userdata.NormalizeSubjectName(data.Subjects[i].Name) == name {
				data.Subjects[i].Score = cmd.Score
				subject = data.Subjects[i]
				return
			}
		}
		subject = userdata.Subject{Name: name, Score: cmd.Score}
		data.Subjects = append(data.Subjects, subject)
	})

	return &UpdateSubjectScoreResult{Subject: subject}, nil
}
