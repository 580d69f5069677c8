package command

import (
	"context"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD STRESS LEVEL COMMAND
// Upserts today's stress record (one record per date, capped at the last 30).
// ══════════════════════════════════════════════════════════════════════════════

// RecordStressLevelCommand contains the stress data.
type RecordStressLevelCommand struct {
	// Level is the stress level, 1-10.
	Level int

	// Notes is optional free text.
	Notes string

	// Factors is an optional list of contributing factors.
	Factors []string
}

// Validate validates the command.
func (c RecordStressLevelCommand) Validate() error {
	if _, err := shared.NewStressLevel(c.Level); err != nil {
		return err
	}
	return nil
}

// RecordStressLevelResult contains the upserted record.
type RecordStressLevelResult struct {
	Record userdata.StressRecord `json:"record"`
}

// RecordStressLevelHandler handles the RecordStressLevelCommand.
type RecordStressLevelHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewRecordStressLevelHandler creates a new RecordStressLevelHandler.
func NewRecordStressLevelHandler(store *state.Store, eventPublisher shared.EventPublisher) *RecordStressLevelHandler {
	return &RecordStressLevelHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *RecordStressLevelHandler) Handle(ctx context.Context, cmd RecordStressLevelCommand) (*RecordStressLevelResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	record := userdata.StressRecord{
		Date:    timeutil.DayKey(h.store.Now()),
		Level:   cmd.Level,
		Notes:   cmd.Notes,
		Factors: cmd.Factors,
	}

	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.UpsertStress(record)
	})

	_ = h.eventPublisher.Publish(shared.NewStressRecordedEvent(record.Level, record.Date))

	return &RecordStressLevelResult{Record: record}, nil
}
