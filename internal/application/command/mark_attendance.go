package command

import (
	"context"
	"errors"
	"strings"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Upserts today's attendance record for a subject (one record per
// (date, subject) pair), then recomputes the subject's rolling 30-day
// attendance percentage and writes it into the subject entry.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains the attendance data.
type MarkAttendanceCommand struct {
	// Subject is the subject name.
	Subject string

	// Present reports whether the class was attended.
	Present bool

	// Notes is optional free text.
	Notes string
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("mark_attendance: subject is required")
	}
	return nil
}

// MarkAttendanceResult contains the upserted record and the new percentage.
type MarkAttendanceResult struct {
	Record            userdata.AttendanceRecord `json:"record"`
	AttendancePercent float64                   `json:"attendance_percent"`
}

// MarkAttendanceHandler handles the MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
func NewMarkAttendanceHandler(store *state.Store, eventPublisher shared.EventPublisher) *MarkAttendanceHandler {
	return &MarkAttendanceHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.store.Now()
	record := userdata.AttendanceRecord{
		Date:    timeutil.DayKey(now),
		Subject: userdata.NormalizeSubjectName(cmd.Subject),
		Present: cmd.Present,
		Notes:   cmd.Notes,
	}

	var percent float64
	h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.UpsertAttendance(record)
		data.RefreshSubjectAttendance(record.Subject, now)
		percent = data.AttendancePercent(record.Subject, now, userdata.MaxAttendanceWindow)
	})

	_ = h.eventPublisher.Publish(shared.NewAttendanceMarkedEvent(record.Subject, record.Present, record.Date))

	return &MarkAttendanceResult{Record: record, AttendancePercent: percent}, nil
}
