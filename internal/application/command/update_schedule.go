package command

import (
	"context"
	"errors"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE WEEKLY SCHEDULE COMMAND
// Overwrites planned hours and subjects for one weekday, preserving the
// completed hours. The day name is case-insensitive.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateWeeklyScheduleCommand contains the schedule change.
type UpdateWeeklyScheduleCommand struct {
	// Day is a weekday name (any casing).
	Day string

	// PlannedHours is the planned study time for the day.
	PlannedHours float64

	// Subjects are the subjects planned for the day.
	Subjects []string
}

// Validate validates the command.
func (c UpdateWeeklyScheduleCommand) Validate() error {
	if _, ok := timeutil.NormalizeWeekday(c.Day); !ok {
		return shared.ErrInvalidWeekday
	}
	if c.PlannedHours < 0 {
		return errors.New("update_schedule: planned hours cannot be negative")
	}
	return nil
}

// UpdateWeeklyScheduleResult contains the updated day entry.
type UpdateWeeklyScheduleResult struct {
	Day      string               `json:"day"`
	Schedule userdata.ScheduleDay `json:"schedule"`
}

// UpdateWeeklyScheduleHandler handles the UpdateWeeklyScheduleCommand.
type UpdateWeeklyScheduleHandler struct {
	store *state.Store
}

// NewUpdateWeeklyScheduleHandler creates a new UpdateWeeklyScheduleHandler.
func NewUpdateWeeklyScheduleHandler(store *state.Store) *UpdateWeeklyScheduleHandler {
	return &UpdateWeeklyScheduleHandler{store: store}
}

// Handle executes the command.
func (h *UpdateWeeklyScheduleHandler) Handle(ctx context.Context, cmd UpdateWeeklyScheduleCommand) (*UpdateWeeklyScheduleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	day, _ := timeutil.NormalizeWeekday(cmd.Day)

	snapshot := h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		_ = data.SetSchedule(day, cmd.PlannedHours, cmd.Subjects)
	})

	return &UpdateWeeklyScheduleResult{
		Day:      day,
		Schedule: snapshot.WeeklySchedule[day],
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE DAY PROGRESS COMMAND
// Overwrites only the completed hours for one weekday.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateDayProgressCommand contains the progress change.
type UpdateDayProgressCommand struct {
	// Day is a weekday name (any casing).
	Day string

	// CompletedHours is the actual study time for the day.
	CompletedHours float64
}

// Validate validates the command.
func (c UpdateDayProgressCommand) Validate() error {
	if _, ok := timeutil.NormalizeWeekday(c.Day); !ok {
		return shared.ErrInvalidWeekday
	}
	if c.CompletedHours < 0 {
		return errors.New("update_day_progress: completed hours cannot be negative")
	}
	return nil
}

// UpdateDayProgressResult contains the updated day entry.
type UpdateDayProgressResult struct {
	Day      string               `json:"day"`
	Schedule userdata.ScheduleDay `json:"schedule"`
}

// UpdateDayProgressHandler handles the UpdateDayProgressCommand.
type UpdateDayProgressHandler struct {
	store *state.Store
}

// NewUpdateDayProgressHandler creates a new UpdateDayProgressHandler.
func NewUpdateDayProgressHandler(store *state.Store) *UpdateDayProgressHandler {
	return &UpdateDayProgressHandler{store: store}
}

// Handle executes the command.
func (h *UpdateDayProgressHandler) Handle(ctx context.Context, cmd UpdateDayProgressCommand) (*UpdateDayProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	day, _ := timeutil.NormalizeWeekday(cmd.Day)

	snapshot := h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		_ = data.SetDayProgress(day, cmd.CompletedHours)
	})

	return &UpdateDayProgressResult{
		Day:      day,
		Schedule: snapshot.WeeklySchedule[day],
	}, nil
}
