package command

import (
	"context"
	"strings"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Overwrites the identity fields and the lifestyle snapshot. Nil pointers
// mean "leave unchanged", so callers can patch a single field.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the profile changes. All fields are
// optional; nil means keep the current value.
type UpdateProfileCommand struct {
	Name   *string
	Branch *string
	Year   *string

	// DailyStudyHours, SleepHours and ScreenTime update the lifestyle
	// snapshot (not a time series).
	DailyStudyHours *float64
	SleepHours      *float64
	ScreenTime      *float64
}

// Validate validates the command.
func (c UpdateProfileCommand) Validate() error {
	for _, hours := range []*float64{c.DailyStudyHours, c.SleepHours, c.ScreenTime} {
		if hours != nil && *hours < 0 {
			return shared.ErrNegativeHours
		}
	}
	return nil
}

// UpdateProfileResult contains the profile after the update.
type UpdateProfileResult struct {
	Name      string             `json:"name"`
	Branch    string             `json:"branch"`
	Year      string             `json:"year"`
	StudyData userdata.StudyData `json:"study_data"`
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	store *state.Store
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(store *state.Store) *UpdateProfileHandler {
	return &UpdateProfileHandler{store: store}
}

// Handle executes the command.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	snapshot := h.store.SaveUserData(ctx, func(data *userdata.UserData) {
		if cmd.Name != nil {
			data.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Branch != nil {
			data.Branch = strings.TrimSpace(*cmd.Branch)
		}
		if cmd.Year != nil {
			data.Year = strings.TrimSpace(*cmd.Year)
		}
		if cmd.DailyStudyHours != nil {
			data.StudyData.DailyStudyHours = *cmd.DailyStudyHours
		}
		if cmd.SleepHours != nil {
			data.StudyData.SleepHours = *cmd.SleepHours
		}
		if cmd.ScreenTime != nil {
			data.StudyData.ScreenTime = *cmd.ScreenTime
		}
	})

	return &UpdateProfileResult{
		Name:      snapshot.Name,
		Branch:    snapshot.Branch,
		Year:      snapshot.Year,
		StudyData: snapshot.StudyData,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLEAR USER DATA COMMAND
// Resets the aggregate to defaults and deletes the persisted blob. There is
// no undo.
// ══════════════════════════════════════════════════════════════════════════════

// ClearUserDataCommand has no payload.
type ClearUserDataCommand struct{}

// ClearUserDataResult contains the fresh default aggregate.
type ClearUserDataResult struct {
	UserData *userdata.UserData `json:"user_data"`
}

// ClearUserDataHandler handles the ClearUserDataCommand.
type ClearUserDataHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
}

// NewClearUserDataHandler creates a new ClearUserDataHandler.
func NewClearUserDataHandler(store *state.Store, eventPublisher shared.EventPublisher) *ClearUserDataHandler {
	return &ClearUserDataHandler{store: store, eventPublisher: eventPublisher}
}

// Handle executes the command.
func (h *ClearUserDataHandler) Handle(ctx context.Context, _ ClearUserDataCommand) (*ClearUserDataResult, error) {
	h.store.ClearUserData(ctx)

	_ = h.eventPublisher.Publish(shared.NewUserDataClearedEvent())

	return &ClearUserDataResult{UserData: h.store.UserData()}, nil
}
