package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewMarkAttendanceHandler(env.store, env.bus)

	env.store.SaveUserData(ctx, func(data *userdata.UserData) {
		data.Subjects = append(data.Subjects, userdata.Subject{Name: "Math", Score: 90})
	})

	result, err := handler.Handle(ctx, MarkAttendanceCommand{Subject: " Math ", Present: true})
	assert.NoError(t, err)
	assert.Equal(t, "Math", result.Record.Subject)
	assert.Equal(t, "2026-03-04", result.Record.Date)
	assert.Equal(t, 100.0, result.AttendancePercent)

	// The rolling percentage lands in the subject entry.
	assert.Equal(t, 100.0, env.store.UserData().Subjects[0].Attendance)
}

func TestMarkAttendance_UpsertsSameDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewMarkAttendanceHandler(env.store, env.bus)

	_, err := handler.Handle(ctx, MarkAttendanceCommand{Subject: "Math", Present: false})
	assert.NoError(t, err)
	result, err := handler.Handle(ctx, MarkAttendanceCommand{Subject: "Math", Present: true, Notes: "corrected"})
	assert.NoError(t, err)

	assert.Equal(t, 100.0, result.AttendancePercent)
	records := env.store.UserData().AttendanceForDate("2026-03-04")
	assert.Len(t, records, 1)
	assert.True(t, records[0].Present)
	assert.Equal(t, "corrected", records[0].Notes)
}

func TestMarkAttendance_Validation(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	handler := NewMarkAttendanceHandler(env.store, env.bus)

	_, err := handler.Handle(context.Background(), MarkAttendanceCommand{Subject: "  "})
	assert.Error(t, err)
}
