// Package jobs contains implementations of scheduled jobs for TrackMyStudy Hub.
package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/trackmystudy/study-hub/internal/application/state"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK MAINTENANCE JOB
// ══════════════════════════════════════════════════════════════════════════════

// StreakMaintenanceJob runs the once-per-day streak maintenance check:
// a streak whose last qualifying day was yesterday breaks if today still has
// under 30 minutes of study. The state store deduplicates the check per
// calendar day, so running this job more often than daily is harmless.
type StreakMaintenanceJob struct {
	store  *state.Store
	logger *slog.Logger

	// State
	runCount    atomic.Int64
	brokenCount atomic.Int64
}

// NewStreakMaintenanceJob creates a new streak maintenance job.
func NewStreakMaintenanceJob(store *state.Store, logger *slog.Logger) *StreakMaintenanceJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakMaintenanceJob{store: store, logger: logger}
}

// Name returns the unique name of the job.
func (j *StreakMaintenanceJob) Name() string {
	return "streak_maintenance"
}

// Description returns a human-readable description of the job.
func (j *StreakMaintenanceJob) Description() string {
	return "Breaks the study streak when a day passes without 30 minutes of study"
}

// Run executes the maintenance check.
func (j *StreakMaintenanceJob) Run(ctx context.Context) error {
	started := time.Now()
	j.runCount.Add(1)

	broke := j.store.MaintainStreak(ctx)
	if broke {
		j.brokenCount.Add(1)
		j.logger.Info("streak broken by maintenance check",
			slog.Int64("total_broken", j.brokenCount.Load()),
		)
	}

	j.logger.Debug("streak maintenance finished",
		slog.Bool("streak_broken", broke),
		slog.Duration("duration", time.Since(started)),
	)
	return nil
}
