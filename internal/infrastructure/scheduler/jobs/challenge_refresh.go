package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE REFRESH JOB
// ══════════════════════════════════════════════════════════════════════════════

// ChallengeRefreshJob re-evaluates the active challenge at the day boundary.
// Crossing midnight can move progress without any new session: a daily
// challenge loses its "today" day, a weekly challenge can roll into a new
// week. Session-completed events never fire at midnight, so a scheduled
// re-evaluation keeps the displayed progress honest.
type ChallengeRefreshJob struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewChallengeRefreshJob creates a new challenge refresh job.
func NewChallengeRefreshJob(store *state.Store, eventPublisher shared.EventPublisher, logger *slog.Logger) *ChallengeRefreshJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChallengeRefreshJob{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Name returns the unique name of the job.
func (j *ChallengeRefreshJob) Name() string {
	return "challenge_refresh"
}

// Description returns a human-readable description of the job.
func (j *ChallengeRefreshJob) Description() string {
	return "Re-evaluates active challenge progress at the day boundary"
}

// Run re-evaluates the challenge.
func (j *ChallengeRefreshJob) Run(ctx context.Context) error {
	started := time.Now()

	c := j.store.Challenge()
	if c == nil || !c.Active {
		j.logger.Debug("no active challenge, nothing to refresh")
		return nil
	}

	now := j.store.Now()
	progress := challenge.ComputeProgress(c, j.store.UserData(), now)
	if !c.ApplyProgress(progress, now) {
		j.logger.Debug("challenge progress unchanged",
			slog.String("challenge_id", c.ID),
			slog.Int("progress", c.Progress),
		)
		return nil
	}

	j.store.SaveChallenge(ctx, c)

	j.logger.Info("challenge refreshed at day boundary",
		slog.String("challenge_id", c.ID),
		slog.Int("progress", c.Progress),
		slog.Int("target", c.Target),
		slog.Duration("duration", time.Since(started)),
	)

	_ = j.eventPublisher.Publish(shared.NewChallengeProgressEvent(c.ID, c.Progress, c.Target))
	if c.Completed {
		_ = j.eventPublisher.Publish(shared.NewChallengeCompletedEvent(c.ID, c.Type.String()))
	}
	return nil
}
