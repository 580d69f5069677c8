// Package eventhandler содержит обработчики доменных событий.
// Реактивный слой: команды публикуют события, обработчики доводят
// производное состояние (челлендж, аналитика целей) до согласованности.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SESSION COMPLETED HANDLER
// Пересчитывает прогресс активного челленджа после каждой завершённой
// сессии. Сохраняет и публикует challenge.progress только когда прогресс
// реально изменился - это разрывает петлю "событие -> пересчёт -> событие".
// ═══════════════════════════════════════════════════════════════════════════

// OnSessionCompletedHandler обрабатывает событие завершения сессии.
type OnSessionCompletedHandler struct {
	store          *state.Store
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewOnSessionCompletedHandler создаёт новый обработчик.
func NewOnSessionCompletedHandler(store *state.Store, eventPublisher shared.EventPublisher, logger *slog.Logger) *OnSessionCompletedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSessionCompletedHandler{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// EventTypes возвращает типы событий, на которые подписан обработчик.
// streak.updated и streak.broken тоже двигают дневной челлендж.
func (h *OnSessionCompletedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventSessionCompleted,
		shared.EventStreakUpdated,
		shared.EventStreakBroken,
	}
}

// Handle пересчитывает прогресс челленджа.
func (h *OnSessionCompletedHandler) Handle(event shared.Event) error {
	c := h.store.Challenge()
	if c == nil || !c.Active {
		return nil
	}

	now := h.store.Now()
	progress := challenge.ComputeProgress(c, h.store.UserData(), now)
	if !c.ApplyProgress(progress, now) {
		return nil
	}

	h.store.SaveChallenge(context.Background(), c)

	h.logger.Info("challenge progress updated",
		slog.String("challenge_id", c.ID),
		slog.String("trigger", string(event.EventType())),
		slog.Int("progress", c.Progress),
		slog.Int("target", c.Target),
	)

	_ = h.eventPublisher.Publish(shared.NewChallengeProgressEvent(c.ID, c.Progress, c.Target))
	if c.Completed {
		h.logger.Info("challenge completed",
			slog.String("challenge_id", c.ID),
			slog.String("type", c.Type.String()),
		)
		_ = h.eventPublisher.Publish(shared.NewChallengeCompletedEvent(c.ID, c.Type.String()))
	}

	return nil
}
