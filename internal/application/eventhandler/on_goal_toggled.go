package eventhandler

import (
	"context"
	"log/slog"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON GOAL CHANGED HANDLER
// Перестраивает goal analytics за день цели целиком после каждого
// добавления или переключения. Пересборка с нуля вместо инкремента -
// идемпотентно и не накапливает рассинхрон.
// ═══════════════════════════════════════════════════════════════════════════

// OnGoalChangedHandler обрабатывает события изменения целей.
type OnGoalChangedHandler struct {
	store  *state.Store
	logger *slog.Logger
}

// NewOnGoalChangedHandler создаёт новый обработчик.
func NewOnGoalChangedHandler(store *state.Store, logger *slog.Logger) *OnGoalChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnGoalChangedHandler{store: store, logger: logger}
}

// EventTypes возвращает типы событий, на которые подписан обработчик.
func (h *OnGoalChangedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventGoalAdded,
		shared.EventGoalToggled,
	}
}

// Handle перестраивает аналитику за день из payload события.
func (h *OnGoalChangedHandler) Handle(event shared.Event) error {
	payload, _ := event.Payload().(map[string]any)
	date, _ := payload["date"].(string)
	if date == "" {
		h.logger.Warn("goal event without date, skipping analytics rebuild",
			slog.String("event_type", string(event.EventType())),
		)
		return nil
	}

	h.store.SaveUserData(context.Background(), func(data *userdata.UserData) {
		entry := userdata.RebuildGoalAnalytics(data.GoalsForDate(date), date)
		data.ApplyGoalAnalytics(entry)
	})

	h.logger.Debug("goal analytics rebuilt", slog.String("date", date))
	return nil
}
