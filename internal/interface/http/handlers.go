// Package http implements the REST API for TrackMyStudy Hub.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/trackmystudy/study-hub/internal/application/command"
	"github.com/trackmystudy/study-hub/internal/application/query"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "TrackMyStudy Hub API",
		"version":     "v1",
		"description": "REST API for personal study tracking - streaks, goals, sessions and challenges",
		"endpoints": map[string]string{
			"health":       "/health",
			"userdata":     "/api/v1/userdata",
			"metrics":      "/api/v1/metrics",
			"today":        "/api/v1/today",
			"streak":       "/api/v1/streak",
			"challenge":    "/api/v1/challenge",
			"achievements": "/api/v1/achievements",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetUserData handles GET /api/v1/userdata
func (s *Server) handleGetUserData(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "State store not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Store.UserData())
}

// handleGetMetrics handles GET /api/v1/metrics
func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStudyMetricsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Metrics handler not configured")
		return
	}

	result, err := s.deps.GetStudyMetricsHandler.Handle(r.Context(), query.GetStudyMetricsQuery{})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetWeeklyStats handles GET /api/v1/stats/weekly
func (s *Server) handleGetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetWeeklyStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Weekly stats handler not configured")
		return
	}

	result, err := s.deps.GetWeeklyStatsHandler.Handle(r.Context(), query.GetWeeklyStatsQuery{})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetGoalTrend handles GET /api/v1/goals/trend?days=7
func (s *Server) handleGetGoalTrend(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetGoalTrendHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Goal trend handler not configured")
		return
	}

	q := query.GetGoalTrendQuery{Days: getQueryParamInt(r, "days", 0)}
	result, err := s.deps.GetGoalTrendHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetToday handles GET /api/v1/today
func (s *Server) handleGetToday(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetTodayOverviewHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Today handler not configured")
		return
	}

	result, err := s.deps.GetTodayOverviewHandler.Handle(r.Context(), query.GetTodayOverviewQuery{})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetAchievements handles GET /api/v1/achievements?unlocked=true
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAchievementsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Achievements handler not configured")
		return
	}

	q := query.GetAchievementsQuery{OnlyUnlocked: getQueryParamBool(r, "unlocked")}
	result, err := s.deps.GetAchievementsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetStreak handles GET /api/v1/streak
func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStreakStatusHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Streak handler not configured")
		return
	}

	result, err := s.deps.GetStreakStatusHandler.Handle(r.Context(), query.GetStreakStatusQuery{})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetChallenge handles GET /api/v1/challenge
func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetChallengeStatusHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Challenge handler not configured")
		return
	}

	result, err := s.deps.GetChallengeStatusHandler.Handle(r.Context(), query.GetChallengeStatusQuery{})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - GOALS
// ══════════════════════════════════════════════════════════════════════════════

// handleAddGoal handles POST /api/v1/goals
func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Priority string `json:"priority"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AddDailyGoalHandler.Handle(r.Context(), command.AddDailyGoalCommand{
		Text:     req.Text,
		Priority: req.Priority,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleToggleGoal handles POST /api/v1/goals/{id}/toggle
func (s *Server) handleToggleGoal(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ToggleGoalCompletionHandler.Handle(r.Context(), command.ToggleGoalCompletionCommand{
		GoalID: r.PathValue("id"),
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	if !result.Toggled {
		writeJSONError(w, http.StatusNotFound, "goal_not_found", "No goal with the given ID")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

// handleStartSession handles POST /api/v1/sessions
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationMinutes int    `json:"duration_minutes"`
		Subject         string `json:"subject"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.StartStudySessionHandler.Handle(r.Context(), command.StartStudySessionCommand{
		DurationMinutes: req.DurationMinutes,
		Subject:         req.Subject,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleCompleteSession handles POST /api/v1/sessions/{id}/complete
func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CompleteStudySessionHandler.Handle(r.Context(), command.CompleteStudySessionCommand{
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	if !result.Completed {
		writeJSONError(w, http.StatusNotFound, "session_not_found", "No pending session with the given ID")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// handleUpdateSchedule handles PUT /api/v1/schedule/{day}
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlannedHours float64  `json:"planned_hours"`
		Subjects     []string `json:"subjects"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateWeeklyScheduleHandler.Handle(r.Context(), command.UpdateWeeklyScheduleCommand{
		Day:          r.PathValue("day"),
		PlannedHours: req.PlannedHours,
		Subjects:     req.Subjects,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateDayProgress handles PUT /api/v1/schedule/{day}/progress
func (s *Server) handleUpdateDayProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompletedHours float64 `json:"completed_hours"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateDayProgressHandler.Handle(r.Context(), command.UpdateDayProgressCommand{
		Day:            r.PathValue("day"),
		CompletedHours: req.CompletedHours,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - ATTENDANCE & WELLBEING
// ══════════════════════════════════════════════════════════════════════════════

// handleMarkAttendance handles POST /api/v1/attendance
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Present bool   `json:"present"`
		Notes   string `json:"notes"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkAttendanceHandler.Handle(r.Context(), command.MarkAttendanceCommand{
		Subject: req.Subject,
		Present: req.Present,
		Notes:   req.Notes,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleRecordStress handles POST /api/v1/stress
func (s *Server) handleRecordStress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level   int      `json:"level"`
		Notes   string   `json:"notes"`
		Factors []string `json:"factors"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordStressLevelHandler.Handle(r.Context(), command.RecordStressLevelCommand{
		Level:   req.Level,
		Notes:   req.Notes,
		Factors: req.Factors,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - PERFORMANCE & PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// handleSetBaseline handles POST /api/v1/baseline
func (s *Server) handleSetBaseline(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.SetBaselineDataHandler.Handle(r.Context(), command.SetBaselineDataCommand{})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	status := http.StatusCreated
	if !result.Recorded {
		// Baseline already existed or no subjects yet.
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// handleUpdatePerformance handles POST /api/v1/performance
func (s *Server) handleUpdatePerformance(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.UpdatePerformanceHistoryHandler.Handle(r.Context(), command.UpdatePerformanceHistoryCommand{})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleUpdateSubjectScore handles PUT /api/v1/subjects
func (s *Server) handleUpdateSubjectScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string  `json:"subject"`
		Score   float64 `json:"score"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateSubjectScoreHandler.Handle(r.Context(), command.UpdateSubjectScoreCommand{
		Subject: req.Subject,
		Score:   req.Score,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateProfile handles PUT /api/v1/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string  `json:"name"`
		Branch          *string  `json:"branch"`
		Year            *string  `json:"year"`
		DailyStudyHours *float64 `json:"daily_study_hours"`
		SleepHours      *float64 `json:"sleep_hours"`
		ScreenTime      *float64 `json:"screen_time"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		Name:            req.Name,
		Branch:          req.Branch,
		Year:            req.Year,
		DailyStudyHours: req.DailyStudyHours,
		SleepHours:      req.SleepHours,
		ScreenTime:      req.ScreenTime,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleClearUserData handles DELETE /api/v1/userdata
func (s *Server) handleClearUserData(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ClearUserDataHandler.Handle(r.Context(), command.ClearUserDataCommand{})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS - CHALLENGES
// ══════════════════════════════════════════════════════════════════════════════

// handleStartChallenge handles POST /api/v1/challenge
func (s *Server) handleStartChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.StartChallengeHandler.Handle(r.Context(), command.StartChallengeCommand{
		Type: req.Type,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleResetChallenge handles DELETE /api/v1/challenge
func (s *Server) handleResetChallenge(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ResetChallengeHandler.Handle(r.Context(), command.ResetChallengeCommand{})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes the JSON request body into dst. On failure it writes
// a 400 response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// writeCommandError maps a command error to an HTTP response.
func (s *Server) writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrInvalidChallenge):
		writeJSONError(w, http.StatusBadRequest, "invalid_challenge_type", err.Error())
	case shared.IsStorage(err):
		writeJSONError(w, http.StatusServiceUnavailable, "storage_error", "Persistence backend unavailable")
	default:
		// Validate() errors are plain errors, treat them as client errors.
		writeJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

// writeQueryError maps a query error to an HTTP response.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	if shared.IsNotFound(err) {
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	writeJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
}
