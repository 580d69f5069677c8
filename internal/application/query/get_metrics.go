// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read snapshots from the state
// store and shape them into DTOs. Each query is a self-contained use case.
package query

import (
	"context"
	"math"

	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDY METRICS QUERY
// Сводные метрики по предметам: средний балл, средняя посещаемость,
// количество предметов. Пустой список предметов даёт нули, не ошибку.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudyMetricsQuery has no parameters.
type GetStudyMetricsQuery struct{}

// StudyMetricsDTO - сводка по предметам.
type StudyMetricsDTO struct {
	// AverageScore - средний балл по всем предметам, 2 знака.
	AverageScore float64 `json:"average_score"`

	// AverageAttendance - средняя посещаемость по всем предметам, 2 знака.
	AverageAttendance float64 `json:"average_attendance"`

	// TotalSubjects - количество предметов.
	TotalSubjects int `json:"total_subjects"`

	// BaselineGPA - балл на момент baseline-снимка (0 если не записан).
	BaselineGPA float64 `json:"baseline_gpa"`

	// ScoreDelta - изменение среднего балла относительно baseline.
	ScoreDelta float64 `json:"score_delta"`
}

// GetStudyMetricsHandler handles the GetStudyMetricsQuery.
type GetStudyMetricsHandler struct {
	store *state.Store
}

// NewGetStudyMetricsHandler creates a new GetStudyMetricsHandler.
func NewGetStudyMetricsHandler(store *state.Store) *GetStudyMetricsHandler {
	return &GetStudyMetricsHandler{store: store}
}

// Handle executes the query.
func (h *GetStudyMetricsHandler) Handle(_ context.Context, _ GetStudyMetricsQuery) (*StudyMetricsDTO, error) {
	data := h.store.UserData()

	dto := &StudyMetricsDTO{TotalSubjects: len(data.Subjects)}
	if len(data.Subjects) == 0 {
		return dto, nil
	}

	var attendanceSum float64
	for _, subject := range data.Subjects {
		attendanceSum = attendanceSum + subject.Attendance
	}

	dto.AverageScore = round2(userdata.MeanScore(data.Subjects))
	dto.AverageAttendance = round2(attendanceSum / float64(len(data.Subjects)))

	if data.BaselineData != nil {
		dto.BaselineGPA = round2(data.BaselineData.OverallGPA)
		dto.ScoreDelta = round2(dto.AverageScore - dto.BaselineGPA)
	}

	return dto, nil
}

// round2 округляет до 2 знаков после запятой.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// round1 округляет до 1 знака после запятой.
func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
