package userdata

import (
	"strings"
	"time"

	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// Truncation limits for the bounded collections. Oldest entries are dropped
// first when a limit is exceeded.
const (
	MaxPerformanceEntries = 10
	MaxDailyStats         = 30
	MaxGoalAnalytics      = 30
	MaxStressRecords      = 30
	MaxStreakHistory      = 30
	MaxAttendanceWindow   = 30 // rolling window (days) for attendance percent
)

// ═══════════════════════════════════════════════════════════════════════════
// Aggregate Components
// ═══════════════════════════════════════════════════════════════════════════

// Subject - учебный предмет с текущей оценкой и посещаемостью.
// Attendance пересчитывается из attendanceRecords, вручную не редактируется.
type Subject struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Attendance float64 `json:"attendance"`
}

// StudyData - ручной снимок образа жизни (не временной ряд).
type StudyData struct {
	DailyStudyHours float64 `json:"dailyStudyHours"`
	SleepHours      float64 `json:"sleepHours"`
	ScreenTime      float64 `json:"screenTime"`
}

// Goal - дневная цель. Append-only: после создания меняется только Completed.
type Goal struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Priority  shared.Priority `json:"priority"`
}

// ScheduleDay - план и факт учебных часов на день недели.
type ScheduleDay struct {
	Planned   float64  `json:"planned"`
	Completed float64  `json:"completed"`
	Subjects  []string `json:"subjects"`
}

// WeeklySchedule отображает 7 lowercase названий дней недели на ScheduleDay.
// Инвариант: все 7 ключей присутствуют всегда.
type WeeklySchedule map[string]ScheduleDay

// BaselineData - снимок предметов, записанный ровно один раз (write-once).
type BaselineData struct {
	Subjects     []Subject `json:"subjects"`
	OverallGPA   float64   `json:"overallGPA"`
	DateRecorded time.Time `json:"dateRecorded"`
}

// PerformanceEntry - запись истории успеваемости.
type PerformanceEntry struct {
	Date       time.Time `json:"date"`
	Subjects   []Subject `json:"subjects"`
	OverallGPA float64   `json:"overallGPA"`
}

// StudySession - учебная сессия. Создаётся в состоянии pending,
// один раз переходит в completed (терминальное состояние).
type StudySession struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Duration  int        `json:"duration"` // minutes
	Completed bool       `json:"completed"`
	Subject   string     `json:"subject,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// DayStat - агрегированная статистика за один календарный день.
// Пересчитывается целиком из studySessions.
type DayStat struct {
	Date              string         `json:"date"`
	TotalMinutes      int            `json:"totalMinutes"`
	CompletedSessions int            `json:"completedSessions"`
	TotalSessions     int            `json:"totalSessions"`
	SubjectMinutes    map[string]int `json:"subjectMinutes"`
}

// Qualifies reports whether the day counts as studied (>= 30 minutes).
func (d DayStat) Qualifies() bool {
	return shared.Minutes(d.TotalMinutes).Qualifies()
}

// AttendanceRecord - отметка посещаемости. Не более одной на пару (дата, предмет).
type AttendanceRecord struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Present bool   `json:"present"`
	Notes   string `json:"notes,omitempty"`
}

// PriorityCount - счётчики целей одного приоритета.
type PriorityCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// GoalAnalytics - аналитика целей за один день. Пересчитывается целиком
// при каждом переключении цели.
type GoalAnalytics struct {
	Date           string                   `json:"date"`
	TotalGoals     int                      `json:"totalGoals"`
	CompletedGoals int                      `json:"completedGoals"`
	CompletionRate int                      `json:"completionRate"` // integer percent
	ByPriority     map[string]PriorityCount `json:"byPriority"`
}

// StreakEntry - запись истории стрика.
type StreakEntry struct {
	Date       string `json:"date"`
	Maintained bool   `json:"maintained"`
}

// StudyStreak - серия учебных дней. LongestStreak монотонно не убывает.
type StudyStreak struct {
	CurrentStreak int           `json:"currentStreak"`
	LongestStreak int           `json:"longestStreak"`
	LastStudyDate string        `json:"lastStudyDate"` // YYYY-MM-DD, empty when never studied
	StreakHistory []StreakEntry `json:"streakHistory"`
}

// StressRecord - отметка уровня стресса. Не более одной на дату.
type StressRecord struct {
	Date    string   `json:"date"`
	Level   int      `json:"level"` // 1-10
	Notes   string   `json:"notes,omitempty"`
	Factors []string `json:"factors,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// UserData Aggregate
// ═══════════════════════════════════════════════════════════════════════════

// UserData - корневой агрегат. Одна запись на пользователя, персистится
// целиком как единый JSON-блоб. JSON-теги совпадают с форматом хранения,
// менять их нельзя без миграции блоба.
type UserData struct {
	Name               string             `json:"name"`
	Branch             string             `json:"branch"`
	Year               string             `json:"year"`
	Subjects           []Subject          `json:"subjects"`
	StudyData          StudyData          `json:"studyData"`
	DailyGoals         []Goal             `json:"dailyGoals"`
	WeeklySchedule     WeeklySchedule     `json:"weeklySchedule"`
	BaselineData       *BaselineData      `json:"baselineData,omitempty"`
	PerformanceHistory []PerformanceEntry `json:"performanceHistory"`
	StudySessions      []StudySession     `json:"studySessions"`
	DailyStats         []DayStat          `json:"dailyStats"`
	AttendanceRecords  []AttendanceRecord `json:"attendanceRecords"`
	GoalAnalytics      []GoalAnalytics    `json:"goalAnalytics"`
	StudyStreak        StudyStreak        `json:"studyStreak"`
	StressRecords      []StressRecord     `json:"stressRecords"`
	LastUpdated        time.Time          `json:"lastUpdated"`
}

// Default возвращает шаблон агрегата по умолчанию. Загруженный блоб
// мержится поверх этого шаблона, поэтому поля, добавленные в новых версиях
// схемы, всегда получают значение.
func Default() *UserData {
	return &UserData{
		Subjects:           []Subject{},
		DailyGoals:         []Goal{},
		WeeklySchedule:     DefaultSchedule(),
		PerformanceHistory: []PerformanceEntry{},
		StudySessions:      []StudySession{},
		DailyStats:         []DayStat{},
		AttendanceRecords:  []AttendanceRecord{},
		GoalAnalytics:      []GoalAnalytics{},
		StudyStreak: StudyStreak{
			StreakHistory: []StreakEntry{},
		},
		StressRecords: []StressRecord{},
	}
}

// DefaultSchedule возвращает расписание с 7 пустыми днями.
func DefaultSchedule() WeeklySchedule {
	schedule := make(WeeklySchedule, 7)
	for _, day := range timeutil.WeekdayKeys() {
		schedule[day] = ScheduleDay{Subjects: []string{}}
	}
	return schedule
}

// Normalize восстанавливает инварианты после десериализации: nil-слайсы
// становятся пустыми, weeklySchedule приводится ровно к 7 каноническим ключам
// (неизвестные ключи отбрасываются, отсутствующие заполняются из шаблона).
func (u *UserData) Normalize() {
	if u.Subjects == nil {
		u.Subjects = []Subject{}
	}
	if u.DailyGoals == nil {
		u.DailyGoals = []Goal{}
	}
	if u.PerformanceHistory == nil {
		u.PerformanceHistory = []PerformanceEntry{}
	}
	if u.StudySessions == nil {
		u.StudySessions = []StudySession{}
	}
	if u.DailyStats == nil {
		u.DailyStats = []DayStat{}
	}
	if u.AttendanceRecords == nil {
		u.AttendanceRecords = []AttendanceRecord{}
	}
	if u.GoalAnalytics == nil {
		u.GoalAnalytics = []GoalAnalytics{}
	}
	if u.StressRecords == nil {
		u.StressRecords = []StressRecord{}
	}
	if u.StudyStreak.StreakHistory == nil {
		u.StudyStreak.StreakHistory = []StreakEntry{}
	}

	normalized := DefaultSchedule()
	for _, day := range timeutil.WeekdayKeys() {
		if entry, ok := u.WeeklySchedule[day]; ok {
			if entry.Subjects == nil {
				entry.Subjects = []string{}
			}
			normalized[day] = entry
		}
	}
	u.WeeklySchedule = normalized
}

// Clone возвращает глубокую копию агрегата. Снапшоты, отдаваемые наружу,
// всегда копируются, чтобы читатели не могли мутировать состояние стора.
func (u *UserData) Clone() *UserData {
	if u == nil {
		return nil
	}

	clone := *u

	clone.Subjects = append([]Subject(nil), u.Subjects...)
	clone.DailyGoals = append([]Goal(nil), u.DailyGoals...)
	clone.PerformanceHistory = make([]PerformanceEntry, len(u.PerformanceHistory))
	for i, entry := range u.PerformanceHistory {
		entry.Subjects = append([]Subject(nil), entry.Subjects...)
		clone.PerformanceHistory[i] = entry
	}
	clone.StudySessions = make([]StudySession, len(u.StudySessions))
	for i, session := range u.StudySessions {
		if session.EndTime != nil {
			end := *session.EndTime
			session.EndTime = &end
		}
		clone.StudySessions[i] = session
	}
	clone.DailyStats = make([]DayStat, len(u.DailyStats))
	for i, stat := range u.DailyStats {
		minutes := make(map[string]int, len(stat.SubjectMinutes))
		for subject, m := range stat.SubjectMinutes {
			minutes[subject] = m
		}
		stat.SubjectMinutes = minutes
		clone.DailyStats[i] = stat
	}
	clone.AttendanceRecords = append([]AttendanceRecord(nil), u.AttendanceRecords...)
	clone.GoalAnalytics = make([]GoalAnalytics, len(u.GoalAnalytics))
	for i, analytics := range u.GoalAnalytics {
		byPriority := make(map[string]PriorityCount, len(analytics.ByPriority))
		for priority, count := range analytics.ByPriority {
			byPriority[priority] = count
		}
		analytics.ByPriority = byPriority
		clone.GoalAnalytics[i] = analytics
	}
	clone.StudyStreak.StreakHistory = append([]StreakEntry(nil), u.StudyStreak.StreakHistory...)
	clone.StressRecords = make([]StressRecord, len(u.StressRecords))
	for i, record := range u.StressRecords {
		record.Factors = append([]string(nil), record.Factors...)
		clone.StressRecords[i] = record
	}

	if u.BaselineData != nil {
		baseline := *u.BaselineData
		baseline.Subjects = append([]Subject(nil), u.BaselineData.Subjects...)
		clone.BaselineData = &baseline
	}

	clone.WeeklySchedule = make(WeeklySchedule, len(u.WeeklySchedule))
	for day, entry := range u.WeeklySchedule {
		entry.Subjects = append([]string(nil), entry.Subjects...)
		clone.WeeklySchedule[day] = entry
	}

	return &clone
}

// ═══════════════════════════════════════════════════════════════════════════
// Goals
// ═══════════════════════════════════════════════════════════════════════════

// AddGoal appends a goal unconditionally. No dedup: identical texts on the
// same day are two separate goals.
func (u *UserData) AddGoal(goal Goal) {
	u.DailyGoals = append(u.DailyGoals, goal)
}

// ToggleGoal flips the completion flag of the goal with the given ID.
// Returns the updated goal and false when the ID is unknown (silent no-op).
func (u *UserData) ToggleGoal(id string) (Goal, bool) {
	for i := range u.DailyGoals {
		if u.DailyGoals[i].ID == id {
			u.DailyGoals[i].Completed = !u.DailyGoals[i].Completed
			return u.DailyGoals[i], true
		}
	}
	return Goal{}, false
}

// GoalsForDate returns all goals stamped with the given date key.
func (u *UserData) GoalsForDate(date string) []Goal {
	goals := make([]Goal, 0)
	for _, goal := range u.DailyGoals {
		if goal.Date == date {
			goals = append(goals, goal)
		}
	}
	return goals
}

// ═══════════════════════════════════════════════════════════════════════════
// Weekly Schedule
// ═══════════════════════════════════════════════════════════════════════════

// SetSchedule overwrites planned hours and subjects for a day, preserving
// completed hours. The day name is case-insensitive.
func (u *UserData) SetSchedule(day string, planned float64, subjects []string) error {
	key, ok := timeutil.NormalizeWeekday(day)
	if !ok {
		return shared.ErrInvalidWeekday
	}
	entry := u.WeeklySchedule[key]
	entry.Planned = planned
	entry.Subjects = append([]string{}, subjects...)
	u.WeeklySchedule[key] = entry
	return nil
}

// SetDayProgress overwrites only the completed hours for a day.
func (u *UserData) SetDayProgress(day string, completed float64) error {
	key, ok := timeutil.NormalizeWeekday(day)
	if !ok {
		return shared.ErrInvalidWeekday
	}
	entry := u.WeeklySchedule[key]
	entry.Completed = completed
	u.WeeklySchedule[key] = entry
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════════════════════

// UpsertAttendance replaces the record for (date, subject) if present,
// otherwise appends. Subject matching is exact.
func (u *UserData) UpsertAttendance(record AttendanceRecord) {
	for i := range u.AttendanceRecords {
		if u.AttendanceRecords[i].Date == record.Date && u.AttendanceRecords[i].Subject == record.Subject {
			u.AttendanceRecords[i] = record
			return
		}
	}
	u.AttendanceRecords = append(u.AttendanceRecords, record)
}

// AttendancePercent computes the rolling attendance percentage for a subject
// over the trailing window of days, rounded to the nearest integer.
// Returns 0 when the window holds no records for the subject.
func (u *UserData) AttendancePercent(subject string, now time.Time, windowDays int) float64 {
	cutoff := timeutil.StartOfDay(now).AddDate(0, 0, -windowDays)

	total := 0
	present := 0
	for _, record := range u.AttendanceRecords {
		if record.Subject != subject {
			continue
		}
		day, err := timeutil.ParseDayKey(record.Date)
		if err != nil || day.Before(cutoff) {
			continue
		}
		total++
		if record.Present {
			present++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(int(float64(present)/float64(total)*100 + 0.5))
}

// RefreshSubjectAttendance recomputes and writes the rolling attendance
// percentage into the matching subject entry. Unknown subjects are ignored.
func (u *UserData) RefreshSubjectAttendance(subject string, now time.Time) {
	percent := u.AttendancePercent(subject, now, MaxAttendanceWindow)
	for i := range u.Subjects {
		if u.Subjects[i].Name == subject {
			u.Subjects[i].Attendance = percent
			return
		}
	}
}

// AttendanceForDate returns all attendance records for the given date key.
func (u *UserData) AttendanceForDate(date string) []AttendanceRecord {
	records := make([]AttendanceRecord, 0)
	for _, record := range u.AttendanceRecords {
		if record.Date == date {
			records = append(records, record)
		}
	}
	return records
}

// ═══════════════════════════════════════════════════════════════════════════
// Stress
// ═══════════════════════════════════════════════════════════════════════════

// UpsertStress replaces the record for the date if present, otherwise appends
// and truncates to the last MaxStressRecords entries.
func (u *UserData) UpsertStress(record StressRecord) {
	for i := range u.StressRecords {
		if u.StressRecords[i].Date == record.Date {
			u.StressRecords[i] = record
			return
		}
	}
	u.StressRecords = append(u.StressRecords, record)
	if len(u.StressRecords) > MaxStressRecords {
		u.StressRecords = u.StressRecords[len(u.StressRecords)-MaxStressRecords:]
	}
}

// StressForDate returns the stress record for a date, if any.
func (u *UserData) StressForDate(date string) (StressRecord, bool) {
	for _, record := range u.StressRecords {
		if record.Date == date {
			return record, true
		}
	}
	return StressRecord{}, false
}

// ═══════════════════════════════════════════════════════════════════════════
// Baseline & Performance History
// ═══════════════════════════════════════════════════════════════════════════

// SetBaseline records the baseline snapshot once. Returns false (no-op) when
// the baseline is already set or the subject list is empty.
func (u *UserData) SetBaseline(subjects []Subject, now time.Time) bool {
	if u.BaselineData != nil || len(subjects) == 0 {
		return false
	}
	u.BaselineData = &BaselineData{
		Subjects:     append([]Subject{}, subjects...),
		OverallGPA:   MeanScore(subjects),
		DateRecorded: now,
	}
	return true
}

// AppendPerformance appends a performance snapshot and truncates to the last
// MaxPerformanceEntries entries. No-op when the subject list is empty.
func (u *UserData) AppendPerformance(subjects []Subject, now time.Time) bool {
	if len(subjects) == 0 {
		return false
	}
	u.PerformanceHistory = append(u.PerformanceHistory, PerformanceEntry{
		Date:       now,
		Subjects:   append([]Subject{}, subjects...),
		OverallGPA: MeanScore(subjects),
	})
	if len(u.PerformanceHistory) > MaxPerformanceEntries {
		u.PerformanceHistory = u.PerformanceHistory[len(u.PerformanceHistory)-MaxPerformanceEntries:]
	}
	return true
}

// MeanScore returns the arithmetic mean of subject scores, 0 for an empty list.
func MeanScore(subjects []Subject) float64 {
	if len(subjects) == 0 {
		return 0
	}
	sum := 0.0
	for _, subject := range subjects {
		sum += subject.Score
	}
	return sum / float64(len(subjects))
}

// NormalizeSubjectName trims surrounding whitespace from a subject name.
func NormalizeSubjectName(name string) string {
	return strings.TrimSpace(name)
}
