package userdata

// ═══════════════════════════════════════════════════════════════════════════
// Achievements (derived, never persisted)
// ═══════════════════════════════════════════════════════════════════════════

// AchievementType представляет тип достижения.
type AchievementType string

const (
	// AchievementStreak3 - 3 учебных дня подряд.
	AchievementStreak3 AchievementType = "streak_3"
	// AchievementStreak7 - 7 учебных дней подряд.
	AchievementStreak7 AchievementType = "streak_7"
	// AchievementStreak30 - 30 учебных дней подряд.
	AchievementStreak30 AchievementType = "streak_30"
	// AchievementSessions10 - 10 завершённых сессий.
	AchievementSessions10 AchievementType = "sessions_10"
	// AchievementSessions50 - 50 завершённых сессий.
	AchievementSessions50 AchievementType = "sessions_50"
	// AchievementSessions100 - 100 завершённых сессий.
	AchievementSessions100 AchievementType = "sessions_100"
)

// Achievement - достижение, вычисляемое из текущего состояния агрегата.
// Не персистится: список целиком выводится заново при каждом чтении.
type Achievement struct {
	Type        AchievementType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unlocked    bool            `json:"unlocked"`
	Threshold   int             `json:"threshold"`
	Current     int             `json:"current"`
}

// achievementSpec describes one badge tier.
type achievementSpec struct {
	Type        AchievementType
	Name        string
	Description string
	Threshold   int
}

var streakAchievements = []achievementSpec{
	{AchievementStreak3, "Getting Started", "Study 3 days in a row", 3},
	{AchievementStreak7, "Week Warrior", "Study 7 days in a row", 7},
	{AchievementStreak30, "Unstoppable", "Study 30 days in a row", 30},
}

var sessionAchievements = []achievementSpec{
	{AchievementSessions10, "Session Starter", "Complete 10 study sessions", 10},
	{AchievementSessions50, "Dedicated Learner", "Complete 50 study sessions", 50},
	{AchievementSessions100, "Century Club", "Complete 100 study sessions", 100},
}

// ComputeAchievements derives the full badge list from the longest streak
// and the lifetime completed-session count.
func ComputeAchievements(streak StudyStreak, completedSessions int) []Achievement {
	achievements := make([]Achievement, 0, len(streakAchievements)+len(sessionAchievements))

	for _, spec := range streakAchievements {
		achievements = append(achievements, Achievement{
			Type:        spec.Type,
			Name:        spec.Name,
			Description: spec.Description,
			Unlocked:    streak.LongestStreak >= spec.Threshold,
			Threshold:   spec.Threshold,
			Current:     streak.LongestStreak,
		})
	}
	for _, spec := range sessionAchievements {
		achievements = append(achievements, Achievement{
			Type:        spec.Type,
			Name:        spec.Name,
			Description: spec.Description,
			Unlocked:    completedSessions >= spec.Threshold,
			Threshold:   spec.Threshold,
			Current:     completedSessions,
		})
	}

	return achievements
}

// CompletedSessionCount returns the lifetime number of completed sessions.
func (u *UserData) CompletedSessionCount() int {
	count := 0
	for _, session := range u.StudySessions {
		if session.Completed {
			count++
		}
	}
	return count
}
