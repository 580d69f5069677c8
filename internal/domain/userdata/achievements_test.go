package userdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAchievements(t *testing.T) {
	streak := StudyStreak{CurrentStreak: 2, LongestStreak: 8}

	achievements := ComputeAchievements(streak, 12)
	assert.Len(t, achievements, 6)

	byType := make(map[AchievementType]Achievement, len(achievements))
	for _, a := range achievements {
		byType[a.Type] = a
	}

	// Streak badges use the longest streak, not the current one.
	assert.True(t, byType[AchievementStreak3].Unlocked)
	assert.True(t, byType[AchievementStreak7].Unlocked)
	assert.False(t, byType[AchievementStreak30].Unlocked)
	assert.Equal(t, 8, byType[AchievementStreak7].Current)

	assert.True(t, byType[AchievementSessions10].Unlocked)
	assert.False(t, byType[AchievementSessions50].Unlocked)
	assert.False(t, byType[AchievementSessions100].Unlocked)
	assert.Equal(t, 12, byType[AchievementSessions10].Current)
}

func TestComputeAchievements_FreshUser(t *testing.T) {
	achievements := ComputeAchievements(StudyStreak{}, 0)

	for _, a := range achievements {
		assert.False(t, a.Unlocked, "%s should be locked", a.Type)
		assert.Zero(t, a.Current)
	}
}

func TestCompletedSessionCount(t *testing.T) {
	data := Default()
	data.AddSession(StudySession{ID: "s1", Completed: true})
	data.AddSession(StudySession{ID: "s2"})
	data.AddSession(StudySession{ID: "s3", Completed: true})

	assert.Equal(t, 2, data.CompletedSessionCount())
}
