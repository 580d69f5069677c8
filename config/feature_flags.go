package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles.
// The app is single-user, so there is no per-user targeting or rollout
// percentage: a flag is on or off, optionally within a time window.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// Predefined feature flag names.
const (
	// === Streak & Challenge Features ===
	FeatureStreaks          = "streak.tracking"      // Daily study streaks
	FeatureStreakMessages   = "streak.messages"      // Motivational streak messages
	FeatureChallenges       = "challenge.tracking"   // Daily/weekly challenges
	FeatureChallengeRefresh = "challenge.refresh"    // Day-boundary re-evaluation
	FeatureAchievements     = "achievements.compute" // Derived achievements

	// === Wellbeing Features ===
	FeatureStressMonitor = "wellbeing.stress_monitor" // Stress level tracking
	FeatureBurnoutAlerts = "wellbeing.burnout_alerts" // Burnout risk flag in weekly stats

	// === Analytics Features ===
	FeatureGoalAnalytics    = "analytics.goals"       // Daily goal completion trend
	FeaturePerformanceTrend = "analytics.performance" // Performance history snapshots
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Core tracking features - enabled by default
	ff.features[FeatureStreaks] = &Feature{
		Name:        FeatureStreaks,
		Description: "Track daily study streaks",
		Enabled:     true,
	}

	ff.features[FeatureStreakMessages] = &Feature{
		Name:        FeatureStreakMessages,
		Description: "Motivational messages tied to streak length",
		Enabled:     true,
	}

	ff.features[FeatureChallenges] = &Feature{
		Name:        FeatureChallenges,
		Description: "Daily and weekly study challenges",
		Enabled:     true,
	}

	ff.features[FeatureChallengeRefresh] = &Feature{
		Name:        FeatureChallengeRefresh,
		Description: "Re-evaluate challenge progress at the day boundary",
		Enabled:     true,
	}

	ff.features[FeatureAchievements] = &Feature{
		Name:        FeatureAchievements,
		Description: "Achievements derived from streaks and sessions",
		Enabled:     true,
	}

	// Wellbeing features
	ff.features[FeatureStressMonitor] = &Feature{
		Name:        FeatureStressMonitor,
		Description: "Daily stress level tracking and trend",
		Enabled:     true,
	}

	ff.features[FeatureBurnoutAlerts] = &Feature{
		Name:        FeatureBurnoutAlerts,
		Description: "Flag burnout risk from study and sleep hours",
		Enabled:     true,
	}

	// Analytics features
	ff.features[FeatureGoalAnalytics] = &Feature{
		Name:        FeatureGoalAnalytics,
		Description: "Daily goal completion analytics",
		Enabled:     true,
	}

	ff.features[FeaturePerformanceTrend] = &Feature{
		Name:        FeaturePerformanceTrend,
		Description: "Subject performance history snapshots",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_WELLBEING_BURNOUT_ALERTS=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "wellbeing.stress_monitor" -> "FEATURE_WELLBEING_STRESS_MONITOR"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	if !feature.Enabled {
		return false
	}

	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	return true
}

// EnableFeature enables a feature. Thread-safe for live updates.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// WellbeingEnabled checks if any wellbeing feature is enabled.
func (ff *FeatureFlags) WellbeingEnabled() bool {
	return ff.IsEnabled(FeatureStressMonitor) || ff.IsEnabled(FeatureBurnoutAlerts)
}

// ChallengesEnabled checks if challenge tracking is enabled.
func (ff *FeatureFlags) ChallengesEnabled() bool {
	return ff.IsEnabled(FeatureChallenges)
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
