package service

import (
	"github.com/lumohealth/lumo/internal/domain"
)

// Derived indicator names, in canonical order after the base metrics.
const (
	FeatureSleepQuality          = "sleep_quality"
	FeatureExerciseSufficient    = "exercise_sufficient"
	FeatureWorkLifeBalance       = "work_life_balance"
	FeatureHighCaffeine          = "high_caffeine"
	FeatureMeditationPractice    = "meditation_practice"
	FeatureMoodEnergyInteraction = "mood_energy_interaction"
)

// FeatureEngineer turns a daily record into the fixed-order numeric vector a
// model trains and predicts on. It is parameterized by the prediction target:
// the target metric is excluded from the feature set, and the mood target
// additionally drops the mood-energy interaction since mood is no longer an
// input.
type FeatureEngineer struct {
	target domain.Target
}

// NewFeatureEngineer builds an engineer for the given prediction target.
func NewFeatureEngineer(target domain.Target) *FeatureEngineer {
	return &FeatureEngineer{target: target}
}

// BaseFeatures returns the base metric names eligible as model input.
func (e *FeatureEngineer) BaseFeatures() []string {
	out := make([]string, 0, len(domain.BaseMetrics))
	for _, m := range domain.BaseMetrics {
		if m == string(e.target) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FeatureNames returns the full ordered feature-name list: base metrics
// followed by derived indicators. Vector output must match this order
// exactly; the trained model stores this list and prediction verifies
// against it.
func (e *FeatureEngineer) FeatureNames() []string {
	names := e.BaseFeatures()
	names = append(names,
		FeatureSleepQuality,
		FeatureExerciseSufficient,
		FeatureWorkLifeBalance,
		FeatureHighCaffeine,
		FeatureMeditationPractice,
	)
	if e.includeMoodEnergy() {
		names = append(names, FeatureMoodEnergyInteraction)
	}
	return names
}

// Vector builds the feature vector for one record. Absent metrics take
// their per-metric defaults, so the vector length is fixed regardless of
// how sparse the record is.
func (e *FeatureEngineer) Vector(rec *domain.DailyRecord) []float64 {
	base := e.BaseFeatures()
	out := make([]float64, 0, len(base)+6)
	for _, m := range base {
		out = append(out, rec.Metric(m))
	}

	sleep := rec.Metric(domain.MetricSleepHours)
	exercise := rec.Metric(domain.MetricExerciseMinutes)
	work := rec.Metric(domain.MetricWorkHours)
	caffeine := rec.Metric(domain.MetricCaffeineIntake)
	meditation := rec.Metric(domain.MetricMeditationMinutes)

	out = append(out, boolFeature(sleep >= 7 && sleep <= 9))
	out = append(out, boolFeature(exercise >= 30))
	out = append(out, boolFeature(work <= 8))
	out = append(out, boolFeature(caffeine > 3))
	out = append(out, boolFeature(meditation > 0))

	if e.includeMoodEnergy() {
		mood := rec.Metric(domain.MetricMoodScore)
		energy := rec.Metric(domain.MetricEnergyLevel)
		out = append(out, mood*energy/10.0)
	}
	return out
}

func (e *FeatureEngineer) includeMoodEnergy() bool {
	return e.target != domain.TargetMood
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
