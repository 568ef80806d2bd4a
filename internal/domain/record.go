package domain

import (
	"time"
)

// Target selects which metric a model predicts. The remaining metrics become
// model input; the target itself is excluded from the feature set.
type Target string

const (
	TargetStress Target = "stress_level"
	TargetMood   Target = "mood_score"
)

// Base metric names, in canonical feature order.
const (
	MetricSleepHours        = "sleep_hours"
	MetricExerciseMinutes   = "exercise_minutes"
	MetricWorkHours         = "work_hours"
	MetricCaffeineIntake    = "caffeine_intake"
	MetricAlcoholIntake     = "alcohol_intake"
	MetricMeditationMinutes = "meditation_minutes"
	MetricMoodScore         = "mood_score"
	MetricEnergyLevel       = "energy_level"
)

// BaseMetrics is the canonical ordering of the 8 observed lifestyle metrics.
var BaseMetrics = []string{
	MetricSleepHours,
	MetricExerciseMinutes,
	MetricWorkHours,
	MetricCaffeineIntake,
	MetricAlcoholIntake,
	MetricMeditationMinutes,
	MetricMoodScore,
	MetricEnergyLevel,
}

// DefaultMetricValue returns the substitute used when a metric is absent
// from a record.
func DefaultMetricValue(metric string) float64 {
	switch metric {
	case MetricSleepHours:
		return 7.0
	case MetricWorkHours:
		return 8.0
	case MetricCaffeineIntake:
		return 1.0
	case MetricMoodScore, MetricEnergyLevel:
		return 5.0
	default:
		return 0.0
	}
}

// DailyRecord is one check-in per user per calendar date. Metric fields are
// pointers: nil means the user did not report the value, which is distinct
// from reporting zero.
type DailyRecord struct {
	UserID            string    `json:"user_id"`
	Date              time.Time `json:"date"`
	MoodScore         *float64  `json:"mood_score,omitempty"`
	StressLevel       *float64  `json:"stress_level,omitempty"`
	EnergyLevel       *float64  `json:"energy_level,omitempty"`
	SleepHours        *float64  `json:"sleep_hours,omitempty"`
	WorkHours         *float64  `json:"work_hours,omitempty"`
	ExerciseMinutes   *float64  `json:"exercise_minutes,omitempty"`
	MeditationMinutes *float64  `json:"meditation_minutes,omitempty"`
	CaffeineIntake    *float64  `json:"caffeine_intake,omitempty"`
	AlcoholIntake     *float64  `json:"alcohol_intake,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Symptoms          []string  `json:"symptoms,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Metric returns the named base metric with the per-metric default
// substituted when the value is absent.
func (r *DailyRecord) Metric(name string) float64 {
	var v *float64
	switch name {
	case MetricSleepHours:
		v = r.SleepHours
	case MetricExerciseMinutes:
		v = r.ExerciseMinutes
	case MetricWorkHours:
		v = r.WorkHours
	case MetricCaffeineIntake:
		v = r.CaffeineIntake
	case MetricAlcoholIntake:
		v = r.AlcoholIntake
	case MetricMeditationMinutes:
		v = r.MeditationMinutes
	case MetricMoodScore:
		v = r.MoodScore
	case MetricEnergyLevel:
		v = r.EnergyLevel
	}
	if v == nil {
		return DefaultMetricValue(name)
	}
	return *v
}

// SetMetric stores a value for the named base metric.
func (r *DailyRecord) SetMetric(name string, value float64) {
	v := value
	switch name {
	case MetricSleepHours:
		r.SleepHours = &v
	case MetricExerciseMinutes:
		r.ExerciseMinutes = &v
	case MetricWorkHours:
		r.WorkHours = &v
	case MetricCaffeineIntake:
		r.CaffeineIntake = &v
	case MetricAlcoholIntake:
		r.AlcoholIntake = &v
	case MetricMeditationMinutes:
		r.MeditationMinutes = &v
	case MetricMoodScore:
		r.MoodScore = &v
	case MetricEnergyLevel:
		r.EnergyLevel = &v
	}
}

// TargetValue returns the value of the target metric, or false when the
// record is unlabeled for that target.
func (r *DailyRecord) TargetValue(target Target) (float64, bool) {
	switch target {
	case TargetStress:
		if r.StressLevel == nil {
			return 0, false
		}
		return *r.StressLevel, true
	case TargetMood:
		if r.MoodScore == nil {
			return 0, false
		}
		return *r.MoodScore, true
	}
	return 0, false
}

// Snapshot summarizes a user's current and recent state for intervention
// scoring. It is built by the caller from recent records and never persisted.
type Snapshot struct {
	CurrentStress float64 `json:"current_stress"`
	CurrentMood   float64 `json:"current_mood"`
	CurrentEnergy float64 `json:"current_energy"`
	AvgSleep      float64 `json:"avg_sleep"`
	AvgExercise   float64 `json:"avg_exercise"`
	AvgWorkHours  float64 `json:"avg_work_hours"`
}

// BuildSnapshot derives a Snapshot from records ordered oldest-first. The
// newest record supplies the current values; rolling averages cover the
// whole window. Defaults fill in whatever is missing.
func BuildSnapshot(records []DailyRecord) Snapshot {
	snap := Snapshot{
		CurrentStress: 5.0,
		CurrentMood:   DefaultMetricValue(MetricMoodScore),
		CurrentEnergy: DefaultMetricValue(MetricEnergyLevel),
		AvgSleep:      DefaultMetricValue(MetricSleepHours),
		AvgExercise:   DefaultMetricValue(MetricExerciseMinutes),
		AvgWorkHours:  DefaultMetricValue(MetricWorkHours),
	}
	if len(records) == 0 {
		return snap
	}

	latest := records[len(records)-1]
	if latest.StressLevel != nil {
		snap.CurrentStress = *latest.StressLevel
	}
	snap.CurrentMood = latest.Metric(MetricMoodScore)
	snap.CurrentEnergy = latest.Metric(MetricEnergyLevel)

	var sleep, exercise, work float64
	for i := range records {
		sleep += records[i].Metric(MetricSleepHours)
		exercise += records[i].Metric(MetricExerciseMinutes)
		work += records[i].Metric(MetricWorkHours)
	}
	n := float64(len(records))
	snap.AvgSleep = sleep / n
	snap.AvgExercise = exercise / n
	snap.AvgWorkHours = work / n
	return snap
}

// FactorWeight pairs a feature name with its trained importance weight.
type FactorWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}
