package domain

import (
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

func TestMetricDefaultsWhenAbsent(t *testing.T) {
	rec := &DailyRecord{}

	cases := []struct {
		metric string
		want   float64
	}{
		{MetricSleepHours, 7.0},
		{MetricExerciseMinutes, 0.0},
		{MetricWorkHours, 8.0},
		{MetricCaffeineIntake, 1.0},
		{MetricAlcoholIntake, 0.0},
		{MetricMeditationMinutes, 0.0},
		{MetricMoodScore, 5.0},
		{MetricEnergyLevel, 5.0},
	}
	for _, tc := range cases {
		if got := rec.Metric(tc.metric); got != tc.want {
			t.Errorf("Metric(%s) = %v, want default %v", tc.metric, got, tc.want)
		}
	}
}

func TestMetricReportedZeroBeatsDefault(t *testing.T) {
	rec := &DailyRecord{SleepHours: f(0)}
	if got := rec.Metric(MetricSleepHours); got != 0 {
		t.Fatalf("explicit zero should not be replaced by default, got %v", got)
	}
}

func TestSetMetricRoundTrip(t *testing.T) {
	rec := &DailyRecord{}
	for _, m := range BaseMetrics {
		rec.SetMetric(m, 2.5)
		if got := rec.Metric(m); got != 2.5 {
			t.Errorf("Metric(%s) after SetMetric = %v, want 2.5", m, got)
		}
	}
}

func TestTargetValue(t *testing.T) {
	rec := &DailyRecord{StressLevel: f(6)}

	if v, ok := rec.TargetValue(TargetStress); !ok || v != 6 {
		t.Fatalf("TargetValue(stress) = %v, %v; want 6, true", v, ok)
	}
	if _, ok := rec.TargetValue(TargetMood); ok {
		t.Fatal("expected unlabeled mood target to report false")
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil)

	if snap.CurrentStress != 5.0 {
		t.Errorf("CurrentStress = %v, want neutral 5.0", snap.CurrentStress)
	}
	if snap.AvgSleep != 7.0 {
		t.Errorf("AvgSleep = %v, want default 7.0", snap.AvgSleep)
	}
	if snap.AvgWorkHours != 8.0 {
		t.Errorf("AvgWorkHours = %v, want default 8.0", snap.AvgWorkHours)
	}
}

func TestBuildSnapshot(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []DailyRecord{
		{Date: day, StressLevel: f(4), SleepHours: f(6), ExerciseMinutes: f(20), WorkHours: f(9)},
		{Date: day.AddDate(0, 0, 1), StressLevel: f(8), MoodScore: f(3), EnergyLevel: f(2), SleepHours: f(5), ExerciseMinutes: f(40), WorkHours: f(11)},
	}

	snap := BuildSnapshot(records)

	if snap.CurrentStress != 8 {
		t.Errorf("CurrentStress = %v, want latest record's 8", snap.CurrentStress)
	}
	if snap.CurrentMood != 3 || snap.CurrentEnergy != 2 {
		t.Errorf("current mood/energy = %v/%v, want 3/2", snap.CurrentMood, snap.CurrentEnergy)
	}
	if snap.AvgSleep != 5.5 {
		t.Errorf("AvgSleep = %v, want 5.5", snap.AvgSleep)
	}
	if snap.AvgExercise != 30 {
		t.Errorf("AvgExercise = %v, want 30", snap.AvgExercise)
	}
	if snap.AvgWorkHours != 10 {
		t.Errorf("AvgWorkHours = %v, want 10", snap.AvgWorkHours)
	}
}
