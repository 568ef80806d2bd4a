package service

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/ml"
)

// stubModel returns a fixed raw prediction regardless of input.
type stubModel struct{ out float64 }

func (s stubModel) Predict([]float64) float64     { return s.out }
func (s stubModel) FeatureImportances() []float64 { return nil }

// capturingModel records every feature vector it is asked to predict on.
type capturingModel struct{ inputs [][]float64 }

func (c *capturingModel) Predict(x []float64) float64 {
	c.inputs = append(c.inputs, append([]float64(nil), x...))
	return NeutralScore
}
func (c *capturingModel) FeatureImportances() []float64 { return nil }

func stubBundle(engineer *FeatureEngineer, out float64) *ml.Bundle {
	names := engineer.FeatureNames()
	scaler := &ml.Scaler{
		Mean: make([]float64, len(names)),
		Std:  make([]float64, len(names)),
	}
	for i := range scaler.Std {
		scaler.Std[i] = 1
	}
	return &ml.Bundle{
		Model:        stubModel{out: out},
		Scaler:       scaler,
		FeatureNames: names,
		Target:       string(domain.TargetStress),
	}
}

func TestPredictUntrainedReturnsNeutral(t *testing.T) {
	p := NewPredictor(NewFeatureEngineer(domain.TargetStress), testLogger())

	if got := p.Predict(&domain.DailyRecord{}); got != NeutralScore {
		t.Fatalf("untrained Predict = %v, want %v", got, NeutralScore)
	}
}

func TestPredictClampsAndRounds(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)

	cases := []struct {
		raw  float64
		want float64
	}{
		{42, 10},
		{-3, 1},
		{6.342, 6.3},
		{6.37, 6.4},
		{0.2, 1},
	}
	for _, tc := range cases {
		p := NewPredictor(engineer, testLogger())
		p.SetBundle(stubBundle(engineer, tc.raw))
		if got := p.Predict(&domain.DailyRecord{}); got != tc.want {
			t.Errorf("raw %v: Predict = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestPredictFeatureMismatchDegradesToNeutral(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)
	p := NewPredictor(engineer, testLogger())

	b := stubBundle(engineer, 9)
	b.FeatureNames = b.FeatureNames[:5]
	p.SetBundle(b)

	if got := p.Predict(&domain.DailyRecord{}); got != NeutralScore {
		t.Fatalf("mismatched Predict = %v, want neutral %v", got, NeutralScore)
	}
}

func TestForecastUntrained(t *testing.T) {
	p := NewPredictor(NewFeatureEngineer(domain.TargetStress), testLogger())

	got := p.Forecast(mixedHistory(8), 5, time.Now(), rand.New(rand.NewSource(1)))
	if len(got) != 5 {
		t.Fatalf("forecast length = %d, want 5", len(got))
	}
	for _, v := range got {
		if v != NeutralScore {
			t.Fatalf("untrained forecast value = %v, want neutral", v)
		}
	}
}

func TestForecastLengthAndRange(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)
	trainer := NewTrainer(engineer, testLogger())
	history := mixedHistory(12)

	bundle, err := trainer.Train(history, domain.TargetStress)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	p := NewPredictor(engineer, testLogger())
	p.SetBundle(bundle)

	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
	got := p.Forecast(history, 7, from, rand.New(rand.NewSource(1)))

	if len(got) != 7 {
		t.Fatalf("forecast length = %d, want 7", len(got))
	}
	for i, v := range got {
		if v < ScaleMin || v > ScaleMax {
			t.Fatalf("day %d forecast %v outside [%v, %v]", i, v, ScaleMin, ScaleMax)
		}
	}
}

func TestForecastWeekendReshaping(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)
	p := NewPredictor(engineer, testLogger())

	model := &capturingModel{}
	b := stubBundle(engineer, 0)
	b.Model = model
	p.SetBundle(b)

	// Constant history so the baseline is known exactly. The per-day jitter
	// scales work, sleep, and exercise by the same factor, so the ratios
	// against sleep isolate the weekend adjustments.
	history := make([]domain.DailyRecord, 7)
	for i := range history {
		history[i].SetMetric(domain.MetricSleepHours, 8)
		history[i].SetMetric(domain.MetricWorkHours, 8)
		history[i].SetMetric(domain.MetricExerciseMinutes, 40)
	}

	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
	p.Forecast(history, 7, from, rand.New(rand.NewSource(3)))

	if len(model.inputs) != 7 {
		t.Fatalf("model saw %d inputs, want 7", len(model.inputs))
	}

	names := engineer.FeatureNames()
	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("feature %q not found", name)
		return -1
	}
	sleepIdx := idx(domain.MetricSleepHours)
	workIdx := idx(domain.MetricWorkHours)
	exerciseIdx := idx(domain.MetricExerciseMinutes)

	for day, in := range model.inputs {
		wd := from.AddDate(0, 0, day+1).Weekday()
		weekend := wd == time.Saturday || wd == time.Sunday

		wantWork, wantExercise := 1.0, 5.0
		if weekend {
			wantWork, wantExercise = 0.5, 6.0
		}

		workRatio := in[workIdx] / in[sleepIdx]
		exerciseRatio := in[exerciseIdx] / in[sleepIdx]
		if math.Abs(workRatio-wantWork) > 1e-9 {
			t.Errorf("day %d (%v): work/sleep ratio = %v, want %v", day, wd, workRatio, wantWork)
		}
		if math.Abs(exerciseRatio-wantExercise) > 1e-9 {
			t.Errorf("day %d (%v): exercise/sleep ratio = %v, want %v", day, wd, exerciseRatio, wantExercise)
		}
	}
}

func TestForecastReproducibleWithSeed(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)
	trainer := NewTrainer(engineer, testLogger())
	history := mixedHistory(12)

	bundle, err := trainer.Train(history, domain.TargetStress)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	p := NewPredictor(engineer, testLogger())
	p.SetBundle(bundle)

	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	a := p.Forecast(history, 7, from, rand.New(rand.NewSource(9)))
	b := p.Forecast(history, 7, from, rand.New(rand.NewSource(9)))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d: %v != %v with identical seed", i, a[i], b[i])
		}
	}
}

func TestImportanceSortedDescending(t *testing.T) {
	engineer := NewFeatureEngineer(domain.TargetStress)
	p := NewPredictor(engineer, testLogger())

	if p.Importance() != nil {
		t.Fatal("untrained Importance should be nil")
	}

	b := stubBundle(engineer, 5)
	b.Importance = map[string]float64{"work_hours": 0.5, "sleep_hours": 0.3, "mood_score": 0.2}
	p.SetBundle(b)

	got := p.Importance()
	if len(got) != 3 {
		t.Fatalf("Importance length = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Weight > got[i-1].Weight {
			t.Fatalf("importance not sorted descending: %v", got)
		}
	}
	if got[0].Name != "work_hours" {
		t.Errorf("top factor = %q, want work_hours", got[0].Name)
	}
}

func TestExplainThresholds(t *testing.T) {
	p := NewPredictor(NewFeatureEngineer(domain.TargetStress), testLogger())

	rec := &domain.DailyRecord{
		SleepHours:      f(5),
		WorkHours:       f(11),
		ExerciseMinutes: f(0),
		CaffeineIntake:  f(5),
	}
	factors := p.Explain(rec)

	want := map[string]string{
		"sleep":     "Severe sleep deprivation detected",
		"work":      "Excessive work hours",
		"exercise":  "No physical activity",
		"caffeine":  "High caffeine consumption",
		"self_care": "No mindfulness practice",
	}
	for k, v := range want {
		if factors[k] != v {
			t.Errorf("factors[%q] = %q, want %q", k, factors[k], v)
		}
	}
}

func TestExplainDefaults(t *testing.T) {
	p := NewPredictor(NewFeatureEngineer(domain.TargetStress), testLogger())

	factors := p.Explain(&domain.DailyRecord{})
	if factors["sleep"] != "Good sleep duration" {
		t.Errorf("sleep = %q, want Good sleep duration", factors["sleep"])
	}
	if factors["work"] != "Reasonable work hours" {
		t.Errorf("work = %q, want Reasonable work hours", factors["work"])
	}
}
