package service

import (
	"testing"

	"github.com/lumohealth/lumo/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestFeatureNamesStressTarget(t *testing.T) {
	e := NewFeatureEngineer(domain.TargetStress)

	names := e.FeatureNames()
	if len(names) != 14 {
		t.Fatalf("stress model has %d features, want 14", len(names))
	}
	for _, n := range names {
		if n == string(domain.TargetStress) {
			t.Fatal("target metric leaked into the feature set")
		}
	}
	if names[len(names)-1] != FeatureMoodEnergyInteraction {
		t.Errorf("last feature = %q, want %q", names[len(names)-1], FeatureMoodEnergyInteraction)
	}
}

func TestFeatureNamesMoodTarget(t *testing.T) {
	e := NewFeatureEngineer(domain.TargetMood)

	names := e.FeatureNames()
	if len(names) != 12 {
		t.Fatalf("mood model has %d features, want 12", len(names))
	}
	for _, n := range names {
		if n == string(domain.TargetMood) || n == FeatureMoodEnergyInteraction {
			t.Fatalf("mood model must not include %q", n)
		}
	}
}

func TestVectorMatchesFeatureNames(t *testing.T) {
	for _, target := range []domain.Target{domain.TargetStress, domain.TargetMood} {
		e := NewFeatureEngineer(target)
		vec := e.Vector(&domain.DailyRecord{})
		if len(vec) != len(e.FeatureNames()) {
			t.Fatalf("target %s: vector length %d != names length %d",
				target, len(vec), len(e.FeatureNames()))
		}
	}
}

func TestVectorDerivedIndicators(t *testing.T) {
	e := NewFeatureEngineer(domain.TargetStress)
	names := e.FeatureNames()
	at := func(vec []float64, name string) float64 {
		for i, n := range names {
			if n == name {
				return vec[i]
			}
		}
		t.Fatalf("feature %q not found", name)
		return 0
	}

	rec := &domain.DailyRecord{
		SleepHours:        f(8),
		ExerciseMinutes:   f(45),
		WorkHours:         f(10),
		CaffeineIntake:    f(4),
		MeditationMinutes: f(15),
		MoodScore:         f(6),
		EnergyLevel:       f(5),
	}
	vec := e.Vector(rec)

	if at(vec, FeatureSleepQuality) != 1 {
		t.Error("8h sleep should flag sleep_quality")
	}
	if at(vec, FeatureExerciseSufficient) != 1 {
		t.Error("45min exercise should flag exercise_sufficient")
	}
	if at(vec, FeatureWorkLifeBalance) != 0 {
		t.Error("10h work should not flag work_life_balance")
	}
	if at(vec, FeatureHighCaffeine) != 1 {
		t.Error("4 cups should flag high_caffeine")
	}
	if at(vec, FeatureMeditationPractice) != 1 {
		t.Error("any meditation should flag meditation_practice")
	}
	if got := at(vec, FeatureMoodEnergyInteraction); got != 3.0 {
		t.Errorf("mood-energy interaction = %v, want 6*5/10 = 3", got)
	}
}

func TestVectorUsesDefaultsForSparseRecord(t *testing.T) {
	e := NewFeatureEngineer(domain.TargetStress)
	vec := e.Vector(&domain.DailyRecord{})

	// sleep_hours defaults to 7, which is inside the quality band.
	if vec[0] != 7 {
		t.Errorf("sleep default = %v, want 7", vec[0])
	}
	names := e.FeatureNames()
	for i, n := range names {
		if n == FeatureSleepQuality && vec[i] != 1 {
			t.Error("default sleep should flag sleep_quality")
		}
		if n == FeatureWorkLifeBalance && vec[i] != 1 {
			t.Error("default work hours should flag work_life_balance")
		}
	}
}
