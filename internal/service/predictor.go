package service

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/ml"
	"go.uber.org/zap"
)

const (
	// NeutralScore is returned whenever no usable prediction exists. The
	// caller always needs a value on the 1-10 scale to render.
	NeutralScore = 5.0

	// ScaleMin and ScaleMax bound every prediction. The underlying
	// regressor has no output-range constraint of its own.
	ScaleMin = 1.0
	ScaleMax = 10.0

	// forecastWindow is how many trailing records seed the forecast
	// baseline.
	forecastWindow = 7

	forecastJitter       = 0.10
	weekendWorkFactor    = 0.5
	weekendExerciseBoost = 1.2
)

// Predictor predicts a target metric from daily records. It starts
// untrained and enters the trained state only when handed a bundle; it
// never raises on prediction, degrading to NeutralScore instead.
type Predictor struct {
	engineer *FeatureEngineer
	logger   *zap.Logger
	bundle   *ml.Bundle
}

func NewPredictor(engineer *FeatureEngineer, logger *zap.Logger) *Predictor {
	return &Predictor{
		engineer: engineer,
		logger:   logger,
	}
}

// Trained reports whether a bundle is loaded.
func (p *Predictor) Trained() bool { return p.bundle != nil }

// SetBundle installs a trained bundle, replacing any prior one.
func (p *Predictor) SetBundle(b *ml.Bundle) { p.bundle = b }

// Bundle returns the installed bundle, nil when untrained.
func (p *Predictor) Bundle() *ml.Bundle { return p.bundle }

// Reset returns the predictor to the untrained state.
func (p *Predictor) Reset() { p.bundle = nil }

// Predict estimates the target metric for one record, clamped to [1,10]
// and rounded to one decimal. Untrained predictors and feature mismatches
// yield NeutralScore.
func (p *Predictor) Predict(rec *domain.DailyRecord) float64 {
	if p.bundle == nil {
		return NeutralScore
	}

	vec := p.engineer.Vector(rec)
	if len(vec) != len(p.bundle.FeatureNames) {
		p.logger.Warn("feature vector does not match trained model",
			zap.Int("vector_len", len(vec)),
			zap.Int("model_features", len(p.bundle.FeatureNames)))
		return NeutralScore
	}

	raw := p.bundle.Model.Predict(p.bundle.Scaler.Transform(vec))
	clamped := math.Max(ScaleMin, math.Min(ScaleMax, raw))
	return math.Round(clamped*10) / 10
}

// Forecast simulates the next `days` days from the recent history. The
// baseline is the mean of the trailing records; each simulated day gets a
// bounded multiplicative jitter from rng, and weekend days get less work
// and more exercise before prediction. Untrained predictors return the
// neutral default for every day.
func (p *Predictor) Forecast(history []domain.DailyRecord, days int, from time.Time, rng *rand.Rand) []float64 {
	out := make([]float64, 0, days)
	if p.bundle == nil || len(history) == 0 {
		for i := 0; i < days; i++ {
			out = append(out, NeutralScore)
		}
		return out
	}

	baseline := baselineRecord(history)

	for day := 0; day < days; day++ {
		variation := 1 + (rng.Float64()-0.5)*2*forecastJitter

		future := domain.DailyRecord{}
		for _, m := range domain.BaseMetrics {
			future.SetMetric(m, baseline.Metric(m))
		}

		date := from.AddDate(0, 0, day+1)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			future.SetMetric(domain.MetricWorkHours, future.Metric(domain.MetricWorkHours)*weekendWorkFactor)
			future.SetMetric(domain.MetricExerciseMinutes, future.Metric(domain.MetricExerciseMinutes)*weekendExerciseBoost)
		}

		for _, m := range domain.BaseMetrics {
			future.SetMetric(m, future.Metric(m)*variation)
		}

		out = append(out, p.Predict(&future))
	}
	return out
}

// Importance returns the trained importance mapping sorted descending by
// weight; empty when untrained.
func (p *Predictor) Importance() []domain.FactorWeight {
	if p.bundle == nil {
		return nil
	}
	out := make([]domain.FactorWeight, 0, len(p.bundle.Importance))
	for name, w := range p.bundle.Importance {
		out = append(out, domain.FactorWeight{Name: name, Weight: w})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Explain applies fixed threshold rules to one record, giving a qualitative
// per-factor readout that works whether or not a model is trained.
func (p *Predictor) Explain(rec *domain.DailyRecord) map[string]string {
	factors := make(map[string]string, 5)

	sleep := rec.Metric(domain.MetricSleepHours)
	switch {
	case sleep < 6:
		factors["sleep"] = "Severe sleep deprivation detected"
	case sleep < 7:
		factors["sleep"] = "Mild sleep deficit"
	case sleep > 9:
		factors["sleep"] = "Possible sleep quality issues"
	default:
		factors["sleep"] = "Good sleep duration"
	}

	work := rec.Metric(domain.MetricWorkHours)
	switch {
	case work > 10:
		factors["work"] = "Excessive work hours"
	case work > 8:
		factors["work"] = "Long work hours"
	default:
		factors["work"] = "Reasonable work hours"
	}

	exercise := rec.Metric(domain.MetricExerciseMinutes)
	switch {
	case exercise == 0:
		factors["exercise"] = "No physical activity"
	case exercise < 30:
		factors["exercise"] = "Low physical activity"
	default:
		factors["exercise"] = "Good exercise routine"
	}

	caffeine := rec.Metric(domain.MetricCaffeineIntake)
	switch {
	case caffeine > 4:
		factors["caffeine"] = "High caffeine consumption"
	case caffeine > 2:
		factors["caffeine"] = "Moderate caffeine intake"
	default:
		factors["caffeine"] = "Low caffeine intake"
	}

	if rec.Metric(domain.MetricMeditationMinutes) > 0 {
		factors["self_care"] = "Practicing mindfulness"
	} else {
		factors["self_care"] = "No mindfulness practice"
	}

	return factors
}

// baselineRecord averages the trailing forecastWindow records per metric.
func baselineRecord(history []domain.DailyRecord) *domain.DailyRecord {
	window := history
	if len(window) > forecastWindow {
		window = window[len(window)-forecastWindow:]
	}

	base := &domain.DailyRecord{}
	n := float64(len(window))
	for _, m := range domain.BaseMetrics {
		var sum float64
		for i := range window {
			sum += window[i].Metric(m)
		}
		base.SetMetric(m, sum/n)
	}
	return base
}
