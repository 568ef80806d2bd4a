package service

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/lumohealth/lumo/internal/domain"
	"github.com/lumohealth/lumo/internal/ml"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinTrainingRecords is the minimum number of labeled rows a model
	// can be fit on.
	MinTrainingRecords = 3
	// MinTargetStdDev gates training on target variance. A near-constant
	// target cannot support a meaningful regressor and must not silently
	// produce a trivial model.
	MinTargetStdDev = 0.5
	// ForestMinRecords is the dataset size at which the bagged forest
	// replaces the boosted ensemble. More rows buy enough variance
	// reduction to justify the larger model; below it the shallow boosted
	// ensemble overfits less.
	ForestMinRecords = 10
	// EvalMinRecords is the dataset size at which a held-out split is
	// evaluated for logging. The deployed model is always fit on the full
	// dataset regardless.
	EvalMinRecords   = 6
	evalTestFraction = 0.3

	trainSeed = 42
)

var (
	ErrInsufficientData     = errors.New("insufficient labeled records for training")
	ErrInsufficientVariance = errors.New("insufficient variance in target metric")
)

// Trainer fits a fresh model bundle from a user's history. Every call is a
// full retrain; the returned bundle replaces any prior one wholesale.
type Trainer struct {
	engineer *FeatureEngineer
	logger   *zap.Logger
	seed     int64
}

func NewTrainer(engineer *FeatureEngineer, logger *zap.Logger) *Trainer {
	return &Trainer{
		engineer: engineer,
		logger:   logger,
		seed:     trainSeed,
	}
}

// Train fits a model on the labeled subset of records. It fails with
// ErrInsufficientData or ErrInsufficientVariance when the history cannot
// support a model; callers must leave the predictor untrained in that case.
func (t *Trainer) Train(records []domain.DailyRecord, target domain.Target) (*ml.Bundle, error) {
	var (
		x [][]float64
		y []float64
	)
	for i := range records {
		label, ok := records[i].TargetValue(target)
		if !ok {
			continue
		}
		x = append(x, t.engineer.Vector(&records[i]))
		y = append(y, label)
	}

	if len(y) < MinTrainingRecords {
		t.logger.Warn("not enough labeled records to train",
			zap.Int("labeled", len(y)),
			zap.String("target", string(target)))
		return nil, ErrInsufficientData
	}

	if sd := stat.PopStdDev(y, nil); sd < MinTargetStdDev {
		t.logger.Warn("target variance below training threshold",
			zap.Float64("stddev", sd),
			zap.String("target", string(target)))
		return nil, ErrInsufficientVariance
	}

	scaler := ml.FitScaler(x)
	xs := scaler.TransformMatrix(x)

	var model ml.Regressor
	var family string
	if len(y) >= ForestMinRecords {
		family = ml.KindRandomForest
		model = ml.FitRandomForest(xs, y, ml.ForestParams{
			Trees:           50,
			MaxDepth:        5,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
		}, rand.New(rand.NewSource(t.seed)))
	} else {
		family = ml.KindGradientBoosting
		model = ml.FitGradientBoosting(xs, y, ml.BoostingParams{
			Trees:           20,
			MaxDepth:        3,
			LearningRate:    0.1,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
		})
	}

	names := t.engineer.FeatureNames()
	importance := make(map[string]float64, len(names))
	for i, w := range model.FeatureImportances() {
		importance[names[i]] = w
	}

	if len(y) >= EvalMinRecords {
		mse, r2 := t.evaluate(model, xs, y)
		t.logger.Info("model trained",
			zap.String("family", family),
			zap.Int("records", len(y)),
			zap.Float64("mse", mse),
			zap.Float64("r2", r2))
	} else {
		t.logger.Info("model trained without validation split",
			zap.String("family", family),
			zap.Int("records", len(y)))
	}

	return &ml.Bundle{
		Model:        model,
		Scaler:       scaler,
		FeatureNames: names,
		Importance:   importance,
		Target:       string(target),
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// evaluate scores the fitted model on a seeded held-out subset. The split
// exists only for logging; it never changes the deployed model.
func (t *Trainer) evaluate(model ml.Regressor, x [][]float64, y []float64) (mse, r2 float64) {
	rng := rand.New(rand.NewSource(t.seed))
	idx := rng.Perm(len(y))

	testN := int(math.Round(evalTestFraction * float64(len(y))))
	if testN < 1 {
		testN = 1
	}

	pred := make([]float64, 0, testN)
	actual := make([]float64, 0, testN)
	for _, i := range idx[:testN] {
		pred = append(pred, model.Predict(x[i]))
		actual = append(actual, y[i])
	}

	sq := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - pred[i]
		sq[i] = d * d
	}
	mse = stat.Mean(sq, nil)

	// A degenerate split with constant targets has no variance to explain.
	if stat.PopVariance(actual, nil) == 0 {
		return mse, 0
	}
	return mse, stat.RSquaredFrom(pred, actual, nil)
}
