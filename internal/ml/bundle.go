package ml

import (
	"encoding/json"
	"fmt"
	"time"
)

// Regressor is a fitted model. Both ensemble families implement it.
type Regressor interface {
	Predict(x []float64) float64
	FeatureImportances() []float64
}

// Model kinds, recorded in the serialized envelope so a persisted model can
// be reconstructed as the right concrete type.
const (
	KindRandomForest     = "random_forest"
	KindGradientBoosting = "gradient_boosting"
)

// Bundle is one user's trained model with everything prediction needs: the
// fitted regressor, the scaler fit on the same training matrix, the feature
// name order the model was trained with, and the importance mapping.
type Bundle struct {
	Model        Regressor
	Scaler       *Scaler
	FeatureNames []string
	Importance   map[string]float64
	Target       string
	TrainedAt    time.Time
}

type modelEnvelope struct {
	Kind  string          `json:"kind"`
	Model json.RawMessage `json:"model"`
}

// MarshalModel serializes a regressor with its kind tag.
func MarshalModel(m Regressor) ([]byte, error) {
	var kind string
	switch m.(type) {
	case *RandomForest:
		kind = KindRandomForest
	case *GradientBoosting:
		kind = KindGradientBoosting
	default:
		return nil, fmt.Errorf("unknown model type %T", m)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(modelEnvelope{Kind: kind, Model: raw})
}

// UnmarshalModel reconstructs a regressor from its serialized envelope.
func UnmarshalModel(data []byte) (Regressor, error) {
	var env modelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case KindRandomForest:
		var f RandomForest
		if err := json.Unmarshal(env.Model, &f); err != nil {
			return nil, err
		}
		return &f, nil
	case KindGradientBoosting:
		var g GradientBoosting
		if err := json.Unmarshal(env.Model, &g); err != nil {
			return nil, err
		}
		return &g, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", env.Kind)
	}
}
