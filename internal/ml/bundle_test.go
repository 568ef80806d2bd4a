package ml

import (
	"math/rand"
	"testing"
)

func TestModelRoundTripPredictsIdentically(t *testing.T) {
	x, y := clusterData()
	probe := []float64{4.5, 0.7}

	models := []Regressor{
		FitRandomForest(x, y, ForestParams{Trees: 5, MaxDepth: 3, MinSamplesSplit: 2, MinSamplesLeaf: 1},
			rand.New(rand.NewSource(3))),
		FitGradientBoosting(x, y, BoostingParams{Trees: 5, MaxDepth: 2, LearningRate: 0.1, MinSamplesSplit: 2, MinSamplesLeaf: 1}),
	}

	for _, m := range models {
		data, err := MarshalModel(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		restored, err := UnmarshalModel(data)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if restored.Predict(probe) != m.Predict(probe) {
			t.Fatalf("%T round trip changed prediction", m)
		}
	}
}

func TestUnmarshalModelRejectsUnknownKind(t *testing.T) {
	if _, err := UnmarshalModel([]byte(`{"kind":"svm","model":{}}`)); err == nil {
		t.Fatal("expected error for unknown model kind")
	}
}
