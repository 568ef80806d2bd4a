package ml

import (
	"math"
	"math/rand"
	"testing"
)

func clusterData() ([][]float64, []float64) {
	x := [][]float64{
		{1, 0.2}, {1.1, 0.1}, {0.9, 0.3}, {1.2, 0.2}, {0.8, 0.1},
		{5, 0.9}, {5.2, 1.1}, {4.8, 0.8}, {5.1, 1.0}, {4.9, 0.9},
	}
	y := []float64{3, 3.2, 2.8, 3.1, 2.9, 8, 8.2, 7.8, 8.1, 7.9}
	return x, y
}

func TestRandomForestPredictsWithinTargetRange(t *testing.T) {
	x, y := clusterData()
	f := FitRandomForest(x, y, ForestParams{Trees: 25, MaxDepth: 4, MinSamplesSplit: 2, MinSamplesLeaf: 1},
		rand.New(rand.NewSource(1)))

	for _, xv := range x {
		p := f.Predict(xv)
		if p < 2.8 || p > 8.2 {
			t.Fatalf("prediction %v outside target range [2.8, 8.2]", p)
		}
	}

	low := f.Predict([]float64{1, 0.2})
	high := f.Predict([]float64{5, 1.0})
	if high-low < 3 {
		t.Errorf("cluster separation %v too small: low=%v high=%v", high-low, low, high)
	}
}

func TestRandomForestDeterministicGivenSeed(t *testing.T) {
	x, y := clusterData()
	p := ForestParams{Trees: 10, MaxDepth: 3, MinSamplesSplit: 2, MinSamplesLeaf: 1}

	a := FitRandomForest(x, y, p, rand.New(rand.NewSource(42)))
	b := FitRandomForest(x, y, p, rand.New(rand.NewSource(42)))

	probe := []float64{3, 0.5}
	if a.Predict(probe) != b.Predict(probe) {
		t.Fatal("same seed must produce identical forests")
	}
}

func TestRandomForestImportancesNormalized(t *testing.T) {
	x, y := clusterData()
	f := FitRandomForest(x, y, ForestParams{Trees: 10, MaxDepth: 3, MinSamplesSplit: 2, MinSamplesLeaf: 1},
		rand.New(rand.NewSource(7)))

	var total float64
	for _, w := range f.FeatureImportances() {
		if w < 0 {
			t.Fatalf("negative importance %v", w)
		}
		total += w
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("importances sum to %v, want 1", total)
	}
}

func TestGradientBoostingFitsResiduals(t *testing.T) {
	x, y := clusterData()
	g := FitGradientBoosting(x, y, BoostingParams{Trees: 20, MaxDepth: 3, LearningRate: 0.1, MinSamplesSplit: 2, MinSamplesLeaf: 1})

	// After 20 stages at lr 0.1 the residual to a separable target shrinks
	// by roughly 0.9^20; predictions should sit well inside each cluster.
	var sse float64
	for i := range y {
		d := y[i] - g.Predict(x[i])
		sse += d * d
	}
	mse := sse / float64(len(y))
	if mse > 0.5 {
		t.Fatalf("mse = %v, want under 0.5 on separable data", mse)
	}
}

func TestGradientBoostingDeterministic(t *testing.T) {
	x, y := clusterData()
	p := BoostingParams{Trees: 10, MaxDepth: 2, LearningRate: 0.1, MinSamplesSplit: 2, MinSamplesLeaf: 1}

	a := FitGradientBoosting(x, y, p)
	b := FitGradientBoosting(x, y, p)

	probe := []float64{2, 0.4}
	if a.Predict(probe) != b.Predict(probe) {
		t.Fatal("boosting must be deterministic")
	}
}
