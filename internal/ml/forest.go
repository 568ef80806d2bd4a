package ml

import "math/rand"

// ForestParams configure a bagged ensemble of regression trees.
type ForestParams struct {
	Trees           int `json:"trees"`
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// RandomForest averages independently grown trees, each fit on a bootstrap
// resample of the training rows. Lower variance than a single tree, at the
// cost of needing more data to be worth it.
type RandomForest struct {
	Trees       []*RegressionTree `json:"trees"`
	Importances []float64         `json:"importances"`
}

// FitRandomForest grows the ensemble. The rng drives bootstrap sampling and
// must be explicitly seeded by the caller for reproducible training.
func FitRandomForest(x [][]float64, y []float64, p ForestParams, rng *rand.Rand) *RandomForest {
	f := &RandomForest{
		Trees:       make([]*RegressionTree, 0, p.Trees),
		Importances: make([]float64, featureCount(x)),
	}
	tp := TreeParams{MaxDepth: p.MaxDepth, MinSamplesSplit: p.MinSamplesSplit, MinSamplesLeaf: p.MinSamplesLeaf}

	n := len(y)
	for t := 0; t < p.Trees; t++ {
		bx := make([][]float64, n)
		by := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bx[i] = x[j]
			by[i] = y[j]
		}
		f.Trees = append(f.Trees, FitTree(bx, by, tp, f.Importances))
	}

	normalize(f.Importances)
	return f
}

// Predict returns the mean prediction across all trees.
func (f *RandomForest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// FeatureImportances returns normalized per-feature importance weights.
func (f *RandomForest) FeatureImportances() []float64 {
	return f.Importances
}

func featureCount(x [][]float64) int {
	if len(x) == 0 {
		return 0
	}
	return len(x[0])
}

func normalize(w []float64) {
	var total float64
	for _, v := range w {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range w {
		w[i] /= total
	}
}
