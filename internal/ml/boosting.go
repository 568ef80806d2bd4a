package ml

// BoostingParams configure a gradient-boosted ensemble.
type BoostingParams struct {
	Trees           int     `json:"trees"`
	MaxDepth        int     `json:"max_depth"`
	LearningRate    float64 `json:"learning_rate"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
}

// GradientBoosting fits shallow trees sequentially on the residuals of the
// running prediction. Shallow stages generalize better than a deep bagged
// ensemble when training rows are scarce.
type GradientBoosting struct {
	Base         float64           `json:"base"`
	LearningRate float64           `json:"learning_rate"`
	Trees        []*RegressionTree `json:"trees"`
	Importances  []float64         `json:"importances"`
}

// FitGradientBoosting fits the ensemble. Training is deterministic: the
// initial prediction is the target mean and every stage fits the full
// residual vector.
func FitGradientBoosting(x [][]float64, y []float64, p BoostingParams) *GradientBoosting {
	n := len(y)
	g := &GradientBoosting{
		LearningRate: p.LearningRate,
		Trees:        make([]*RegressionTree, 0, p.Trees),
		Importances:  make([]float64, featureCount(x)),
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	if n > 0 {
		g.Base = sum / float64(n)
	}

	tp := TreeParams{MaxDepth: p.MaxDepth, MinSamplesSplit: p.MinSamplesSplit, MinSamplesLeaf: p.MinSamplesLeaf}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.Base
	}
	residual := make([]float64, n)

	for t := 0; t < p.Trees; t++ {
		for i := 0; i < n; i++ {
			residual[i] = y[i] - pred[i]
		}
		tree := FitTree(x, residual, tp, g.Importances)
		g.Trees = append(g.Trees, tree)
		for i := 0; i < n; i++ {
			pred[i] += g.LearningRate * tree.Predict(x[i])
		}
	}

	normalize(g.Importances)
	return g
}

// Predict sums the base prediction with every stage's scaled contribution.
func (g *GradientBoosting) Predict(x []float64) float64 {
	out := g.Base
	for _, t := range g.Trees {
		out += g.LearningRate * t.Predict(x)
	}
	return out
}

// FeatureImportances returns normalized per-feature importance weights.
func (g *GradientBoosting) FeatureImportances() []float64 {
	return g.Importances
}
