package ml

import "sort"

// TreeNode is one node of a fitted regression tree. Leaves have nil children
// and carry the mean target of their training samples.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Value     float64   `json:"value"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

func (n *TreeNode) leaf() bool { return n.Left == nil && n.Right == nil }

// TreeParams bound tree growth.
type TreeParams struct {
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// RegressionTree is a CART tree minimizing squared error.
type RegressionTree struct {
	Root   *TreeNode  `json:"root"`
	Params TreeParams `json:"params"`
}

// FitTree grows a regression tree on x/y. When importances is non-nil it
// accumulates the total squared-error reduction contributed by each feature.
func FitTree(x [][]float64, y []float64, p TreeParams, importances []float64) *RegressionTree {
	t := &RegressionTree{Params: p}
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.grow(x, y, idx, 0, importances)
	return t
}

// Predict walks the tree for one feature vector.
func (t *RegressionTree) Predict(x []float64) float64 {
	n := t.Root
	for !n.leaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (t *RegressionTree) grow(x [][]float64, y []float64, idx []int, depth int, importances []float64) *TreeNode {
	node := &TreeNode{Value: meanAt(y, idx)}

	if depth >= t.Params.MaxDepth || len(idx) < t.Params.MinSamplesSplit {
		return node
	}
	if sseAt(y, idx) == 0 {
		return node
	}

	feature, threshold, gain, ok := t.bestSplit(x, y, idx)
	if !ok {
		return node
	}
	if importances != nil {
		importances[feature] += gain
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(x, y, left, depth+1, importances)
	node.Right = t.grow(x, y, right, depth+1, importances)
	return node
}

// bestSplit scans every feature for the split that most reduces the node's
// squared error, using sorted prefix sums per feature.
func (t *RegressionTree) bestSplit(x [][]float64, y []float64, idx []int) (feature int, threshold, gain float64, ok bool) {
	n := len(idx)
	if n < 2 {
		return 0, 0, 0, false
	}

	parentSSE := sseAt(y, idx)
	minLeaf := t.Params.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	order := make([]int, n)
	bestGain := 0.0
	cols := len(x[idx[0]])

	for f := 0; f < cols; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var leftSum, leftSq float64
		totalSum, totalSq := sumsAt(y, idx)

		for k := 0; k < n-1; k++ {
			yi := y[order[k]]
			leftSum += yi
			leftSq += yi * yi

			// No valid threshold between equal feature values.
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			nl, nr := k+1, n-k-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sseL := leftSq - leftSum*leftSum/float64(nl)
			sseR := rightSq - rightSum*rightSum/float64(nr)
			g := parentSSE - sseL - sseR
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = (x[order[k]][f] + x[order[k+1]][f]) / 2
				ok = true
			}
		}
	}
	return feature, threshold, bestGain, ok
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sumsAt(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

func sseAt(y []float64, idx []int) float64 {
	sum, sq := sumsAt(y, idx)
	n := float64(len(idx))
	if n == 0 {
		return 0
	}
	sse := sq - sum*sum/n
	if sse < 0 {
		return 0
	}
	return sse
}
