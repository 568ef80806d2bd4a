package ml

import (
	"math"
	"testing"
)

func TestFitScaler(t *testing.T) {
	x := [][]float64{
		{2, 10},
		{4, 10},
		{6, 10},
	}
	s := FitScaler(x)

	if s.Mean[0] != 4 {
		t.Errorf("Mean[0] = %v, want 4", s.Mean[0])
	}
	wantStd := math.Sqrt(8.0 / 3.0)
	if math.Abs(s.Std[0]-wantStd) > 1e-12 {
		t.Errorf("Std[0] = %v, want %v", s.Std[0], wantStd)
	}
	// Constant column keeps std 1 so transforms stay finite.
	if s.Std[1] != 1 {
		t.Errorf("constant column Std = %v, want 1", s.Std[1])
	}
}

func TestTransformCentersAndScales(t *testing.T) {
	x := [][]float64{{2, 10}, {4, 10}, {6, 10}}
	s := FitScaler(x)

	got := s.Transform([]float64{4, 10})
	if got[0] != 0 || got[1] != 0 {
		t.Fatalf("Transform(mean row) = %v, want zeros", got)
	}

	xs := s.TransformMatrix(x)
	var sum float64
	for i := range xs {
		sum += xs[i][0]
	}
	if math.Abs(sum) > 1e-12 {
		t.Fatalf("standardized column sums to %v, want 0", sum)
	}
}
