package scorer

import (
	"math"
	"testing"
)

func TestNormalizedCorrelationSelfIsOne(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	got := NormalizedCorrelation(x, x)
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("NormalizedCorrelation(x, x) = %v, want 1", got)
	}
}

func TestNormalizedCorrelationConstantVectorGated(t *testing.T) {
	x := []float64{5, 5, 5, 5}
	y := []float64{1, 2, 3, 4}
	if got := NormalizedCorrelation(x, y); got != 0 {
		t.Errorf("NormalizedCorrelation with zero-variance x = %v, want 0 (degenerate gate)", got)
	}
}

func TestNormalizedCorrelationMismatchedLength(t *testing.T) {
	if got := NormalizedCorrelation([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Errorf("NormalizedCorrelation with mismatched lengths = %v, want 0", got)
	}
}

func TestHammingSelfIsZero(t *testing.T) {
	d := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	if got := Hamming(d, d); got != 0 {
		t.Errorf("Hamming(d, d) = %v, want 0", got)
	}
}

func TestHammingOppositeSigns(t *testing.T) {
	// d1: first half > second half everywhere; d2: the reverse.
	d1 := []float64{5, 5, 5, 1, 1, 1}
	d2 := []float64{1, 1, 1, 5, 5, 5}
	if got := Hamming(d1, d2); got != 1 {
		t.Errorf("Hamming on fully-opposed signs = %v, want 1", got)
	}
}

func TestHammingOddLengthRejected(t *testing.T) {
	if got := Hamming([]float64{1, 2, 3}, []float64{1, 2, 3}); got != 1 {
		t.Errorf("Hamming with odd length = %v, want 1 (reject)", got)
	}
}

func TestIntensityReducerPicksPeakWindow(t *testing.T) {
	v := make([]float64, 16)
	for i := 2; i < 6; i++ {
		v[i] = 10
	}
	pos := IntensityReducer(v)
	if pos < 0 || pos >= 1 {
		t.Fatalf("IntensityReducer returned out-of-range position %v", pos)
	}
	// Window width is 16/8 = 2; the first window fully inside the peak
	// starts at index 2.
	if want := 2.0 / 16; pos != want {
		t.Errorf("IntensityReducer = %v, want %v", pos, want)
	}
}

func TestProbableRotationIdenticalDescriptorsIsZero(t *testing.T) {
	v := []float64{0.1, 0.2, 0.3}
	if got := ProbableRotation(v, v); got != 0 {
		t.Errorf("ProbableRotation(v, v) = %v, want 0", got)
	}
}

func TestProbableRotationWraps(t *testing.T) {
	target := []float64{1.0}
	query := []float64{0.0}
	got := ProbableRotation(target, query)
	if got < 0 || got >= DirectionNumber {
		t.Errorf("ProbableRotation result %d out of range [0,%d)", got, DirectionNumber)
	}
}
