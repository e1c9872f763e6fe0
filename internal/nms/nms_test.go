package nms

import (
	"testing"

	"github.com/cwbudde/patternmatch/internal/cascade"
)

func fixedDims(w, h int) Dims {
	return func(scaleIndex int) (int, int) { return w, h }
}

func TestSuppressNonOverlappingKeepsBoth(t *testing.T) {
	candidates := []cascade.Result{
		{ScaleIndex: 0, X: 0, Y: 0, Score: 0.1},
		{ScaleIndex: 0, X: 100, Y: 100, Score: 0.1},
	}
	out := Suppress(candidates, fixedDims(10, 10))
	if len(out) != 2 {
		t.Fatalf("Suppress returned %d results, want 2", len(out))
	}
}

func TestSuppressOverlappingMerges(t *testing.T) {
	candidates := []cascade.Result{
		{ScaleIndex: 0, X: 10, Y: 10, Score: 0.1},
		{ScaleIndex: 0, X: 11, Y: 11, Score: 0.2},
	}
	out := Suppress(candidates, fixedDims(20, 20))
	if len(out) != 1 {
		t.Fatalf("Suppress returned %d results, want 1", len(out))
	}
}

func TestSuppressReplacesWhenExistingScoreHigher(t *testing.T) {
	candidates := []cascade.Result{
		{ScaleIndex: 0, X: 10, Y: 10, Score: 0.5},
		{ScaleIndex: 1, X: 11, Y: 11, Score: 0.1},
	}
	out := Suppress(candidates, fixedDims(20, 20))
	if len(out) != 1 {
		t.Fatalf("Suppress returned %d results, want 1", len(out))
	}
	if out[0].ScaleIndex != 1 {
		t.Errorf("Suppress kept scale %d, want the second candidate (scale 1) since first's score was higher", out[0].ScaleIndex)
	}
}

func TestSuppressKeepsExistingWhenCandidateScoreHigher(t *testing.T) {
	candidates := []cascade.Result{
		{ScaleIndex: 0, X: 10, Y: 10, Score: 0.1},
		{ScaleIndex: 1, X: 11, Y: 11, Score: 0.5},
	}
	out := Suppress(candidates, fixedDims(20, 20))
	if len(out) != 1 {
		t.Fatalf("Suppress returned %d results, want 1", len(out))
	}
	if out[0].ScaleIndex != 0 {
		t.Errorf("Suppress kept scale %d, want the first candidate (scale 0) retained", out[0].ScaleIndex)
	}
}

func TestSuppressSortsByScaleIndex(t *testing.T) {
	candidates := []cascade.Result{
		{ScaleIndex: 3, X: 0, Y: 0, Score: 0.1},
		{ScaleIndex: 1, X: 1000, Y: 1000, Score: 0.1},
	}
	out := Suppress(candidates, fixedDims(5, 5))
	if len(out) != 2 {
		t.Fatalf("Suppress returned %d results, want 2", len(out))
	}
	if out[0].ScaleIndex != 1 || out[1].ScaleIndex != 3 {
		t.Errorf("Suppress output not sorted by ScaleIndex: %+v", out)
	}
}
