package cascade

import (
	"testing"

	"github.com/cwbudde/patternmatch/internal/queryindex"
	"github.com/cwbudde/patternmatch/internal/raster"
)

func checkerboard(size int) *raster.Raster {
	r := raster.New(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := float32(0)
			if (x/4+y/4)%2 == 0 {
				v = 255
			}
			r.Set(x, y, v)
		}
	}
	return r
}

func TestEvaluateAcceptsQueryAtItsOwnCenter(t *testing.T) {
	pattern := checkerboard(64)
	idx, err := queryindex.Build([]queryindex.LoadedQuery{{Raster: pattern}}, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	target := checkerboard(200)
	m := New(idx, target)

	cx, cy := target.Width()/2, target.Height()/2
	if _, ok := m.Evaluate(cx, cy); !ok {
		t.Error("expected cascade to accept the query pattern at a matching location")
	}
}

func TestEvaluateRejectsOutOfBounds(t *testing.T) {
	pattern := checkerboard(64)
	idx, err := queryindex.Build([]queryindex.LoadedQuery{{Raster: pattern}}, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	target := checkerboard(200)
	m := New(idx, target)

	if _, ok := m.Evaluate(1, 1); ok {
		t.Error("expected cascade to reject a center too close to the target edge")
	}
}

func TestCircleFilterSelectsBestFittingScale(t *testing.T) {
	pattern := checkerboard(64)
	idx, err := queryindex.Build([]queryindex.LoadedQuery{{Raster: pattern}}, 1.5, 1.0)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	target := checkerboard(200)
	m := New(idx, target)

	cx, cy := target.Width()/2, target.Height()/2
	scale, score, samples, ok := m.circleFilter(cx, cy)
	if !ok {
		t.Fatal("expected circleFilter to find a fitting scale")
	}
	if scale < 0 || scale >= len(idx.Scales) {
		t.Errorf("circleFilter scale %d out of range", scale)
	}
	if score <= 0 {
		t.Errorf("circleFilter score = %v, want > 0 for a matching pattern", score)
	}
	if len(samples) == 0 {
		t.Error("circleFilter returned no samples")
	}
}
