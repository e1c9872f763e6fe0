// Package descriptor evaluates a geometry.PointSet against a raster at a
// given center, producing the fixed-length sample vectors the scorer
// package compares.
package descriptor

import (
	"github.com/cwbudde/patternmatch/internal/geometry"
	"github.com/cwbudde/patternmatch/internal/raster"
)

// Fits reports whether a point set with the given maximum radius can be
// evaluated at center (cx, cy) within a raster of the given dimensions:
// r < x, x+r < width, r < y, y+r < height.
func Fits(cx, cy, maxRadius, width, height int) bool {
	return maxRadius < cx && cx+maxRadius < width && maxRadius < cy && cy+maxRadius < height
}

// maxAbsCoord returns the largest |x| or |y| offset appearing in a point
// set, used as the effective radius for the fit-predicate guard of an
// arbitrary (not necessarily circular) point set such as a BRIEF group.
func maxAbsCoord(ps geometry.PointSet) int {
	m := 0
	for _, p := range ps {
		if a := abs(p.X); a > m {
			m = a
		}
		if a := abs(p.Y); a > m {
			m = a
		}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EvaluateCircleSum samples a circular point set at center (cx, cy) and
// returns the sum reduction (the CircleDescriptor scalar). The
// second return is false if the fit predicate fails for this point set.
func EvaluateCircleSum(r *raster.Raster, ps geometry.PointSet, cx, cy int) (float64, bool) {
	radius := maxAbsCoord(ps)
	if !Fits(cx, cy, radius, r.Width(), r.Height()) {
		return 0, false
	}
	var sum float64
	for _, p := range ps {
		sum += float64(r.At(cx+p.X, cy+p.Y))
	}
	return sum, true
}

// EvaluateCircleSamples samples a circular point set and returns the raw
// per-point samples (used by the intensity reducer), without
// reducing to a sum. Ordering matches the canonical polar-angle order of
// the point set.
func EvaluateCircleSamples(r *raster.Raster, ps geometry.PointSet, cx, cy int) ([]float64, bool) {
	radius := maxAbsCoord(ps)
	if !Fits(cx, cy, radius, r.Width(), r.Height()) {
		return nil, false
	}
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = float64(r.At(cx+p.X, cy+p.Y))
	}
	return out, true
}

// EvaluateBrief samples a BRIEF point set and returns the raw lookups
// (the BriefDescriptor — no reduction). The fit predicate is
// checked once using the largest offset present in the point set.
func EvaluateBrief(r *raster.Raster, ps geometry.PointSet, cx, cy int) ([]float64, bool) {
	radius := maxAbsCoord(ps)
	if !Fits(cx, cy, radius, r.Width(), r.Height()) {
		return nil, false
	}
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = float64(r.At(cx+p.X, cy+p.Y))
	}
	return out, true
}
