// Package cascade implements the three-stage per-pixel decision: circle
// filter, rotation estimate, BRIEF-style binary filter.
package cascade

import (
	"github.com/cwbudde/patternmatch/internal/descriptor"
	"github.com/cwbudde/patternmatch/internal/queryindex"
	"github.com/cwbudde/patternmatch/internal/raster"
	"github.com/cwbudde/patternmatch/internal/scorer"
)

// Cascade acceptance thresholds.
const (
	CircleFilterThreshold = 0.95
	BriefFilterThreshold  = 0.25
)

// Result is an accepted match: which query scale matched, where, and the
// cascade's final-stage Hamming distance score.
type Result struct {
	ScaleIndex int
	X, Y       int
	Score      float64
}

// Matcher evaluates the cascade against a fixed query index and target
// raster. It holds no per-call mutable state, so a single Matcher can be
// shared read-only across the parallel sweep's worker goroutines.
type Matcher struct {
	Index  *queryindex.Index
	Target *raster.Raster
}

// New creates a Matcher for the given query index and target raster.
func New(idx *queryindex.Index, target *raster.Raster) *Matcher {
	return &Matcher{Index: idx, Target: target}
}

// Evaluate runs the three-stage cascade at center (x, y), returning the
// accepted Result and true, or the zero Result and false if any stage
// rejects.
func (m *Matcher) Evaluate(x, y int) (Result, bool) {
	bestScale, bestScore, bestSamples, ok := m.circleFilter(x, y)
	if !ok || bestScore <= CircleFilterThreshold {
		return Result{}, false
	}

	rotation := m.orientationEstimate(bestScale, bestSamples)

	hamming, ok := m.briefFilter(bestScale, rotation, x, y)
	if !ok || hamming >= BriefFilterThreshold {
		return Result{}, false
	}

	return Result{ScaleIndex: bestScale, X: x, Y: y, Score: hamming}, true
}

// circleFilter is stage 1: evaluate every QueryScale's CircleGroup at
// (x, y), reduce to a CircleDescriptor, score against the stored
// descriptor, and select the argmax. It also returns the raw per-circle
// samples of the winning scale (needed by stage 2) to avoid re-evaluating.
func (m *Matcher) circleFilter(x, y int) (bestScale int, bestScore float64, bestSamples [][]float64, ok bool) {
	bestScore = 0
	found := false

	for si, qs := range m.Index.Scales {
		targetDescriptor := make([]float64, len(qs.CircleGroup))
		samples := make([][]float64, len(qs.CircleGroup))

		fits := true
		for ci, ps := range qs.CircleGroup {
			raw, circleOK := descriptor.EvaluateCircleSamples(m.Target, ps, x, y)
			if !circleOK {
				fits = false
				break
			}
			samples[ci] = raw
			var sum float64
			for _, v := range raw {
				sum += v
			}
			targetDescriptor[ci] = sum
		}
		if !fits {
			continue
		}

		score := scorer.NormalizedCorrelation(targetDescriptor, qs.CircleDescriptor)
		if !found || score > bestScore {
			bestScore = score
			bestScale = si
			bestSamples = samples
			found = true
		}
	}

	return bestScale, bestScore, bestSamples, found
}

// orientationEstimate is stage 2: compute the target's per-circle
// intensity descriptor from the raw samples recorded in stage 1, then
// derive the probable rotation index against the winning scale's stored
// intensity descriptor.
func (m *Matcher) orientationEstimate(scaleIndex int, samples [][]float64) int {
	qs := m.Index.Scales[scaleIndex]
	targetIntensity := make([]float64, len(samples))
	for i, raw := range samples {
		targetIntensity[i] = scorer.IntensityReducer(raw)
	}
	return scorer.ProbableRotation(targetIntensity, qs.IntensityDescriptor)
}

// briefFilter is stage 3: evaluate the BriefGroup's point-set at the
// chosen rotation index against the target raster, and compute the
// Hamming distance to the stored query descriptor at the same
// (scale, rotation).
func (m *Matcher) briefFilter(scaleIndex, rotation, x, y int) (float64, bool) {
	qs := m.Index.Scales[scaleIndex]
	ps := qs.BriefRotations[rotation]

	samples, ok := descriptor.EvaluateBrief(m.Target, ps, x, y)
	if !ok {
		return 0, false
	}

	return scorer.Hamming(samples, qs.BriefDescriptors[rotation]), true
}
