// Package scorer implements the normalized-correlation and Hamming-distance
// scorers, plus the intensity reducer used to estimate a candidate's
// in-plane rotation.
package scorer

import (
	"math"

	"github.com/cwbudde/patternmatch/internal/linalg"
)

const (
	// BetaThreshold gates degenerate linear fits in NormalizedCorrelation.
	BetaThreshold = 0.1
	// GammaThreshold gates large intercepts in NormalizedCorrelation.
	GammaThreshold = 1.0
	// KernelSize divides a circle's point count to get the intensity
	// reducer's sliding-window width.
	KernelSize = 8
	// DirectionNumber is the number of BRIEF rotation variants.
	DirectionNumber = 36
)

// NormalizedCorrelation computes the gated normalized-correlation score
// between two equal-length descriptors. Returns 0 if the
// degenerate-fit gate rejects the pair (NumericReject).
func NormalizedCorrelation(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	muX := mean(x)
	muY := mean(y)

	xp := make([]float64, n)
	yp := make([]float64, n)
	for i := 0; i < n; i++ {
		xp[i] = x[i] - muX
		yp[i] = y[i] - muY
	}

	s := linalg.Dot(xp, xp)
	if s == 0 {
		return 0
	}
	beta := linalg.Dot(xp, yp) / s
	gamma := muY - beta*muX

	absBeta := beta
	if absBeta < 0 {
		absBeta = -absBeta
	}
	if absBeta < BetaThreshold || absBeta > 1/BetaThreshold {
		return 0
	}
	if gamma < 0 {
		gamma = -gamma
	}
	if gamma > GammaThreshold {
		return 0
	}

	normX := linalg.Nrm2(xp)
	normY := linalg.Nrm2(yp)
	if normX == 0 || normY == 0 {
		return 0
	}

	return (beta * s) / (normX * normY)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// Hamming computes the Hamming distance ratio between two BriefDescriptors
// of common length 2m, interpreted as m pairs (first half vs second half,
// element-wise): counts positions where sign(d1[i]-d1[i+m]) differs from
// sign(d2[i]-d2[i+m]), divided by m.
func Hamming(d1, d2 []float64) float64 {
	n := len(d1)
	if n == 0 || n != len(d2) || n%2 != 0 {
		return 1
	}
	m := n / 2
	if m == 0 {
		return 0
	}
	mismatches := 0
	for i := 0; i < m; i++ {
		b1 := d1[i]-d1[i+m] > 0
		b2 := d2[i]-d2[i+m] > 0
		if b1 != b2 {
			mismatches++
		}
	}
	return float64(mismatches) / float64(m)
}

// IntensityReducer computes, for one circle's raw per-point samples
// (length L), the sliding-window argmax over the circular extension of v
// with window width K = L/KernelSize, returning the argmax position
// normalized to [0, 1). The initial window sum is computed
// once and then updated incrementally as the window advances.
func IntensityReducer(v []float64) float64 {
	l := len(v)
	if l == 0 {
		return 0
	}
	k := l / KernelSize
	if k < 1 {
		k = 1
	}
	if k > l {
		k = l
	}

	var sum float64
	for i := 0; i < k; i++ {
		sum += v[i]
	}

	bestSum := sum
	bestPos := 0

	for pos := 1; pos < l; pos++ {
		leaving := v[(pos-1)%l]
		entering := v[(pos+k-1)%l]
		sum += entering - leaving
		if sum > bestSum {
			bestSum = sum
			bestPos = pos
		}
	}

	return float64(bestPos) / float64(l)
}

// ProbableRotation derives the rotation index in [0, DirectionNumber) from
// the target's analyzed per-circle intensity vector and the query's
// stored intensity descriptor: elementwise differences, mean,
// times DirectionNumber, floored; wraps into [0, DirectionNumber).
func ProbableRotation(target, query []float64) int {
	n := len(target)
	if n == 0 || n != len(query) {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += target[i] - query[i]
	}
	avg := sum / float64(n)
	idx := int(math.Floor(avg * DirectionNumber))
	idx %= DirectionNumber
	if idx < 0 {
		idx += DirectionNumber
	}
	return idx
}
