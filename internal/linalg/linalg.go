// Package linalg provides the small vector kernels the descriptor and
// scorer packages are built on: dot product, sum of absolute values,
// Euclidean norm, an AXPBY update, and rotation of a 2-vector.
//
// These are small, inlinable scalar kernels behind a runtime-selected
// backend record, the same dispatch shape used for SAD/SSD cost kernels
// elsewhere: a feature probe at init time selects the active
// implementation, so a future SIMD kernel can be dropped in without
// touching callers.
package linalg

import (
	"log/slog"
	"math"

	"golang.org/x/sys/cpu"
)

// KernelBackend identifies which implementation is active for the vector
// kernels in this package.
type KernelBackend int

const (
	KernelScalar KernelBackend = iota
	KernelAVX2
)

func (b KernelBackend) String() string {
	switch b {
	case KernelAVX2:
		return "AVX2"
	default:
		return "scalar"
	}
}

// ActiveKernelBackend reports which backend was selected at init time.
// Only the scalar kernel is implemented in this port; the probe is kept so
// an AVX2 kernel can be wired in later the same way sad.go/ssd.go do it.
var ActiveKernelBackend KernelBackend

func init() {
	ActiveKernelBackend = KernelScalar
	slog.Debug("linalg kernel probe", "avx2_available", cpu.X86.HasAVX2, "backend", ActiveKernelBackend.String())
}

// Dot computes the dot product of two equal-length vectors.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Asum computes the sum of absolute values (sasum).
func Asum(a []float64) float64 {
	var sum float64
	for _, v := range a {
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}

// Nrm2 computes the Euclidean norm (snrm2).
func Nrm2(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Axpby computes y = alpha*x + beta*y in place (saxpby).
func Axpby(alpha float64, x []float64, beta float64, y []float64) {
	for i := range y {
		y[i] = alpha*x[i] + beta*y[i]
	}
}

// Rotate2 applies a Givens rotation (cos, sin) to the 2-vector (x, y) and
// returns the rotated pair (srot, specialized to a single 2-vector as used
// by the BRIEF rotation sweep in internal/geometry).
func Rotate2(x, y, cos, sin float64) (rx, ry float64) {
	rx = cos*x - sin*y
	ry = sin*x + cos*y
	return rx, ry
}
