// Package geometry generates the point-sets the descriptor evaluator
// samples: concentric circles (midpoint-circle algorithm, sorted by polar
// angle) and BRIEF-style rotated test-point pairs.
package geometry

import (
	"errors"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/patternmatch/internal/linalg"
)

// Point is an integer offset, used both for absolute pixel addresses and
// offsets relative to a center.
type Point struct {
	X, Y int
}

// PointSet is an ordered sequence of Points defining one geometric feature.
type PointSet []Point

// Geometry generation constants.
const (
	CirclesNumber   = 15
	MinCircleRadius = 2
	MaxCircleRadius = 150
	DirectionNumber = 36
	KernelSize      = 8
	briefSeed       = 0
	briefBitPlanes  = 32
)

// ErrGeometricDegeneracy is returned when a query is too small to form a
// valid BRIEF point-set (N < 2) or has no usable circle radius.
var ErrGeometricDegeneracy = errors.New("geometry: degenerate query dimensions")

// GenerateCircle produces the point set for an integer radius using the
// midpoint-circle algorithm, then sorts by polar angle starting from the
// positive-x axis in one full counter-clockwise sweep. This canonical
// order is a contract relied upon by the intensity reducer.
func GenerateCircle(radius int) PointSet {
	if radius <= 0 {
		return nil
	}

	pointSet := map[Point]struct{}{}
	x, y := radius, 0
	err := 1 - radius

	addOctants := func(x, y int) {
		pointSet[Point{x, y}] = struct{}{}
		pointSet[Point{y, x}] = struct{}{}
		pointSet[Point{-y, x}] = struct{}{}
		pointSet[Point{-x, y}] = struct{}{}
		pointSet[Point{-x, -y}] = struct{}{}
		pointSet[Point{-y, -x}] = struct{}{}
		pointSet[Point{y, -x}] = struct{}{}
		pointSet[Point{x, -y}] = struct{}{}
	}

	for x >= y {
		addOctants(x, y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}

	points := make(PointSet, 0, len(pointSet))
	for p := range pointSet {
		points = append(points, p)
	}
	sortByPolarAngle(points)
	return points
}

// sortByPolarAngle orders points in one full counter-clockwise sweep
// starting from the positive-x axis: upper half-plane (y >= 0) first,
// ordered by decreasing x; lower half-plane (y < 0) second, ordered by
// increasing x. Points sharing an x coordinate are ordered by increasing y
// right of the y-axis and by decreasing y left of it, so the angle never
// steps backwards. Points exactly on the positive x-axis (y == 0, x > 0)
// sort first within the upper half via the descending-x rule.
func sortByPolarAngle(points PointSet) {
	halfPlane := func(p Point) int {
		if p.Y >= 0 {
			return 0
		}
		return 1
	}
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		ha, hb := halfPlane(a), halfPlane(b)
		if ha != hb {
			return ha < hb
		}
		if ha == 0 {
			if a.X != b.X {
				return a.X > b.X
			}
			return (a.Y < b.Y) != (a.X < 0)
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return (a.Y < b.Y) != (a.X < 0)
	})
}

// MaxRadiusFor returns the largest usable circle radius for a query of the
// given dimensions: min(MAX_CIRCLE_RADIUS, half the smaller query
// dimension).
func MaxRadiusFor(width, height int) int {
	dim := width
	if height < dim {
		dim = height
	}
	maxR := dim / 2
	if maxR > MaxCircleRadius {
		maxR = MaxCircleRadius
	}
	return maxR
}

// CircleRadii returns CIRCLES_NUMBER evenly spaced integer radii from
// MIN_CIRCLE_RADIUS up to the query's usable maximum, or an error if the
// query is too small to support even the minimum radius.
func CircleRadii(width, height int) ([]int, error) {
	maxR := MaxRadiusFor(width, height)
	if maxR < MinCircleRadius {
		return nil, ErrGeometricDegeneracy
	}
	radii := make([]int, CirclesNumber)
	for i := 0; i < CirclesNumber; i++ {
		t := float64(i) / float64(CirclesNumber-1)
		r := float64(MinCircleRadius) + t*float64(maxR-MinCircleRadius)
		radii[i] = int(math.Round(r))
		if radii[i] < MinCircleRadius {
			radii[i] = MinCircleRadius
		}
	}
	return radii, nil
}

// GenerateBrief produces DIRECTION_NUMBER rotated variants of one BRIEF
// point-set for a query whose minimum dimension is n. Each variant
// contains 32*n test points. The PRNG seed is fixed (0) so query indexing
// and later matching see the same points on every run.
func GenerateBrief(n int) ([]PointSet, error) {
	if n < 2 {
		return nil, ErrGeometricDegeneracy
	}

	// Draw 32*n (x, y) pairs in total across the 32 bit planes (64*n
	// samples, drawn alternately x then y) from a zero-mean normal with
	// variance n^2/25, using a fixed seed.
	src := rand.New(rand.NewSource(briefSeed))
	dist := distuv.Normal{Mu: 0, Sigma: float64(n) / 5.0, Src: src}

	total := briefBitPlanes * n // pairs across all 32 bit planes
	xs := make([]float64, total)
	ys := make([]float64, total)
	for i := 0; i < total; i++ {
		xs[i] = dist.Rand()
		ys[i] = dist.Rand()
	}

	sets := make([]PointSet, DirectionNumber)
	theta := 2 * math.Pi / DirectionNumber
	cosT, sinT := math.Cos(theta), math.Sin(theta)

	curX := append([]float64(nil), xs...)
	curY := append([]float64(nil), ys...)

	for k := 0; k < DirectionNumber; k++ {
		ps := make(PointSet, total)
		for i := 0; i < total; i++ {
			ps[i] = Point{X: int(math.Floor(curX[i])), Y: int(math.Floor(curY[i]))}
		}
		sets[k] = ps

		if k < DirectionNumber-1 {
			for i := 0; i < total; i++ {
				curX[i], curY[i] = linalg.Rotate2(curX[i], curY[i], cosT, sinT)
			}
		}
	}

	return sets, nil
}
