// Package queryindex builds and stores the precomputed per-query,
// per-scale descriptors.
package queryindex

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/patternmatch/internal/descriptor"
	"github.com/cwbudde/patternmatch/internal/geometry"
	"github.com/cwbudde/patternmatch/internal/raster"
	"github.com/cwbudde/patternmatch/internal/scorer"
)

// ScalesNumber is the number of scaled copies generated per query.
const ScalesNumber = 8

// Blur is the Gaussian sigma applied to target and query rasters.
const Blur = 2.1

// QueryScale holds one (query, scale) pairing: a preprocessed query
// raster, its circle/BRIEF groups, and precomputed descriptors.
type QueryScale struct {
	QueryID     int
	ScaleID     int
	ScaleFactor float64
	Raster      *raster.Raster

	CircleRadii    []int
	CircleGroup    []geometry.PointSet
	BriefRotations []geometry.PointSet // DirectionNumber variants

	CircleDescriptor    []float64   // length CirclesNumber, sum reduction
	IntensityDescriptor []float64   // length CirclesNumber, angular peak position
	BriefDescriptors    [][]float64 // one per rotation
}

// Index is the ordered list of QueryScale, concatenated across all input
// queries. A scale index maps back to a query id via
// ScalesPerQuery.
type Index struct {
	Scales         []*QueryScale
	ScalesPerQuery int
}

// QueryIDFor maps a scale index back to its owning query id (0-based).
func (idx *Index) QueryIDFor(scaleIndex int) int {
	return scaleIndex / idx.ScalesPerQuery
}

// LoadedQuery is a decoded, not-yet-scaled query raster.
type LoadedQuery struct {
	Raster *raster.Raster
}

// Build constructs a QueryIndex from a list of loaded queries, each
// resized to ScalesNumber evenly spaced scale factors in
// [0.5*ratio, maxScale*ratio] and blurred with sigma=Blur, then indexed
// with circle/BRIEF geometry and descriptors. Queries that are
// geometrically degenerate are skipped with a warning rather than
// aborting the whole build.
func Build(queries []LoadedQuery, maxScale, ratio float64) (*Index, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("queryindex: no queries supplied")
	}

	idx := &Index{ScalesPerQuery: ScalesNumber}

	loScale := 0.5 * ratio
	hiScale := maxScale * ratio

	for qid, q := range queries {
		scales := make([]*QueryScale, 0, ScalesNumber)
		skip := false

		for s := 0; s < ScalesNumber; s++ {
			var factor float64
			if ScalesNumber == 1 {
				factor = loScale
			} else {
				t := float64(s) / float64(ScalesNumber-1)
				factor = loScale + t*(hiScale-loScale)
			}

			scaledRaster := q.Raster.ResizeTo(factor).Blur(Blur)

			qs, err := buildScale(qid, s, factor, scaledRaster)
			if err != nil {
				slog.Warn("geometric degeneracy, skipping query",
					"query_id", qid, "scale_id", s, "error", err)
				skip = true
				break
			}
			scales = append(scales, qs)
		}

		if skip {
			// QueryIDFor assumes every query contributes exactly
			// ScalesPerQuery scales, so a query with any degenerate scale
			// is dropped as a whole.
			continue
		}

		idx.Scales = append(idx.Scales, scales...)
	}

	if len(idx.Scales) == 0 {
		return nil, fmt.Errorf("queryindex: all queries were geometrically degenerate")
	}

	return idx, nil
}

func buildScale(queryID, scaleID int, factor float64, r *raster.Raster) (*QueryScale, error) {
	radii, err := geometry.CircleRadii(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}

	circleGroup := make([]geometry.PointSet, len(radii))
	circleDescriptor := make([]float64, len(radii))
	intensityDescriptor := make([]float64, len(radii))

	cx, cy := r.Width()/2, r.Height()/2

	for i, radius := range radii {
		ps := geometry.GenerateCircle(radius)
		circleGroup[i] = ps

		sum, ok := descriptor.EvaluateCircleSum(r, ps, cx, cy)
		if !ok {
			return nil, fmt.Errorf("circle %d does not fit query raster", i)
		}
		circleDescriptor[i] = sum

		samples, ok := descriptor.EvaluateCircleSamples(r, ps, cx, cy)
		if !ok {
			return nil, fmt.Errorf("circle %d does not fit query raster", i)
		}
		intensityDescriptor[i] = scorer.IntensityReducer(samples)
	}

	n := r.Width()
	if r.Height() < n {
		n = r.Height()
	}
	briefRotations, err := geometry.GenerateBrief(n)
	if err != nil {
		return nil, err
	}

	briefDescriptors := make([][]float64, len(briefRotations))
	for i, ps := range briefRotations {
		samples, ok := descriptor.EvaluateBrief(r, ps, cx, cy)
		if !ok {
			return nil, fmt.Errorf("brief rotation %d does not fit query raster", i)
		}
		briefDescriptors[i] = samples
	}

	return &QueryScale{
		QueryID:             queryID,
		ScaleID:             scaleID,
		ScaleFactor:         factor,
		Raster:              r,
		CircleRadii:         radii,
		CircleGroup:         circleGroup,
		BriefRotations:      briefRotations,
		CircleDescriptor:    circleDescriptor,
		IntensityDescriptor: intensityDescriptor,
		BriefDescriptors:    briefDescriptors,
	}, nil
}
