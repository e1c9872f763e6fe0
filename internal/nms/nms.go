// Package nms implements non-maximum suppression over the cascade's
// accepted candidates.
package nms

import (
	"sort"

	"github.com/cwbudde/patternmatch/internal/cascade"
)

// Dims reports the width/height of the QueryScale raster that produced a
// given scale index, used to compute the overlap test.
type Dims func(scaleIndex int) (w, h int)

// Suppress merges overlapping candidates into a final result list.
//
// For each candidate in iteration order, the first existing result whose
// bounding box overlaps is found (overlap: |dx| < (w_candidate+w_result)/2
// AND |dy| < (h_candidate+h_result)/2). If found and the existing result's
// score is strictly greater than the candidate's, the existing result is
// REPLACED by the candidate.
//
// The comparison direction is kept as-is even though the final-stage score
// is a Hamming distance where lower is better; see DESIGN.md for the
// reasoning behind pinning this behavior rather than correcting it.
func Suppress(candidates []cascade.Result, dims Dims) []cascade.Result {
	var out []cascade.Result

	for _, cand := range candidates {
		cw, ch := dims(cand.ScaleIndex)

		replaced := false
		for i := range out {
			ew, eh := dims(out[i].ScaleIndex)
			dx := cand.X - out[i].X
			dy := cand.Y - out[i].Y
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if float64(dx) < float64(cw+ew)/2 && float64(dy) < float64(ch+eh)/2 {
				if out[i].Score > cand.Score {
					out[i] = cand
				}
				replaced = true
				break
			}
		}

		if !replaced {
			out = append(out, cand)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScaleIndex < out[j].ScaleIndex
	})

	return out
}
