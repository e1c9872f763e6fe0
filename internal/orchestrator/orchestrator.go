// Package orchestrator ties preprocessing, QueryIndex construction,
// ParallelSweep and NMS together, and maps result coordinates
// back to the original target pixel space.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"

	// Registers BMP decoding with image.Decode, so 24-bit uncompressed
	// BMP targets and queries load the same way PNG/JPEG ones do.
	_ "golang.org/x/image/bmp"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cwbudde/patternmatch/internal/cascade"
	"github.com/cwbudde/patternmatch/internal/nms"
	"github.com/cwbudde/patternmatch/internal/queryindex"
	"github.com/cwbudde/patternmatch/internal/raster"
	"github.com/cwbudde/patternmatch/internal/sweep"
)

// MaxImageSize is the pixel-count threshold above which the target is
// downscaled before matching.
const MaxImageSize = 4_000_000

// Config holds one matching run's inputs.
type Config struct {
	TargetPath string
	QueryPaths []string
	MaxThreads int
	MaxScale   float64
}

// Match is one reported detection: the 1-based query id and the pixel
// coordinates in the ORIGINAL target image.
type Match struct {
	QueryID int
	X, Y    int
}

// Run loads the target and queries, builds the QueryIndex, runs the
// parallel sweep and NMS, and returns matches sorted by query id. progress,
// if non-nil, is forwarded to the parallel sweep to report tile
// completion; pass nil when no progress reporting is needed.
func Run(ctx context.Context, cfg Config, progress sweep.Progress) ([]Match, error) {
	targetRaster, err := loadRaster(cfg.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: failed to load target %q: %w", cfg.TargetPath, err)
	}

	area := targetRaster.Width() * targetRaster.Height()
	ratio := 1.0
	if area > MaxImageSize {
		ratio = 1.0 / math.Sqrt(float64(area)/float64(MaxImageSize))
	}

	preprocessed := targetRaster
	if ratio != 1.0 {
		preprocessed = targetRaster.ResizeTo(ratio)
	}
	preprocessed = preprocessed.Blur(queryindex.Blur)

	slog.Info("target preprocessed",
		"orig_width", targetRaster.Width(), "orig_height", targetRaster.Height(),
		"ratio", ratio, "width", preprocessed.Width(), "height", preprocessed.Height())

	var loaded []queryindex.LoadedQuery
	for _, path := range cfg.QueryPaths {
		r, err := loadRaster(path)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: failed to load query %q: %w", path, err)
		}
		loaded = append(loaded, queryindex.LoadedQuery{Raster: r})
	}

	idx, err := queryindex.Build(loaded, cfg.MaxScale, ratio)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: failed to build query index: %w", err)
	}

	matcher := cascade.New(idx, preprocessed)
	sink := sweep.NewResultSink()

	sweep.Run(ctx, matcher, preprocessed.Width(), preprocessed.Height(), cfg.MaxThreads, sink, progress)

	candidates := sink.Drain()

	dims := func(scaleIndex int) (int, int) {
		r := idx.Scales[scaleIndex].Raster
		return r.Width(), r.Height()
	}
	suppressed := nms.Suppress(candidates, dims)

	matches := make([]Match, len(suppressed))
	for i, res := range suppressed {
		matches[i] = Match{
			QueryID: 1 + idx.QueryIDFor(res.ScaleIndex),
			X:       int(math.Floor(float64(res.X) / ratio)),
			Y:       int(math.Floor(float64(res.Y) / ratio)),
		}
	}

	slog.Info("matching complete", "candidates", len(candidates), "accepted", len(matches))

	return matches, nil
}

// loadRaster decodes an image file (BMP/PNG/JPEG, or any format the
// registered decoders support) into a luminance Raster via
// ConvertBGRToLuminance semantics.
func loadRaster(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return raster.FromImage(img), nil
}
