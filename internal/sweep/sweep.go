// Package sweep implements the tiled, data-parallel iteration over target
// pixels that drives the cascade matcher.
package sweep

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/patternmatch/internal/cascade"
)

// GrainSize is the tile side length in pixels.
const GrainSize = 256

// shardCount bounds contention on the result sink without requiring a
// single global lock: a fixed number of append-only shards that goroutines
// hash into by tile index, each guarded by its own mutex. The job manager
// (internal/server/job.go) uses a single mutex over one map instead.
const shardCount = 64

// ResultSink is a concurrent, append-only collection of cascade.Result.
// Writers never block each other across shards; NMS later drains it
// single-threaded via Drain.
type ResultSink struct {
	shards [shardCount][]cascade.Result
	mu     [shardCount]sync.Mutex
}

// NewResultSink creates an empty sink.
func NewResultSink() *ResultSink {
	return &ResultSink{}
}

// Append adds a result to the sink. tileIndex selects the shard so that
// all appends from the same tile serialize on the same lock, keeping lock
// hold times short and uncontended across tiles.
func (s *ResultSink) Append(tileIndex int, r cascade.Result) {
	shard := tileIndex % shardCount
	s.mu[shard].Lock()
	s.shards[shard] = append(s.shards[shard], r)
	s.mu[shard].Unlock()
}

// Drain returns all accumulated results and resets the sink. Not safe to
// call concurrently with Append; intended for the single-threaded NMS pass
// that follows the sweep.
func (s *ResultSink) Drain() []cascade.Result {
	var out []cascade.Result
	for i := range s.shards {
		out = append(out, s.shards[i]...)
		s.shards[i] = nil
	}
	return out
}

// Progress reports tiles completed out of the total, called from worker
// goroutines as tiles finish. May be called concurrently; implementations
// must be safe for that. A nil Progress is a valid no-op.
type Progress func(done, total int)

// Run partitions the target's pixel grid into GrainSize x GrainSize tiles
// and evaluates the cascade matcher at every pixel center, distributing
// tiles across a worker pool sized to maxThreads (<=0 selects
// runtime.NumCPU()). Results are appended to sink as they are found;
// ordering across tiles is unspecified, which is why NMS sorts by
// query_scale_index afterward. progress, if non-nil, is invoked after
// each tile completes.
func Run(ctx context.Context, m *cascade.Matcher, width, height, maxThreads int, sink *ResultSink, progress Progress) {
	workers := maxThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type tile struct {
		index          int
		x0, y0, x1, y1 int
	}

	var tiles []tile
	idx := 0
	for y0 := 0; y0 < height; y0 += GrainSize {
		y1 := y0 + GrainSize
		if y1 > height {
			y1 = height
		}
		for x0 := 0; x0 < width; x0 += GrainSize {
			x1 := x0 + GrainSize
			if x1 > width {
				x1 = width
			}
			tiles = append(tiles, tile{idx, x0, y0, x1, y1})
			idx++
		}
	}

	slog.Info("parallel sweep starting",
		"width", width, "height", height, "tiles", len(tiles), "workers", workers)

	tileCh := make(chan tile)
	var wg sync.WaitGroup
	var completed atomic.Int64
	total := len(tiles)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tileCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				for y := t.y0; y < t.y1; y++ {
					for x := t.x0; x < t.x1; x++ {
						if r, ok := m.Evaluate(x, y); ok {
							sink.Append(t.index, r)
						}
					}
				}
				if progress != nil {
					progress(int(completed.Add(1)), total)
				}
			}
		}()
	}

feed:
	for _, t := range tiles {
		select {
		case <-ctx.Done():
			break feed
		case tileCh <- t:
		}
	}

	close(tileCh)
	wg.Wait()

	slog.Info("parallel sweep complete")
}
