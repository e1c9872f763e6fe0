package sweep

import (
	"context"
	"sync"
	"testing"

	"github.com/cwbudde/patternmatch/internal/cascade"
	"github.com/cwbudde/patternmatch/internal/queryindex"
)

// emptyMatcher has no query scales, so Evaluate's circle filter always
// rejects without needing a real target raster.
func emptyMatcher() *cascade.Matcher {
	return cascade.New(&queryindex.Index{}, nil)
}

func TestResultSinkAppendAndDrain(t *testing.T) {
	s := NewResultSink()
	s.Append(0, cascade.Result{ScaleIndex: 1, X: 1, Y: 1})
	s.Append(shardCount, cascade.Result{ScaleIndex: 2, X: 2, Y: 2})

	got := s.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain returned %d results, want 2", len(got))
	}

	if got := s.Drain(); len(got) != 0 {
		t.Errorf("second Drain returned %d results, want 0", len(got))
	}
}

func TestResultSinkConcurrentAppend(t *testing.T) {
	s := NewResultSink()
	const n = 500

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(i, cascade.Result{ScaleIndex: i % 3, X: i, Y: i})
		}(i)
	}
	wg.Wait()

	got := s.Drain()
	if len(got) != n {
		t.Errorf("Drain returned %d results, want %d", len(got), n)
	}
}

func TestRunReportsProgressToCompletion(t *testing.T) {
	m := emptyMatcher()
	sink := NewResultSink()

	var lastDone, lastTotal int
	var mu sync.Mutex
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		lastDone, lastTotal = done, total
	}

	Run(context.Background(), m, GrainSize*2, GrainSize*2, 2, sink, progress)

	mu.Lock()
	defer mu.Unlock()
	if lastTotal != 4 {
		t.Fatalf("final progress total = %d, want 4 tiles for a %dx%d target", lastTotal, GrainSize*2, GrainSize*2)
	}
	if lastDone != lastTotal {
		t.Errorf("final progress done = %d, want %d (all tiles complete)", lastDone, lastTotal)
	}
}

func TestRunHonorsCancelledContext(t *testing.T) {
	m := emptyMatcher()
	sink := NewResultSink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Should return promptly without panicking when the target has no
	// matcher index to evaluate against and the context is already done.
	Run(ctx, m, GrainSize, GrainSize, 1, sink, nil)
}
