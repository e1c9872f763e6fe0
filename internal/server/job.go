// Package server exposes the matcher as a background HTTP job API: submit
// a target/query set, poll or stream its progress, and fetch its matches
// once the cascade sweep completes.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/patternmatch/internal/orchestrator"
	"github.com/google/uuid"
)

// JobState is the current lifecycle state of a match job.
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig describes a match job's inputs, mirroring orchestrator.Config.
type JobConfig struct {
	TargetPath string   `json:"targetPath"`
	QueryPaths []string `json:"queryPaths"`
	MaxThreads int      `json:"maxThreads"`
	MaxScale   float64  `json:"maxScale"`
}

func (c JobConfig) toOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		TargetPath: c.TargetPath,
		QueryPaths: c.QueryPaths,
		MaxThreads: c.MaxThreads,
		MaxScale:   c.MaxScale,
	}
}

// Job is a single submitted match run and its current progress/result.
type Job struct {
	ID          string              `json:"id"`
	State       JobState            `json:"state"`
	Config      JobConfig           `json:"config"`
	TilesDone   int                 `json:"tilesDone"`
	TilesTotal  int                 `json:"tilesTotal"`
	Matches     []orchestrator.Match `json:"matches,omitempty"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     *time.Time          `json:"endTime,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// JobManager manages the lifecycle of jobs via a single mutex over one
// map. ParallelSweep's ResultSink shards its lock by tile; job counts
// don't warrant sharding.
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates an empty JobManager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob registers a new job in StatePending.
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by ID.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	return job, exists
}

// ListJobs returns all known jobs.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// UpdateJob atomically mutates a job in place.
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in StateRunning.
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	running := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			running = append(running, job)
		}
	}
	return running
}
