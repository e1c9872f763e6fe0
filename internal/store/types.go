package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration for a match job (stored copy). This
// avoids an import cycle with the server package.
type JobConfig struct {
	TargetPath string   `json:"targetPath"`
	QueryPaths []string `json:"queryPaths"`
	MaxThreads int      `json:"maxThreads"`
	MaxScale   float64  `json:"maxScale"`
}

// MatchRecord is a single reported detection, persisted alongside its job.
type MatchRecord struct {
	QueryID int `json:"queryId"`
	X       int `json:"x"`
	Y       int `json:"y"`
}

// JobResult is a completed match job's persisted record: its configuration
// and the matches it produced.
type JobResult struct {
	JobID     string        `json:"jobId"`
	Config    JobConfig     `json:"config"`
	Matches   []MatchRecord `json:"matches"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
}

// JobResultInfo is JobResult metadata, used for listing without loading the
// full match slice.
type JobResultInfo struct {
	JobID      string    `json:"jobId"`
	TargetPath string    `json:"targetPath"`
	MatchCount int       `json:"matchCount"`
	EndTime    time.Time `json:"endTime"`
}

// NewJobResult builds a JobResult from job state.
func NewJobResult(jobID string, config JobConfig, matches []MatchRecord, startTime, endTime time.Time) *JobResult {
	return &JobResult{
		JobID:     jobID,
		Config:    config,
		Matches:   matches,
		StartTime: startTime,
		EndTime:   endTime,
	}
}

// ToInfo converts a full JobResult to JobResultInfo (metadata only).
func (r *JobResult) ToInfo() JobResultInfo {
	return JobResultInfo{
		JobID:      r.JobID,
		TargetPath: r.Config.TargetPath,
		MatchCount: len(r.Matches),
		EndTime:    r.EndTime,
	}
}

// Validate checks that a JobResult has the fields required to persist and
// later reload it.
func (r *JobResult) Validate() error {
	if r.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if r.Config.TargetPath == "" {
		return &ValidationError{Field: "Config.TargetPath", Reason: "cannot be empty"}
	}
	if len(r.Config.QueryPaths) == 0 {
		return &ValidationError{Field: "Config.QueryPaths", Reason: "cannot be empty"}
	}
	if r.EndTime.IsZero() {
		return &ValidationError{Field: "EndTime", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a JobResult validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}
