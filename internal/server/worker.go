package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/patternmatch/internal/orchestrator"
	"github.com/cwbudde/patternmatch/internal/store"
)

// runJob executes a match job's cascade sweep in the background, streaming
// tile progress to the broadcaster and persisting the result on completion.
// resultStore may be nil, in which case completed jobs are kept only in
// memory.
func runJob(ctx context.Context, jm *JobManager, resultStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("starting match job", "job_id", jobID, "target", job.Config.TargetPath, "queries", len(job.Config.QueryPaths))

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	progress := func(done, total int) {
		jm.UpdateJob(jobID, func(j *Job) {
			j.TilesDone = done
			j.TilesTotal = total
		})
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:      jobID,
			State:      StateRunning,
			TilesDone:  done,
			TilesTotal: total,
			Timestamp:  time.Now(),
		})
	}

	start := time.Now()
	matches, err := orchestrator.Run(ctx, job.Config.toOrchestratorConfig(), progress)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Matches = matches
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	elapsed := endTime.Sub(start)
	slog.Info("match job completed", "job_id", jobID, "elapsed", elapsed, "matches", len(matches))

	if resultStore != nil {
		records := make([]store.MatchRecord, len(matches))
		for i, m := range matches {
			records[i] = store.MatchRecord{QueryID: m.QueryID, X: m.X, Y: m.Y}
		}
		result := store.NewJobResult(jobID, store.JobConfig{
			TargetPath: job.Config.TargetPath,
			QueryPaths: job.Config.QueryPaths,
			MaxThreads: job.Config.MaxThreads,
			MaxScale:   job.Config.MaxScale,
		}, records, start, endTime)

		if err := resultStore.SaveResult(jobID, result); err != nil {
			slog.Error("failed to persist job result", "job_id", jobID, "error", err)
		}
	}

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		TilesDone: job.TilesTotal,
		TilesTotal: job.TilesTotal,
		Matches:   len(matches),
		Timestamp: endTime,
	})

	return nil
}

func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("match job failed", "job_id", jobID, "error", err)
}

func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("match job cancelled", "job_id", jobID)
}
