package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/cwbudde/patternmatch/internal/orchestrator"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logger     *slog.Logger
	cpuProfile string
	memProfile string
)

var rootCmd = &cobra.Command{
	Use:   "matcher <max_threads> <max_scale> <target_path> <query_path>...",
	Short: "Locate rotated/scaled pattern instances in a target image",
	Long: `matcher finds instances of one or more small query images within a
larger target image, despite unknown scale (within a caller-supplied range)
and unknown in-plane rotation, using a three-stage cascade (circle filter,
rotation estimate, BRIEF-style binary filter).`,
	Args: cobra.MinimumNArgs(4),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	RunE: runMatch,
}

func setupLogger() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
}

// runMatch implements the CLI contract:
//
//	matcher <max_threads:int> <max_scale:float> <target_path> <query_path>...
//
// Exit code 0 on normal completion (including "no match"); non-zero only on
// a fatal I/O failure.
func runMatch(cmd *cobra.Command, args []string) error {
	maxThreads, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid max_threads %q: %w", args[0], err)
	}
	maxScale, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid max_scale %q: %w", args[1], err)
	}
	targetPath := args[2]
	queryPaths := args[3:]

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := orchestrator.Config{
		TargetPath: targetPath,
		QueryPaths: queryPaths,
		MaxThreads: maxThreads,
		MaxScale:   maxScale,
	}

	matches, err := orchestrator.Run(context.Background(), cfg, nil)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%d\t%d\n", m.QueryID, m.X, m.Y)
	}

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	return nil
}
