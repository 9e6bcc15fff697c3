package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aircheck/internal/config"
	"aircheck/internal/deps"
	"aircheck/internal/fileutil"
	"aircheck/internal/history"
	"aircheck/internal/logging"
	"aircheck/internal/metadata"
	"aircheck/internal/notifications"
	"aircheck/internal/recording"
	"aircheck/internal/services"
	"aircheck/internal/services/ffmpeg"
	"aircheck/internal/uploads"
)

func newRecordCommand(cctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "record <station> <duration>",
		Short: "Record a station's stream for a duration",
		Long: `Record a station's stream for a duration, restarting the capture on
stalls and merging the resulting segments into one file. Duration accepts
plain minutes ("120") or a Go duration ("2h", "90m").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, cctx, args[0], args[1], outputFlag)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the recording to an explicit path and keep it there")
	return cmd
}

func runRecord(cmd *cobra.Command, cctx *commandContext, stationName, durationArg, outputFlag string) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}

	station, ok := cfg.Station(stationName)
	if !ok {
		names := cfg.StationNames()
		if len(names) == 0 {
			return fmt.Errorf("station %q is not configured and no stations exist; run `aircheck config init`", stationName)
		}
		return fmt.Errorf("station %q is not configured (known: %s)", stationName, strings.Join(names, ", "))
	}

	target, err := parseRecordDuration(durationArg)
	if err != nil {
		return err
	}

	logger, err := cctx.ensureLogger()
	if err != nil {
		return err
	}

	if err := checkDependencies(cfg); err != nil {
		return err
	}
	if err := fileutil.EnsureFreeSpace(cfg.Paths.WorkDir, cfg.Recording.MinFreeSpaceMiB*1024*1024); err != nil {
		return err
	}

	now := time.Now()
	outputName := outputFileName(metadata.DisplayName(stationName), now)
	workPath := strings.TrimSpace(outputFlag)
	if workPath == "" {
		workPath = filepath.Join(cfg.Paths.WorkDir, outputName)
	} else {
		if workPath, err = config.ExpandPath(workPath); err != nil {
			return err
		}
		outputName = filepath.Base(workPath)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	ctx = services.WithStation(ctx, stationName)
	ctx = services.WithRunID(ctx, runID)
	logger = logging.WithContext(ctx, logger)

	var store *history.Store
	var historyID int64
	if store, err = history.Open(cfg); err != nil {
		logger.Warn("history store unavailable", logging.Error(err))
		store = nil
	} else {
		defer store.Close()
		historyID, err = store.Begin(ctx, history.Run{
			RunID:      runID,
			Station:    stationName,
			StreamURL:  station.Stream,
			OutputPath: workPath,
			StartedAt:  now.UTC(),
		})
		if err != nil {
			logger.Warn("could not record run start", logging.Error(err))
			store = nil
		}
	}

	notifier := notifications.NewService(cfg)
	if err := notifier.NotifyRecordingStarted(ctx, stationName, target); err != nil {
		logger.Warn("start notification failed", logging.Error(err))
	}

	client, err := ffmpeg.New(cfg.FFmpegBinary())
	if err != nil {
		return err
	}

	tags := metadata.ForRecording(stationName, station, outputName)
	job := recording.JobFromConfig(cfg, stationName, station.Stream, target, workPath)
	supervisor := recording.NewSupervisor(job, client, tags.Map(), logger)

	result, runErr := supervisor.Run(ctx)

	if store != nil {
		finishErr := store.Finish(context.WithoutCancel(ctx), historyID, runOutcome(result))
		if finishErr != nil {
			logger.Warn("could not record run outcome", logging.Error(finishErr))
		}
	}

	// Delivery and notifications continue even when the user cancelled the
	// recording; the merged audio still has to reach its destinations.
	postCtx := context.WithoutCancel(ctx)

	switch result.Status {
	case recording.StatusFailed:
		if err := notifier.NotifyError(postCtx, result.Err, stationName); err != nil {
			logger.Warn("failure notification failed", logging.Error(err))
		}
		return runErr

	case recording.StatusDegraded:
		if err := notifier.NotifyRecordingDegraded(postCtx, stationName, result.SegmentDir); err != nil {
			logger.Warn("degraded notification failed", logging.Error(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Merge failed; segments preserved in %s\n", result.SegmentDir)
		return nil
	}

	return deliverRecording(postCtx, cmd, logger, notifier, station, stationName, result, now, outputFlag != "")
}

func deliverRecording(
	ctx context.Context,
	cmd *cobra.Command,
	logger *slog.Logger,
	notifier notifications.Service,
	station config.Station,
	stationName string,
	result recording.Result,
	now time.Time,
	explicitOutput bool,
) error {
	out := cmd.OutOrStdout()
	size := fileutil.SizeOf(result.OutputPath)
	fmt.Fprintf(out, "Recorded %s to %s (%d segments, %.1f MiB)\n",
		stationName, result.OutputPath, len(result.Segments), float64(size)/(1024*1024))

	uploaders := uploads.ForStation(station, now)
	results := uploads.Dispatch(ctx, logger, uploaders, result.OutputPath)
	for _, res := range results {
		if res.Err == nil {
			fmt.Fprintf(out, "Delivered to %s\n", res.Destination)
			continue
		}
		fmt.Fprintf(out, "Delivery to %s failed: %v\n", res.Destination, res.Err)
		if err := notifier.NotifyUploadFailed(ctx, stationName, res.Destination, res.Err); err != nil {
			logger.Warn("upload notification failed", logging.Error(err))
		}
	}

	if err := uploads.RefreshPodcast(ctx, nil, station.PodcastRefreshURL); err != nil {
		logger.Warn("podcast refresh failed", logging.Error(err))
	}

	if err := notifier.NotifyRecordingCompleted(ctx, stationName, filepath.Base(result.OutputPath), len(result.Segments), size); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}

	// The work file is only disposable once every destination holds a copy.
	// With no destinations configured the work file is the product.
	if len(uploaders) > 0 && uploads.AllSucceeded(results) && !explicitOutput {
		if err := os.Remove(result.OutputPath); err != nil {
			logger.Warn("could not remove work file", logging.Error(err))
		}
	}
	return nil
}

func checkDependencies(cfg *config.Config) error {
	for _, status := range deps.CheckBinaries(deps.Default(cfg.FFmpegBinary())) {
		if !status.Available && !status.Optional {
			return fmt.Errorf("%s (%s) is not available: %s", status.Name, status.Command, status.Detail)
		}
	}
	return nil
}

// parseRecordDuration accepts plain minutes ("120") or a Go duration string
// ("2h", "90m").
func parseRecordDuration(arg string) (time.Duration, error) {
	arg = strings.TrimSpace(arg)
	if minutes, err := strconv.Atoi(arg); err == nil {
		if minutes <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %d minutes", minutes)
		}
		return time.Duration(minutes) * time.Minute, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use minutes like \"120\" or a duration like \"2h\")", arg)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

// outputFileName builds the dated recording name, e.g. JazzFM260829-Sat.mp3.
func outputFileName(displayName string, when time.Time) string {
	compact := strings.ReplaceAll(displayName, " ", "")
	return fmt.Sprintf("%s%s-%s.mp3", compact, when.Format("060102"), when.Format("Mon"))
}

func runOutcome(result recording.Result) history.Outcome {
	outcome := history.Outcome{
		Status:     string(result.Status),
		OutputPath: result.OutputPath,
		Segments:   len(result.Segments),
		Bytes:      result.RecordedBytes,
		Seconds:    int64(result.RecordedDuration.Seconds()),
		Attempts:   result.Attempts,
	}
	if result.Err != nil {
		outcome.ErrorMessage = result.Err.Error()
	}
	return outcome
}
