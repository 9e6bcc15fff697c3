package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aircheck/internal/config"
	"aircheck/internal/logging"
)

// Uploader delivers one local file to a single destination.
type Uploader interface {
	// Name identifies the destination in logs and notifications.
	Name() string
	Upload(ctx context.Context, localPath string) error
}

// DatePath returns the library subtree for a recording date, one directory
// per year and one per month.
func DatePath(when time.Time) string {
	return fmt.Sprintf("%d/%02d - %s", when.Year(), int(when.Month()), when.Month().String()[:3])
}

// ForStation assembles the uploaders configured for a station. The recording
// date decides the year/month subtree used by tree-shaped destinations.
func ForStation(station config.Station, when time.Time) []Uploader {
	var uploaders []Uploader
	if station.SaveDir != "" {
		uploaders = append(uploaders, NewLibrary(station.SaveDir, when))
	}
	if station.SaveFlatDir != "" {
		uploaders = append(uploaders, NewFlatDir(station.SaveFlatDir))
	}
	if station.SFTP.Host != "" {
		uploaders = append(uploaders, NewSFTP(station.SFTP, when))
	}
	if station.WebDAV.URL != "" {
		uploaders = append(uploaders, NewWebDAV(station.WebDAV, when))
	}
	return uploaders
}

// Result is the outcome of one destination.
type Result struct {
	Destination string
	Err         error
}

// Dispatch uploads the file to every destination in order and reports one
// result per destination. It never stops early; a failed destination is
// logged and the rest still run.
func Dispatch(ctx context.Context, logger *slog.Logger, uploaders []Uploader, localPath string) []Result {
	if logger == nil {
		logger = logging.NewNop()
	}

	results := make([]Result, 0, len(uploaders))
	for _, uploader := range uploaders {
		err := uploader.Upload(ctx, localPath)
		if err != nil {
			logger.Error("upload failed",
				logging.String("destination", uploader.Name()),
				logging.Error(err),
			)
		} else {
			logger.Info("upload complete", logging.String("destination", uploader.Name()))
		}
		results = append(results, Result{Destination: uploader.Name(), Err: err})
	}
	return results
}

// AllSucceeded reports whether every destination accepted the file. An empty
// result set counts as success.
func AllSucceeded(results []Result) bool {
	for _, result := range results {
		if result.Err != nil {
			return false
		}
	}
	return true
}
