package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aircheck/internal/config"
)

const (
	userAgent       = "Aircheck-Go/0.1.0"
	defaultEndpoint = "https://api.pushover.net/1/messages.json"
)

// Service defines the notification surface exposed to the recording flow.
type Service interface {
	NotifyRecordingStarted(ctx context.Context, station string, target time.Duration) error
	NotifyRecordingCompleted(ctx context.Context, station, outputName string, segments int, size int64) error
	NotifyRecordingDegraded(ctx context.Context, station, segmentDir string) error
	NotifyUploadFailed(ctx context.Context, station, destination string, err error) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// Option adjusts the Pushover service, primarily for tests.
type Option func(*pushoverService)

// WithEndpoint overrides the Pushover message endpoint.
func WithEndpoint(endpoint string) Option {
	return func(p *pushoverService) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

// NewService builds a notification service backed by Pushover when
// configured. When credentials are missing, a noop implementation is
// returned.
func NewService(cfg *config.Config, opts ...Option) Service {
	token := strings.TrimSpace(cfg.Notifications.PushoverToken)
	user := strings.TrimSpace(cfg.Notifications.PushoverUser)
	if token == "" || user == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	svc := &pushoverService{
		endpoint: defaultEndpoint,
		token:    token,
		user:     user,
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type payload struct {
	title    string
	message  string
	priority string
}

type pushoverService struct {
	endpoint string
	token    string
	user     string
	client   *http.Client
}

func (p *pushoverService) NotifyRecordingStarted(ctx context.Context, station string, target time.Duration) error {
	station = strings.TrimSpace(station)
	data := payload{
		title:   "Aircheck - Recording Started",
		message: fmt.Sprintf("Recording %s for %s", station, target.Round(time.Second)),
	}
	return p.send(ctx, data)
}

func (p *pushoverService) NotifyRecordingCompleted(ctx context.Context, station, outputName string, segments int, size int64) error {
	station = strings.TrimSpace(station)
	message := fmt.Sprintf("Recording complete: %s\nFile: %s (%.1f MiB)", station, outputName, float64(size)/(1024*1024))
	if segments > 1 {
		message = fmt.Sprintf("%s\nAssembled from %d segments", message, segments)
	}
	data := payload{
		title:   "Aircheck - Recording Complete",
		message: message,
	}
	return p.send(ctx, data)
}

func (p *pushoverService) NotifyRecordingDegraded(ctx context.Context, station, segmentDir string) error {
	station = strings.TrimSpace(station)
	data := payload{
		title:    "Aircheck - Merge Failed",
		message:  fmt.Sprintf("Recording %s captured but the merge failed.\nSegments preserved in %s", station, segmentDir),
		priority: "1",
	}
	return p.send(ctx, data)
}

func (p *pushoverService) NotifyUploadFailed(ctx context.Context, station, destination string, err error) error {
	station = strings.TrimSpace(station)
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Aircheck - Upload Failed",
		message:  fmt.Sprintf("Upload of %s to %s failed: %s", station, destination, detail),
		priority: "1",
	}
	return p.send(ctx, data)
}

func (p *pushoverService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Aircheck - Error",
		message:  builder.String(),
		priority: "1",
	}
	return p.send(ctx, data)
}

func (p *pushoverService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Aircheck - Test",
		message:  "Notification system test",
		priority: "-1",
	}
	return p.send(ctx, data)
}

func (p *pushoverService) send(ctx context.Context, data payload) error {
	if p == nil || p.client == nil {
		return nil
	}

	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.user)
	form.Set("message", data.message)
	if data.title != "" {
		form.Set("title", data.title)
	}
	if data.priority != "" && data.priority != "0" {
		form.Set("priority", data.priority)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build pushover request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send pushover notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("pushover returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRecordingStarted(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifyRecordingCompleted(context.Context, string, string, int, int64) error {
	return nil
}
func (noopService) NotifyRecordingDegraded(context.Context, string, string) error   { return nil }
func (noopService) NotifyUploadFailed(context.Context, string, string, error) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
