package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const podcastRequestTimeout = 30 * time.Second

// RefreshPodcast pings a podcast generator's refresh URL so the feed picks
// up the new recording. A nil client uses a default with a request timeout.
func RefreshPodcast(ctx context.Context, client *http.Client, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: podcastRequestTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh podcast feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("podcast refresh returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
