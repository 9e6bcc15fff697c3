package uploads

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/studio-b12/gowebdav"

	"aircheck/internal/config"
)

// WebDAVUploader delivers recordings to an ownCloud/Nextcloud-style WebDAV
// share, mirroring the year/month tree beneath the configured base dir.
type WebDAVUploader struct {
	cfg  config.WebDAV
	when time.Time
}

// NewWebDAV builds a WebDAV destination from a station's settings.
func NewWebDAV(cfg config.WebDAV, when time.Time) *WebDAVUploader {
	return &WebDAVUploader{cfg: cfg, when: when}
}

func (u *WebDAVUploader) Name() string {
	return "webdav " + u.cfg.URL
}

func (u *WebDAVUploader) Upload(ctx context.Context, localPath string) error {
	client := gowebdav.NewClient(u.cfg.URL, u.cfg.User, u.cfg.Password)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("connect %s: %w", u.cfg.URL, err)
	}

	remoteDir := path.Join(u.cfg.BaseDir, DatePath(u.when))
	if err := client.MkdirAll(remoteDir, 0o755); err != nil {
		return fmt.Errorf("create remote tree %s: %w", remoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	remotePath := path.Join(remoteDir, filepath.Base(localPath))
	if err := client.WriteStream(remotePath, src, 0o644); err != nil {
		return fmt.Errorf("write remote file %s: %w", remotePath, err)
	}
	return nil
}
