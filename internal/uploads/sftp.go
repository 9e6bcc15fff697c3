package uploads

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"aircheck/internal/config"
)

const sftpDialTimeout = 30 * time.Second

// SFTPUploader delivers recordings over SFTP into the remote year/month
// tree beneath the configured remote path.
type SFTPUploader struct {
	cfg  config.SFTP
	when time.Time
}

// NewSFTP builds an SFTP destination from a station's settings.
func NewSFTP(cfg config.SFTP, when time.Time) *SFTPUploader {
	return &SFTPUploader{cfg: cfg, when: when}
}

func (u *SFTPUploader) Name() string {
	return "sftp " + u.cfg.Host
}

func (u *SFTPUploader) Upload(ctx context.Context, localPath string) error {
	auth, err := u.authMethods()
	if err != nil {
		return err
	}

	sshCfg := &ssh.ClientConfig{
		User: u.cfg.User,
		Auth: auth,
		// Upload targets are user-administered boxes without distributed
		// known_hosts files.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sftpDialTimeout,
	}

	addr := net.JoinHostPort(u.cfg.Host, strconv.Itoa(u.cfg.Port))
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return fmt.Errorf("open sftp session: %w", err)
	}
	defer client.Close()

	remoteDir := path.Join(u.cfg.RemotePath, DatePath(u.when))
	if err := client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("create remote tree %s: %w", remoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	remotePath := path.Join(remoteDir, filepath.Base(localPath))
	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write remote file %s: %w", remotePath, err)
	}
	return nil
}

func (u *SFTPUploader) authMethods() ([]ssh.AuthMethod, error) {
	if u.cfg.KeyFile != "" {
		pem, err := os.ReadFile(u.cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", u.cfg.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key %s: %w", u.cfg.KeyFile, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	return []ssh.AuthMethod{ssh.Password(u.cfg.Password)}, nil
}
