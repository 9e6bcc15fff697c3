package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Process is a handle over a live capture invocation.
type Process interface {
	// Done yields the process exit result exactly once.
	Done() <-chan error
	// Stop requests graceful termination and escalates to SIGKILL after the
	// grace period. It returns once the process has exited.
	Stop(grace time.Duration) error
}

// Starter abstracts launching the long-lived capture process so tests can
// substitute a fake stream writer.
type Starter interface {
	Start(ctx context.Context, binary string, args []string) (Process, error)
}

// Executor abstracts blocking command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithStarter injects a custom process starter (primarily for tests).
func WithStarter(starter Starter) Option {
	return func(c *Client) {
		if starter != nil {
			c.starter = starter
		}
	}
}

// Client wraps FFmpeg CLI interactions.
type Client struct {
	binary  string
	exec    Executor
	starter Starter
}

// New constructs an FFmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		exec:    commandExecutor{},
		starter: commandStarter{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CaptureRequest describes one stream-copy capture invocation.
type CaptureRequest struct {
	StreamURL  string
	OutputPath string
	// Duration bounds the capture; zero means unbounded.
	Duration time.Duration
}

// StartCapture launches ffmpeg copying the stream into the output path and
// returns a handle for supervision. The caller owns termination.
func (c *Client) StartCapture(ctx context.Context, req CaptureRequest) (Process, error) {
	if strings.TrimSpace(req.StreamURL) == "" {
		return nil, errors.New("stream url required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, errors.New("output path required")
	}

	args := []string{"-hide_banner", "-loglevel", "warning", "-i", req.StreamURL}
	if req.Duration > 0 {
		args = append(args, "-t", strconv.Itoa(int(req.Duration.Round(time.Second)/time.Second)))
	}
	args = append(args, "-c", "copy", "-y", req.OutputPath)

	proc, err := c.starter.Start(ctx, c.binary, args)
	if err != nil {
		return nil, fmt.Errorf("start capture: %w", err)
	}
	return proc, nil
}

// Concat merges the segment files into outputPath using the concat demuxer
// with stream copy. Metadata tags are applied to the merged container. The
// list file is written to listPath and left behind on failure for manual
// recovery.
func (c *Client) Concat(ctx context.Context, segments []string, listPath, outputPath string, tags map[string]string) error {
	if len(segments) == 0 {
		return errors.New("no segments to concatenate")
	}
	if err := writeConcatList(listPath, segments); err != nil {
		return err
	}

	args := []string{"-hide_banner", "-loglevel", "warning", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy"}
	args = append(args, metadataArgs(tags)...)
	args = append(args, "-y", outputPath)

	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

func writeConcatList(listPath string, segments []string) error {
	var builder strings.Builder
	for _, segment := range segments {
		// The concat demuxer expects single-quoted paths with embedded
		// quotes closed, escaped, and reopened.
		escaped := strings.ReplaceAll(segment, "'", `'\''`)
		builder.WriteString("file '")
		builder.WriteString(escaped)
		builder.WriteString("'\n")
	}
	if err := os.WriteFile(listPath, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func metadataArgs(tags map[string]string) []string {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		if strings.TrimSpace(tags[key]) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, "-metadata", key+"="+tags[key])
	}
	return args
}

type commandStarter struct{}

func (commandStarter) Start(ctx context.Context, binary string, args []string) (Process, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	proc := &osProcess{cmd: cmd, done: make(chan error, 1)}
	go func() {
		proc.done <- cmd.Wait()
		close(proc.done)
	}()
	return proc, nil
}

type osProcess struct {
	cmd  *exec.Cmd
	done chan error

	mu     sync.Mutex
	result error
	exited bool
}

func (p *osProcess) Done() <-chan error {
	return p.done
}

func (p *osProcess) Stop(grace time.Duration) error {
	p.mu.Lock()
	if p.exited {
		result := p.result
		p.mu.Unlock()
		return result
	}
	p.mu.Unlock()

	_ = p.cmd.Process.Signal(syscall.SIGTERM)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-p.done:
		return p.record(err)
	case <-timer.C:
	}

	_ = p.cmd.Process.Kill()
	return p.record(<-p.done)
}

func (p *osProcess) record(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = true
	p.result = err
	return err
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
