// Package ffmpeg wraps the FFmpeg CLI for stream-copy capture and concat
// merging. Command execution is abstracted behind small interfaces so the
// recording supervisor can be tested without the real binary.
package ffmpeg
