// Package recording implements the resilient recording supervisor: the loop
// that launches capture attempts, watches output growth to detect stalls,
// restarts the capture with exponential backoff, and merges the accepted
// segments into one continuous recording.
//
// The moving parts, leaf first: Monitor samples output file size and
// classifies growth; SegmentRecorder runs one capture attempt with a monitor
// alongside it; Scheduler decides accept/retry/terminate; Merger
// concatenates accepted segments; Supervisor ties them into one sequential
// loop per job. Partial results are always preserved: a failed merge leaves
// every segment file on disk.
package recording
