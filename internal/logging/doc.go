// Package logging builds the slog loggers used across the pipeline and
// provides typed attribute helpers so call sites stay terse. Two output
// formats exist: a pretty console handler for interactive use and a JSON
// handler for log files.
package logging
