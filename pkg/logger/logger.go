package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation: megabytes per file and rotated files kept.
const (
	maxLogSizeMB  = 5
	maxLogBackups = 1
)

// Setup initializes the global zerolog logger.
//   - level: log level string (trace, debug, info, warn, error)
//   - dir: directory for golestoon.log; empty disables the file
//   - verbose: also write human-readable lines to stderr
//
// The returned closer releases the log file.
func Setup(level, dir string, verbose bool) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if dir != "" {
		f, err := openLogFile(dir)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writers = append(writers, f)
		closer = f
	}
	if verbose {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	return log, closer, nil
}

// openLogFile returns a writer for <dir>/golestoon.log that rotates once
// the file grows past maxLogSizeMB.
func openLogFile(dir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, "golestoon.log"),
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
