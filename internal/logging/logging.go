package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	return zerolog.New(consoleOrRaw(format, os.Stderr)).With().Timestamp().Logger()
}

// SetupWithFile initializes a logger that writes to stderr and, additionally,
// to analytics.log inside dir. The returned closer owns the log file.
func SetupWithFile(format, dir string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(filepath.Join(dir, "analytics.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	w := zerolog.MultiLevelWriter(consoleOrRaw(format, os.Stderr), f)
	return zerolog.New(w).With().Timestamp().Logger(), f, nil
}

func consoleOrRaw(format string, out io.Writer) io.Writer {
	if format == "text" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return out
}
