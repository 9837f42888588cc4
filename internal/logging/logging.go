// Where: internal/logging/logging.go
// What: Diagnostic logger construction.
// Why: Keep debug tracing off the user-facing console unless asked for.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	// Level is the raw ITCHDEPLOY_LOG_LEVEL value; it wins over Verbose when valid.
	Level   string
	NoColor bool
}

// New returns a text logger writing to out.
// The default level is warn; Verbose raises it to debug.
func New(out io.Writer, opts Options) *logrus.Logger {
	logger := logrus.New()
	if out == nil {
		out = io.Discard
	}
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    opts.NoColor,
		DisableTimestamp: true,
	})

	level := logrus.WarnLevel
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	if parsed, ok := ParseLevel(opts.Level); ok {
		level = parsed
	}
	logger.SetLevel(level)
	return logger
}

// Discard returns a logger that drops everything. Used as the nil default.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// ParseLevel maps a level name to a logrus level.
func ParseLevel(raw string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return logrus.WarnLevel, false
	case "trace":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "info":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "off", "none", "disabled":
		return logrus.PanicLevel, true
	default:
		return logrus.WarnLevel, false
	}
}
