// Package tracklog wraps charmbracelet/log with the per-channel contextual
// fields a parallel tracking run needs (prn, stage), replacing the
// teacher's global text_color_set(DW_COLOR_*)/dw_printf convention (one
// colour per severity, one call site per log event) with structured,
// levelled logging.
package tracklog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is a thin facade over *log.Logger exposing the same four-level
// taxonomy the teacher's dw_printf call sites use: DEBUG, INFO, WARN(ing),
// ERROR (EROR in the teacher's fixed-width convention).
type Logger struct {
	base *log.Logger
}

// New builds a Logger writing to os.Stderr at the given minimum level.
func New(level log.Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter builds a Logger writing to an arbitrary io.Writer, used in
// production for os.Stderr and in tests for an in-memory buffer.
func NewWithWriter(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return &Logger{base: l}
}

// WithChannel returns a Logger that tags every subsequent event with the
// channel's PRN, the way the teacher's per-channel log lines are prefixed
// with a channel number.
func (l *Logger) WithChannel(prn int) *Logger {
	return &Logger{base: l.base.With("prn", prn)}
}

// WithStage tags every subsequent event with the current tracking stage
// (1 or 2), so a handover is visible in the log stream without threading a
// stage parameter through every call site.
func (l *Logger) WithStage(stage int) *Logger {
	return &Logger{base: l.base.With("stage", stage)}
}

func (l *Logger) Debug(msg string, keyvals ...any) { l.base.Debug(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...any)  { l.base.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.base.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.base.Error(msg, keyvals...) }
