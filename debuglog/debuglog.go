// Package debuglog is the interpreter's diagnostic channel. It writes
// to a log file, never to the player-facing transcript, and can be
// toggled at runtime without losing the sink.
package debuglog

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger behind a runtime on/off switch.
// The zero value is a valid disabled logger.
type Logger struct {
	enabled atomic.Bool
	log     *zap.SugaredLogger
}

// New builds a logger writing to path. Debug output starts disabled;
// call SetEnabled to switch it on.
func New(path string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncoderConfig.ConsoleSeparator = "  "
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building debug logger: %w", err)
	}
	return &Logger{log: z.Sugar()}, nil
}

// Nop returns a logger that never writes, for tests and plain runs.
func Nop() *Logger {
	return &Logger{log: zap.NewNop().Sugar()}
}

// SetEnabled toggles debug output at runtime.
func (l *Logger) SetEnabled(on bool) {
	l.enabled.Store(on)
}

// Enabled reports the current switch state.
func (l *Logger) Enabled() bool {
	return l.enabled.Load()
}

// Debugf logs a formatted line when the switch is on.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || l.log == nil || !l.enabled.Load() {
		return
	}
	l.log.Debugf(format, args...)
}

// Warnf logs regardless of the debug switch; reserved for authoring
// errors the player should not see twice.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warnf(format, args...)
}

// Sync flushes buffered output. Safe on a disabled or nil logger.
func (l *Logger) Sync() {
	if l == nil || l.log == nil {
		return
	}
	_ = l.log.Sync()
}
