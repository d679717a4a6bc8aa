package observ

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevels lists the accepted --log-level values.
var LogLevels = []string{"none", "error", "warn", "info", "debug"}

// ParseLogLevel maps a level name to a zap level. ok is false for "none".
func ParseLogLevel(name string) (lvl zapcore.Level, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "":
		return zapcore.InvalidLevel, false, nil
	case "error":
		return zapcore.ErrorLevel, true, nil
	case "warn", "warning":
		return zapcore.WarnLevel, true, nil
	case "info":
		return zapcore.InfoLevel, true, nil
	case "debug":
		return zapcore.DebugLevel, true, nil
	}
	return zapcore.InvalidLevel, false, fmt.Errorf("unknown log level %q (want one of %s)", name, strings.Join(LogLevels, ", "))
}

// NewLogger builds the console logger used by the CLI. Level "none" yields a
// no-op logger.
func NewLogger(level string, w io.Writer, color bool) (*zap.Logger, error) {
	lvl, ok, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	if !ok {
		return zap.NewNop(), nil
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.StacktraceKey = zapcore.OmitKey
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
