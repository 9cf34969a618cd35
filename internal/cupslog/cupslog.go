/* cups4j - Structured logger built on go.uber.org/zap.
 *
 * See LICENSE for license terms and conditions
 */

// Package cupslog provides the structured logger used by the transport
// and operations layers. It wraps go.uber.org/zap around a size- and
// generation-capped rotating writer.
package cupslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the ipp-usb logger's level gating (Error/Info/Debug/
// Trace), mapped onto zapcore's own level type.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelDebug:
		return zapcore.DebugLevel
	default: // LevelTrace: zap has no finer level, Debug is the floor
		return zapcore.DebugLevel
	}
}

// New builds a logger that writes level-gated, JSON-encoded records to
// w. No log record written by this package's callers ever carries
// document bytes.
func New(level Level, w zapcore.WriteSyncer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), w, level.zapLevel())
	return zap.New(core)
}

var nop = zap.NewNop()

// Nop returns a logger that discards everything, used as the default
// when a caller does not configure one.
func Nop() *zap.Logger { return nop }
