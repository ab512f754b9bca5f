package console

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap routes sink calls into a zap logger. Extra Log arguments become
// structured fields.
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps logger. A nil logger discards output.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger}
}

// NewZapLogger builds a console-encoded zap logger writing to w.
func NewZapLogger(w io.Writer) *zap.Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	config.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(d.String())
	}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	))
}

// Log implements Sink.
func (z *Zap) Log(text string, args ...any) {
	fields := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		key := "data"
		if i > 0 {
			key = fmt.Sprintf("data%d", i)
		}
		fields = append(fields, zap.Any(key, arg))
	}
	z.logger.Info(text, fields...)
}

// Warn implements Sink.
func (z *Zap) Warn(args ...any) {
	z.logger.Warn(joinArgs(args))
}

// Sync flushes the underlying logger.
func (z *Zap) Sync() error {
	return z.logger.Sync()
}
