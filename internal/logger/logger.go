// Package logger is rawc's process-wide structured logger, a thin
// zap.SugaredLogger wrapper that keeps the small call surface the rest of
// the tree already expects (Printf/Println/Fatal/Fatalf) while giving every
// message a level and a consistent "rawc" field set.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var std = newLogger(os.Stderr)

func newLogger(output *os.File) *zap.SugaredLogger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zapcore.DebugLevel)
	return zap.New(core, zap.AddCallerSkip(1)).Sugar().Named("rawc")
}

// SetOutput redirects future log lines to output, rebuilding the underlying
// zap core (zap has no stable "swap sink" knob on an already-built logger).
func SetOutput(output *os.File) {
	std = newLogger(output)
}

func Printf(format string, v ...interface{}) { std.Infof(format, v...) }
func Println(v ...interface{})               { std.Info(v...) }
func Fatal(v ...interface{})                 { std.Fatal(v...) }
func Fatalf(format string, v ...interface{}) { std.Fatalf(format, v...) }


// Warnf reports a recoverable condition, the level diag.LogSink uses to
// mirror diag.Diagnostic records (§7).
func Warnf(format string, v ...interface{}) { std.Warnf(format, v...) }
