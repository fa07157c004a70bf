package crispr

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// logLevel is a configurable log level
	verboseLogging bool

	logLevel = zap.LevelEnablerFunc(func(level zapcore.Level) bool {

		// true: log message at this level
		// false: skip message at this level
		if verboseLogging {
			return level >= zapcore.DebugLevel
		} else {
			return level >= zapcore.InfoLevel
		}
	})

	l = zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			logLevel,
		),
	)

	// rlog is the default sugared logger
	rlog = l.Sugar()

	// stderr is for warning the user (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

func SetVerboseLogging() {
	verboseLogging = true
}
