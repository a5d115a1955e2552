package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config builds the zap configuration used by the cli: console or json
// encoding, info or debug level.
func Config(json bool, debug bool) zap.Config {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	return zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			NameKey: "component",

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
}

// New builds a logger. Logs go to stderr so that command output on stdout
// stays machine readable.
func New(json bool, debug bool) (*zap.Logger, error) {
	logger, err := Config(json, debug).Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
