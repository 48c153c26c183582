package logger

import (
	"github.com/gdugdh24/devmatch-backend/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const service = "matcher"

// New builds the process logger. Outside debug mode repeated messages are
// sampled so a batch with many failing pairs does not flood the output.
func New(cfg config.LoggingConfig, env string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if cfg.JSON {
		encoding = "json"
	}

	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	output := cfg.Output
	if output == "" {
		output = "stdout"
	}

	fields := map[string]any{"service": service}
	if env != "" {
		fields["env"] = env
	}

	zcfg := zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     fields,
		DisableStacktrace: !cfg.Debug,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			NameKey:    "component",
			EncodeName: zapcore.FullNameEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			StacktraceKey: "stacktrace",

			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
	if !cfg.Debug {
		zcfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	return zcfg.Build()
}
