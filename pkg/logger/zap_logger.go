package logger

import (
	"fmt"
	"os"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	_defaultMaxSize    = 100
	_defaultMaxBackups = 7
	_defaultMaxAge     = 30
)

type ZapLogger struct {
	logger *zap.Logger
	level  zapcore.Level
	out    zapcore.WriteSyncer

	maxSize    int
	maxBackups int
	maxAge     int
}

func NewZapLogger(cfg *config.Config, opts ...Option) (*ZapLogger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		FunctionKey:   zapcore.OmitKey,
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger.NewZapLogger: parse level: %w", err)
	}

	logger := &ZapLogger{
		maxSize:    orDefault(cfg.Logger.MaxSize, _defaultMaxSize),
		maxBackups: orDefault(cfg.Logger.MaxBackups, _defaultMaxBackups),
		maxAge:     orDefault(cfg.Logger.MaxAge, _defaultMaxAge),
		level:      level,
		out:        zapcore.AddSync(os.Stdout),
	}

	for _, opt := range opts {
		opt(logger)
	}

	if err = logger.validate(); err != nil {
		return nil, fmt.Errorf("logger.NewZapLogger: validation: %w", err)
	}

	syncers := []zapcore.WriteSyncer{logger.out}
	if cfg.Logger.Filename != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    logger.maxSize,
			MaxBackups: logger.maxBackups,
			MaxAge:     logger.maxAge,
			Compress:   true,
		}))
	}

	minLevel := logger.level
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= minLevel
		}),
	)

	return &ZapLogger{
		logger: zap.New(core,
			zap.Fields(
				zap.String("service", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("env", cfg.Env),
			),
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		),
		level: minLevel,
	}, nil
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
