package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newTestConfig(level string) *config.Config {
	return &config.Config{
		Env: "local",
		App: config.App{Name: "pickup-reassign", Version: "test"},
		Logger: config.Logger{
			Level:      level,
			MaxSize:    1,
			MaxBackups: 1,
			MaxAge:     1,
		},
	}
}

func TestAdapter_LogAttrsCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewAdapter(newTestConfig("info"), logger.WithOutput(zapcore.AddSync(&buf)))
	require.NoError(t, err)

	ctx := log.WithRequestID(context.Background(), "req-1")
	log.LogAttrs(ctx, logger.InfoLevel, "order classified",
		logger.String("order_id", "42"),
		logger.Bool("pickup", true),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "order classified", entry["msg"])
	require.Equal(t, "req-1", entry["request_id"])
	require.Equal(t, "42", entry["order_id"])
	require.Equal(t, "pickup-reassign", entry["service"])
}

func TestAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewAdapter(newTestConfig("warn"), logger.WithOutput(zapcore.AddSync(&buf)))
	require.NoError(t, err)
	require.Equal(t, logger.WarnLevel, log.Level())

	log.Infow("dropped")
	log.Warnw("kept", "shipment_id", "s-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], `"kept"`)
}

func TestNewAdapter_InvalidLevel(t *testing.T) {
	_, err := logger.NewAdapter(newTestConfig("verbose"))
	require.Error(t, err)
}

func TestRequestID(t *testing.T) {
	require.Equal(t, "", logger.RequestID(context.Background()))
	log := logger.NewNop()
	ctx := log.WithRequestID(context.Background(), "abc")
	require.Equal(t, "abc", logger.RequestID(ctx))
}
