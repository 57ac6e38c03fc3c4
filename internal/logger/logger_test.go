package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		"":       zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
	require.Error(t, Configure("verbose"))
}

// TestContextLogger verifies names and fields attached to a context reach entries.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "gc-server")
	ctx = WithKV(ctx, "actor", "referee@field-a")

	InfoKV(ctx, "Action applied", "type", "pause")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "gc-server", entries[0].LoggerName)
	require.Equal(t, "Action applied", entries[0].Message)
	require.Equal(t, "referee@field-a", entries[0].ContextMap()["actor"])
	require.Equal(t, "pause", entries[0].ContextMap()["type"])
}

// TestFromContext_FallsBackToGlobal verifies a bare context uses the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
	require.Same(t, Logger(), FromContext(nil)) //nolint:staticcheck // Nil context handling is part of the contract.
}

// TestDebugKV_RespectsLevel drops debug entries below the core level.
func TestDebugKV_RespectsLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	DebugKV(ctx, "Timer expired", "expiry", "ready")
	require.Zero(t, logs.Len())

	core, logs = observer.New(zapcore.DebugLevel)
	ctx = ToContext(context.Background(), zap.New(core).Sugar())

	DebugKV(ctx, "Timer expired", "expiry", "ready")
	require.Equal(t, 1, logs.FilterMessage("Timer expired").Len())
}
