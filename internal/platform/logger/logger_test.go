package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tthornvik/task-api/internal/config"
)

func TestSetup(t *testing.T) {
	// Not parallel: Setup mutates the process-wide default logger.
	origDefault := slog.Default()
	defer slog.SetDefault(origDefault)

	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"case insensitive", "DEBUG"},
		{"invalid level falls back to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "test")
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, nil))
}

func TestFromContextFallbacks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	assert.Same(t, slog.Default(), FromContext(ctx))
	assert.Same(t, def, FromContextOrDefault(ctx, def))
	assert.Same(t, slog.Default(), FromContextOrDefault(ctx, nil))
	assert.Same(t, slog.Default(), FromContext(nil)) //nolint:staticcheck // exercising nil-context fallback
}
