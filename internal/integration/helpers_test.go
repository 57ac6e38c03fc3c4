package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/service/common"
	"github.com/oshokin/game-controller/internal/service/server"
)

// reservePort returns a free local address for a test server.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

// writeConfig saves cfg to a temporary settings file and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// startServer runs gc-server with cfg until the returned stop function is
// called. stop waits for Run to return and reports its error.
func startServer(t *testing.T, cfg *config.Config) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := writeConfig(t, cfg)
	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	dial(t, cfg.ServerAddress)

	return func() error {
		cancel()

		select {
		case err := <-done:
			return err
		case <-time.After(10 * time.Second):
			t.Fatal("gc-server did not stop")

			return nil
		}
	}
}

// dial connects to addr and waits until the server answers.
func dial(t *testing.T, addr string) *common.Client {
	t.Helper()

	c, err := common.Dial(context.Background(), addr, common.WithCallTimeout(time.Second))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	require.Eventually(t, func() bool {
		_, getErr := c.GetGame(context.Background())

		return getErr == nil
	}, 5*time.Second, 20*time.Millisecond)

	return c
}

// baseConfig returns settings for a server on a fresh port with its own state file.
func baseConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerAddress: reservePort(t),
		StateFile:     filepath.Join(t.TempDir(), "state.json"),
		Timeout:       time.Second,
		TickInterval:  10 * time.Millisecond,
	}
}
