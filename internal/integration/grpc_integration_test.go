package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
)

const actor = "referee@test-host"

// TestGRPC_PauseResume exercises the pause toggle and rejection of a repeated pause.
func TestGRPC_PauseResume(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)

	stop := startServer(t, cfg)
	defer func() {
		require.NoError(t, stop())
	}()

	ctx := context.Background()
	c := dial(t, cfg.ServerAddress)

	view, err := c.GetGame(ctx)
	require.NoError(t, err)
	require.False(t, view.Game.IsPaused)
	require.True(t, view.Legal[codec.ActionKey(action.Pause{})])
	require.False(t, view.Legal[codec.ActionKey(action.Resume{})])

	view, err = c.ApplyAction(ctx, actor, action.Pause{})
	require.NoError(t, err)
	require.True(t, view.Game.IsPaused)
	require.Equal(t, game.StateInitial, view.Game.State)
	require.True(t, view.Legal[codec.ActionKey(action.Resume{})])

	_, err = c.ApplyAction(ctx, actor, action.Pause{})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = c.ApplyAction(ctx, actor, action.WaitForReady{})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	view, err = c.ApplyAction(ctx, actor, action.Resume{})
	require.NoError(t, err)
	require.False(t, view.Game.IsPaused)

	legal, err := c.GetLegalActions(ctx)
	require.NoError(t, err)
	require.True(t, legal[codec.ActionKey(action.WaitForReady{})])

	_, err = os.Stat(cfg.StateFile)
	require.NoError(t, err)

	_, err = c.ListJournal(ctx, 10)
	require.Equal(t, codes.Unimplemented, status.Code(err))
}

// TestGRPC_StateSurvivesRestart restarts the server on the same snapshot.
func TestGRPC_StateSurvivesRestart(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	ctx := context.Background()

	stop := startServer(t, cfg)
	c := dial(t, cfg.ServerAddress)

	_, err := c.ApplyAction(ctx, actor, action.Timeout{Side: game.SideAway})
	require.NoError(t, err)

	_, err = c.ApplyAction(ctx, actor, action.Pause{})
	require.NoError(t, err)

	require.NoError(t, stop())

	stop = startServer(t, cfg)
	defer func() {
		require.NoError(t, stop())
	}()

	view, err := dial(t, cfg.ServerAddress).GetGame(ctx)
	require.NoError(t, err)
	require.True(t, view.Game.IsPaused)
	require.Equal(t, game.StateTimeout, view.Game.State)
	require.Equal(t, game.DefaultParams().TimeoutsPerHalf-1, view.Game.Teams[game.SideAway].TimeoutBudget)
}

// TestGRPC_ClockDrivesReadyToSet lets the ready timer expire on the live clock.
func TestGRPC_ClockDrivesReadyToSet(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Game = config.GameSettings{ReadyDuration: 200 * time.Millisecond}

	stop := startServer(t, cfg)
	defer func() {
		require.NoError(t, stop())
	}()

	ctx := context.Background()
	c := dial(t, cfg.ServerAddress)

	view, err := c.ApplyAction(ctx, actor, action.WaitForReady{})
	require.NoError(t, err)
	require.Equal(t, game.StateReady, view.Game.State)

	require.Eventually(t, func() bool {
		current, getErr := c.GetGame(ctx)

		return getErr == nil && current.Game.State == game.StateSet
	}, 5*time.Second, 20*time.Millisecond)
}

// TestGRPC_Journal records accepted and rejected actions in SQLite.
func TestGRPC_Journal(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.JournalFile = filepath.Join(t.TempDir(), "journal.db")

	stop := startServer(t, cfg)
	defer func() {
		require.NoError(t, stop())
	}()

	ctx := context.Background()
	c := dial(t, cfg.ServerAddress)

	_, err := c.ApplyAction(ctx, actor, action.Pause{})
	require.NoError(t, err)

	_, err = c.ApplyAction(ctx, actor, action.Pause{})
	require.Error(t, err)

	entries, err := c.ListJournal(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Accepted)
	require.False(t, entries[1].Accepted)
	require.Equal(t, actor, entries[0].Actor)
	require.Equal(t, string(action.TypePause), entries[1].Type)
	require.NotEmpty(t, entries[1].Reason)
}
