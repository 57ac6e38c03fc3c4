package watcher

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/game-controller/internal/domain/game"
	"github.com/oshokin/game-controller/internal/service/common"
)

// TestDiff reports only what changed between polls.
func TestDiff(t *testing.T) {
	t.Parallel()

	require.Nil(t, diff(nil, nil))

	start := game.NewGame(game.DefaultParams())

	initial := diff(nil, start)
	require.Len(t, initial, 1)
	require.Equal(t, "Game state", initial[0].message)

	require.Empty(t, diff(start, start.Clone()))

	next := start.Clone()
	next.State = game.StateReady
	next.IsPaused = true
	next.Teams[game.SideAway].Score = 1

	changes := diff(start, next)
	require.Len(t, changes, 3)
	require.Equal(t, "State changed", changes[0].message)
	require.Equal(t, "Game paused", changes[1].message)
	require.Equal(t, "Score changed", changes[2].message)
	require.Equal(t, []any{"score", "0:1"}, changes[2].kv)

	require.Equal(t, "Game resumed", diff(next, start)[1].message)
}

type countingReader struct {
	mu    sync.Mutex
	calls int
}

func (r *countingReader) GetGame(context.Context) (*common.GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	return &common.GameView{Game: game.NewGame(game.DefaultParams())}, nil
}

// TestWatch polls on every interval and stops with the context.
func TestWatch(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 3500*time.Millisecond)
		defer cancel()

		reader := new(countingReader)
		watch(ctx, reader, time.Second)

		require.Equal(t, 3, reader.calls)
	})
}
