package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

// TestOpenRequiresPath verifies an empty path is rejected.
func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), " ")
	require.ErrorIs(t, err, errPathRequired)
}

// TestOpen_ReappliesNothing verifies reopening an existing journal keeps entries.
func TestOpen_ReappliesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)

	_, err = store.Append(ctx, Entry{Type: "pause", Accepted: true, GameState: "playing"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)

	defer store.Close()

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestAppendList_Roundtrip ensures appended entries come back in order with all fields.
func TestAppendList_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	at := time.Date(2026, time.July, 1, 15, 4, 5, 0, time.UTC)

	first, err := store.Append(ctx, Entry{
		At:        at,
		Actor:     "referee@field-a",
		Type:      "goal",
		Payload:   `{"type":"goal","args":{"side":"home"}}`,
		Accepted:  true,
		GameState: "ready",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := store.Append(ctx, Entry{
		At:        at.Add(time.Second),
		Actor:     "referee@field-a",
		Type:      "resume",
		Payload:   `{"type":"resume","args":null}`,
		Reason:    `illegal action: action "resume" is not legal in the current state`,
		GameState: "ready",
	})
	require.NoError(t, err)

	entries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []Entry{first, second}, entries)
}

// TestList_Limit returns only the most recent entries.
func TestList_Limit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)

	for _, typ := range []string{"waitForReady", "waitForSet", "startPlaying"} {
		_, err := store.Append(ctx, Entry{Type: typ, Accepted: true})
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "waitForSet", entries[0].Type)
	require.Equal(t, "startPlaying", entries[1].Type)
}

// TestAppend_Errors covers validation and cancelled contexts.
func TestAppend_Errors(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	_, err := store.Append(context.Background(), Entry{})
	require.ErrorIs(t, err, errTypeRequired)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Append(ctx, Entry{Type: "pause"})
	require.ErrorIs(t, err, context.Canceled)

	_, err = store.List(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)

	var nilStore *Store
	_, err = nilStore.Append(context.Background(), Entry{Type: "pause"})
	require.ErrorIs(t, err, errNotConfigured)
	require.NoError(t, nilStore.Close())
}

// TestUpSection extracts the Up part of a migration.
func TestUpSection(t *testing.T) {
	t.Parallel()

	require.Equal(t, "\nCREATE;\n", upSection("-- +migrate Up\nCREATE;\n-- +migrate Down\nDROP;"))
	require.Equal(t, "CREATE;", upSection("CREATE;"))
}
