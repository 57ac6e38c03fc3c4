package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Registers the "sqlite" database/sql driver.

	"github.com/oshokin/game-controller/internal/repository/journal/migrations"
)

// Entry is one submitted action and its outcome.
type Entry struct {
	// ID uniquely identifies the entry.
	ID uuid.UUID
	// At is when the action was submitted.
	At time.Time
	// Actor identifies who submitted the action, e.g. "referee@field-a".
	Actor string
	// Type is the action type name.
	Type string
	// Payload is the action record as JSON.
	Payload string
	// Accepted is false when the action was rejected.
	Accepted bool
	// Reason holds the rejection message of a rejected action.
	Reason string
	// GameState is the game state after the action was handled.
	GameState string
}

// Recorder is implemented by journals the server writes to.
type Recorder interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, limit int) ([]Entry, error)
}

const (
	// DefaultListLimit is used when List is called with a non-positive limit.
	DefaultListLimit = 100
	// MaxListLimit caps how many entries one List call returns.
	MaxListLimit = 1000
)

var (
	errPathRequired  = errors.New("storage path is required")
	errNotConfigured = errors.New("storage is not configured")
	errTypeRequired  = errors.New("action type is required")
)

// Store persists journal entries in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite journal and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errPathRequired
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err = applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

// Append stores entry, filling ID and At when unset, and returns the stored entry.
func (s *Store) Append(ctx context.Context, entry Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	if s == nil || s.sqlDB == nil {
		return Entry{}, errNotConfigured
	}

	if strings.TrimSpace(entry.Type) == "" {
		return Entry{}, errTypeRequired
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	entry.At = entry.At.UTC()

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO journal_entries (id, at, actor, action_type, payload, accepted, reason, game_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.At.UnixMilli(),
		entry.Actor,
		entry.Type,
		entry.Payload,
		entry.Accepted,
		entry.Reason,
		entry.GameState,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append journal entry: %w", err)
	}

	entry.At = time.UnixMilli(entry.At.UnixMilli()).UTC()

	return entry, nil
}

// List returns up to limit most recent entries, oldest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, at, actor, action_type, payload, accepted, reason, game_state FROM (
		   SELECT * FROM journal_entries ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			entry Entry
			id    string
			at    int64
		)

		if err = rows.Scan(&id, &at, &entry.Actor, &entry.Type, &entry.Payload,
			&entry.Accepted, &entry.Reason, &entry.GameState); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}

		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse journal entry id: %w", err)
		}

		entry.At = time.UnixMilli(at).UTC()
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}
