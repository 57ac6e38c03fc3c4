package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/domain/game"
)

// Repository defines persistence operations for game snapshots.
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Snapshot is a saved game together with the moment it was taken.
type Snapshot struct {
	Game    *game.Game
	SavedAt time.Time
}

// FileRepository persists game snapshots to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON snapshot file.
	path string
	// mu protects concurrent access to the snapshot file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the snapshot file does not exist yet.
	ErrNotFound = errors.New("state not found")
	// errEmptySnapshot is returned when Save is called without a game.
	errEmptySnapshot = errors.New("snapshot has no game")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var record structpb.Struct
	if err = protojson.Unmarshal(contents, &record); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	fields := record.GetFields()

	g, err := codec.DecodeGame(fields["game"].GetStructValue())
	if err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	snapshot := &Snapshot{Game: g}

	if raw := fields["savedAt"].GetStringValue(); raw != "" {
		if snapshot.SavedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("decode saved at: %w", err)
		}
	}

	return snapshot, nil
}

// Save writes the snapshot to disk. The file is replaced atomically.
func (r *FileRepository) Save(ctx context.Context, snapshot *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot == nil || snapshot.Game == nil {
		return errEmptySnapshot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fields := map[string]*structpb.Value{
		"game": structpb.NewStructValue(codec.EncodeGame(snapshot.Game)),
	}

	if !snapshot.SavedAt.IsZero() {
		fields["savedAt"] = structpb.NewStringValue(snapshot.SavedAt.UTC().Format(time.RFC3339Nano))
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(&structpb.Struct{Fields: fields})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
