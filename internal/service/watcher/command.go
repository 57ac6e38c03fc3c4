package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/domain/game"
	"github.com/oshokin/game-controller/internal/logger"
	"github.com/oshokin/game-controller/internal/service/common"
)

// Options controls the watcher polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between game checks.
	PollInterval time.Duration
}

// DefaultPollInterval defines the polling interval when none is given.
const DefaultPollInterval = time.Second

// gameReader is the part of common.Client the watcher uses.
type gameReader interface {
	GetGame(ctx context.Context) (*common.GameView, error)
}

// Run polls the game and logs every lifecycle, pause or score change until
// ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "gc-watch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger.InfoKV(ctx, "Watching game", "server_address", serverAddress, "interval", interval.String())

	watch(ctx, client, interval)

	return nil
}

// watch polls reader every interval until ctx is done.
func watch(ctx context.Context, reader gameReader, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *game.Game

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return
		case <-ticker.C:
			view, err := reader.GetGame(ctx)
			if err != nil {
				logger.ErrorKV(ctx, "Get game failed", "error", err)
				continue
			}

			for _, change := range diff(last, view.Game) {
				logger.InfoKV(ctx, change.message, change.kv...)
			}

			last = view.Game
		}
	}
}

type change struct {
	message string
	kv      []any
}

// diff lists what a watcher reports between two polls. A nil prev reports
// the full current state once.
func diff(prev, next *game.Game) []change {
	if next == nil {
		return nil
	}

	if prev == nil {
		return []change{{
			message: "Game state",
			kv: []any{
				"phase", next.Phase, "state", next.State, "is_paused", next.IsPaused,
				"score", score(next),
			},
		}}
	}

	var changes []change

	if prev.Phase != next.Phase || prev.State != next.State {
		changes = append(changes, change{
			message: "State changed",
			kv:      []any{"phase", next.Phase, "from", prev.State, "to", next.State},
		})
	}

	if prev.IsPaused != next.IsPaused {
		message := "Game resumed"
		if next.IsPaused {
			message = "Game paused"
		}

		changes = append(changes, change{message: message, kv: []any{"state", next.State}})
	}

	if score(prev) != score(next) {
		changes = append(changes, change{message: "Score changed", kv: []any{"score", score(next)}})
	}

	return changes
}

func score(g *game.Game) string {
	return fmt.Sprintf("%d:%d", g.Teams[game.SideHome].Score, g.Teams[game.SideAway].Score)
}
