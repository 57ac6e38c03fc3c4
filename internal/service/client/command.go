package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/logger"
	"github.com/oshokin/game-controller/internal/service/common"
)

// Options configures gc-action.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Actor overrides the detected username@hostname.
	Actor string
	// Action is the action to submit.
	Action action.Action
	// RetryInterval is the delay between attempts while the server is unreachable.
	RetryInterval time.Duration
}

// defaultRetryInterval defines retry delay when the server cannot be reached.
const defaultRetryInterval = 1 * time.Second

var (
	// ErrRejected is returned when the server refuses the action as illegal.
	ErrRejected = errors.New("action rejected")
	// ErrOutcomeUnknown is returned when a call ended after the request may
	// have been applied. Check the game before submitting again.
	ErrOutcomeUnknown = errors.New("action outcome unknown")
	// errNoAction is returned when Options carry no action.
	errNoAction = errors.New("no action to submit")
)

// actionClient is the part of common.Client gc-action uses.
type actionClient interface {
	ApplyAction(ctx context.Context, actor string, a action.Action) (*common.GameView, error)
}

// Run submits opts.Action, retrying while the server is unreachable.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "gc-action")

	if opts.Action == nil {
		return errNoAction
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor := opts.Actor
	if actor == "" {
		if actor, err = common.DetectActor(); err != nil {
			return err
		}
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Submitting action", "server_address", serverAddress, "type", opts.Action.Type(), "actor", actor)

	interval := opts.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	return submit(ctx, client, actor, opts.Action, interval)
}

// submit tries once immediately and then every interval while the server is
// unavailable. A request that may have reached the server is never sent
// again, since a second copy would be judged against the state the first one
// produced.
func submit(ctx context.Context, client actionClient, actor string, a action.Action, interval time.Duration) error {
	// attempt tries once to apply the action, returns (completed, error).
	attempt := func() (bool, error) {
		view, err := client.ApplyAction(ctx, actor, a)
		if err == nil {
			logger.InfoKV(ctx, "Action applied", "type", a.Type(),
				"state", view.Game.State, "is_paused", view.Game.IsPaused)

			return true, nil
		}

		switch status.Code(err) {
		case codes.Unavailable:
			logger.ErrorKV(ctx, "ApplyAction failed, retrying", "error", err)

			return false, nil
		case codes.FailedPrecondition:
			return false, fmt.Errorf("%w: %s", ErrRejected, status.Convert(err).Message())
		case codes.DeadlineExceeded, codes.Canceled:
			return false, fmt.Errorf("%w: %w", ErrOutcomeUnknown, err)
		default:
			return false, err
		}
	}

	if done, err := attempt(); err != nil || done {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := attempt()
			if err != nil || done {
				return err
			}
		}
	}
}
