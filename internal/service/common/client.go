//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/game-controller/internal/api/grpc/controller"
	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
	"github.com/oshokin/game-controller/internal/repository/journal"
)

// GameView is the game as seen by a client together with its legal actions,
// keyed by codec.ActionKey.
type GameView struct {
	Game  *game.Game
	Legal map[string]bool
}

// Client wraps the gRPC ControllerService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to gc-server.
	conn *grpc.ClientConn
	// api is the ControllerService client stub.
	api api.ControllerServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errActorRequired is returned when an actor is not provided but is required for the operation.
	errActorRequired = errors.New("actor must be provided")
	// errActionRequired is returned when no action is given to ApplyAction.
	errActionRequired = errors.New("action must be provided")
)

// Dial establishes a gRPC connection to gc-server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial game controller: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewControllerServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ApplyAction submits a on behalf of actor and returns the resulting view.
// Rejections keep their gRPC status so callers can inspect the code.
func (c *Client) ApplyAction(ctx context.Context, actor string, a action.Action) (*GameView, error) {
	if actor == "" {
		return nil, errActorRequired
	}

	if a == nil {
		return nil, errActionRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"actor":  structpb.NewStringValue(actor),
			"action": structpb.NewStructValue(codec.EncodeAction(a)),
		},
	}

	response, err := c.api.ApplyAction(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", a.Type(), err)
	}

	return decodeView(response)
}

// GetGame retrieves the current game and its legal actions.
func (c *Client) GetGame(ctx context.Context) (*GameView, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetGame(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	return decodeView(response)
}

// GetLegalActions retrieves only the legal-action map.
func (c *Client) GetLegalActions(ctx context.Context) (map[string]bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetLegalActions(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get legal actions: %w", err)
	}

	return codec.DecodeLegal(response), nil
}

// ListJournal retrieves up to limit most recent journal entries.
func (c *Client) ListJournal(ctx context.Context, limit int) ([]journal.Entry, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"limit": structpb.NewNumberValue(float64(limit)),
		},
	}

	response, err := c.api.ListJournal(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	entries, err := codec.DecodeEntries(response)
	if err != nil {
		return nil, fmt.Errorf("decode journal: %w", err)
	}

	return entries, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

func decodeView(response *structpb.Struct) (*GameView, error) {
	g, legal, err := codec.DecodeView(response)
	if err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}

	return &GameView{Game: g, Legal: legal}, nil
}
