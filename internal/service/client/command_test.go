package client

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
	"github.com/oshokin/game-controller/internal/service/common"
)

// scriptedClient returns the scripted errors in order, then succeeds.
type scriptedClient struct {
	errs  []error
	calls int
}

func (c *scriptedClient) ApplyAction(context.Context, string, action.Action) (*common.GameView, error) {
	c.calls++

	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]

		return nil, err
	}

	return &common.GameView{Game: game.NewGame(game.DefaultParams())}, nil
}

// TestSubmit_RetriesTransportFailures keeps trying while the server is unreachable.
func TestSubmit_RetriesTransportFailures(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		client := &scriptedClient{errs: []error{
			status.Error(codes.Unavailable, "connection refused"),
			status.Error(codes.Unavailable, "connection reset"),
		}}

		start := time.Now()

		require.NoError(t, submit(context.Background(), client, "referee@field-a", action.Pause{}, time.Second))
		require.Equal(t, 3, client.calls)
		require.Equal(t, 2*time.Second, time.Since(start))
	})
}

// TestSubmit_StopsOnRejection reports illegal actions without retrying.
func TestSubmit_StopsOnRejection(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{errs: []error{
		status.Error(codes.FailedPrecondition, `illegal action: action "resume" is not legal in the current state`),
	}}

	err := submit(context.Background(), client, "referee@field-a", action.Resume{}, time.Second)
	require.ErrorIs(t, err, ErrRejected)
	require.Contains(t, err.Error(), "resume")
	require.Equal(t, 1, client.calls)
}

// TestSubmit_TimeoutIsNotRetried reports a timed out call instead of sending
// a second copy that the first one may already have made illegal.
func TestSubmit_TimeoutIsNotRetried(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{errs: []error{
		status.Error(codes.DeadlineExceeded, "context deadline exceeded"),
		status.Error(codes.FailedPrecondition, `illegal action: action "pause" is not legal in the current state`),
	}}

	err := submit(context.Background(), client, "referee@field-a", action.Pause{}, time.Second)
	require.ErrorIs(t, err, ErrOutcomeUnknown)
	require.NotErrorIs(t, err, ErrRejected)
	require.Equal(t, codes.DeadlineExceeded, status.Code(err))
	require.Equal(t, 1, client.calls)
}

// TestSubmit_StopsOnPermanentErrors does not retry malformed requests.
func TestSubmit_StopsOnPermanentErrors(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{errs: []error{status.Error(codes.InvalidArgument, "bad record")}}

	err := submit(context.Background(), client, "referee@field-a", action.Pause{}, time.Second)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Equal(t, 1, client.calls)
}

// TestSubmit_Canceled returns the context error while retrying.
func TestSubmit_Canceled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()

		errs := make([]error, 10)
		for i := range errs {
			errs[i] = status.Error(codes.Unavailable, "connection refused")
		}

		client := &scriptedClient{errs: errs}

		err := submit(ctx, client, "referee@field-a", action.Pause{}, time.Second)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, 3, client.calls)
	})
}

// TestRun_RequiresAction rejects empty options before loading settings.
func TestRun_RequiresAction(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Run(context.Background(), new(Options)), errNoAction)
}

// TestParseAction covers every argument shape.
func TestParseAction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		args []string
		want action.Action
	}{
		{[]string{"pause"}, action.Pause{}},
		{[]string{"switchHalf"}, action.SwitchHalf{}},
		{[]string{"goal", "home"}, action.Goal{Side: game.SideHome}},
		{[]string{"timeout", "away"}, action.Timeout{Side: game.SideAway}},
		{
			[]string{"penalize", "away", "3", "playerPushing"},
			action.Penalize{Side: game.SideAway, Player: 3, Call: game.PenaltyPushing},
		},
		{[]string{"unpenalize", "home", "7"}, action.Unpenalize{Side: game.SideHome, Player: 7}},
	}

	for _, tc := range cases {
		got, err := ParseAction(tc.args)
		require.NoError(t, err, tc.args)
		require.Equal(t, tc.want, got)
	}

	_, err := ParseAction(nil)
	require.ErrorIs(t, err, errNoActionType)

	_, err = ParseAction([]string{"fly"})
	require.ErrorIs(t, err, codec.ErrUnknownActionType)

	_, err = ParseAction([]string{"goal"})
	require.ErrorIs(t, err, codec.ErrInvalidArgs)

	_, err = ParseAction([]string{"unpenalize", "home", "three"})
	require.ErrorIs(t, err, codec.ErrInvalidArgs)

	_, err = ParseAction([]string{"goal", "left"})
	require.ErrorIs(t, err, codec.ErrInvalidArgs)
}
