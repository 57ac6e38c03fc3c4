package action

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/game-controller/internal/domain/game"
)

// TestLifecycle_FullHalf drives a half from initial to the second half.
func TestLifecycle_FullHalf(t *testing.T) {
	t.Parallel()

	c := newContext(game.StateInitial, false)

	require.NoError(t, Apply(c, WaitForReady{}))
	require.Equal(t, game.StateReady, c.Game.State)
	require.Equal(t, game.Timer{Remaining: c.Params.ReadyDuration, Running: true}, c.Game.SecondaryTimer)
	require.False(t, c.Game.PrimaryTimer.Running)

	require.NoError(t, Apply(c, WaitForSet{}))
	require.Equal(t, game.StateSet, c.Game.State)
	require.Equal(t, game.Timer{}, c.Game.SecondaryTimer)

	require.NoError(t, Apply(c, StartPlaying{}))
	require.Equal(t, game.StatePlaying, c.Game.State)
	require.True(t, c.Game.PrimaryTimer.Running)

	require.NoError(t, Apply(c, FinishHalf{}))
	require.Equal(t, game.StateFinished, c.Game.State)
	require.False(t, c.Game.PrimaryTimer.Running)

	c.Game.Teams[game.SideHome].TimeoutBudget = 0
	c.Game.Teams[game.SideHome].Players[1].Penalty = game.PenaltyPushing

	require.NoError(t, Apply(c, SwitchHalf{}))
	require.Equal(t, game.PhaseSecondHalf, c.Game.Phase)
	require.Equal(t, game.StateInitial, c.Game.State)
	require.Equal(t, game.SideAway, c.Game.KickingSide)
	require.Equal(t, game.Timer{Remaining: c.Params.HalfDuration}, c.Game.PrimaryTimer)
	require.Equal(t, c.Params.TimeoutsPerHalf, c.Game.Teams[game.SideHome].TimeoutBudget)
	require.Equal(t, game.PenaltyNone, c.Game.Teams[game.SideHome].Players[1].Penalty)

	// There is no third half.
	require.NoError(t, Apply(c, WaitForReady{}))
	require.NoError(t, Apply(c, FinishHalf{}))
	require.ErrorIs(t, Apply(c, SwitchHalf{}), ErrIllegalAction)
}

// TestLifecycle_Predicates checks which transitions each state allows.
func TestLifecycle_Predicates(t *testing.T) {
	t.Parallel()

	legal := map[Type][]game.State{
		TypeWaitForReady: {game.StateInitial, game.StateTimeout},
		TypeWaitForSet:   {game.StateReady},
		TypeStartPlaying: {game.StateSet},
		TypeFinishHalf:   {game.StateReady, game.StateSet, game.StatePlaying},
		TypeSwitchHalf:   {game.StateFinished},
	}

	actions := map[Type]Action{
		TypeWaitForReady: WaitForReady{},
		TypeWaitForSet:   WaitForSet{},
		TypeStartPlaying: StartPlaying{},
		TypeFinishHalf:   FinishHalf{},
		TypeSwitchHalf:   SwitchHalf{},
	}

	for typ, a := range actions {
		for _, state := range allStates {
			want := false

			for _, s := range legal[typ] {
				if s == state {
					want = true
				}
			}

			require.Equal(t, want, a.IsLegal(newContext(state, false)), "%s in %s", typ, state)
			require.False(t, a.IsLegal(newContext(state, true)), "%s in paused %s", typ, state)
		}
	}
}

// TestGoal verifies scoring, kick-off change and rejection outside play.
func TestGoal(t *testing.T) {
	t.Parallel()

	c := newContext(game.StatePlaying, false)
	c.Game.PrimaryTimer = game.Timer{Remaining: time.Minute, Running: true}

	require.NoError(t, Apply(c, Goal{Side: game.SideHome}))
	require.Equal(t, uint8(1), c.Game.Teams[game.SideHome].Score)
	require.Equal(t, uint8(0), c.Game.Teams[game.SideAway].Score)
	require.Equal(t, game.SideAway, c.Game.KickingSide)
	require.Equal(t, game.StateReady, c.Game.State)
	require.Equal(t, game.Timer{Remaining: time.Minute}, c.Game.PrimaryTimer)

	require.ErrorIs(t, Apply(c, Goal{Side: game.SideAway}), ErrIllegalAction)
	require.ErrorIs(t, Apply(newContext(game.StatePlaying, true), Goal{}), ErrIllegalAction)
	require.ErrorIs(t, Apply(newContext(game.StatePlaying, false), Goal{Side: 9}), ErrIllegalAction)
}

// TestGoal_ScoreCeiling rejects a goal that would overflow the score.
func TestGoal_ScoreCeiling(t *testing.T) {
	t.Parallel()

	c := newContext(game.StatePlaying, false)
	c.Game.Teams[game.SideHome].Score = math.MaxUint8
	before := c.Game.Clone()

	require.ErrorIs(t, Apply(c, Goal{Side: game.SideHome}), ErrIllegalAction)
	require.Equal(t, before, c.Game)

	c.Game.Teams[game.SideHome].Score = math.MaxUint8 - 1
	require.NoError(t, Apply(c, Goal{Side: game.SideHome}))
	require.Equal(t, uint8(math.MaxUint8), c.Game.Teams[game.SideHome].Score)
}

// TestTimeout verifies the budget is consumed and enforced.
func TestTimeout(t *testing.T) {
	t.Parallel()

	c := newContext(game.StateReady, false)

	require.NoError(t, Apply(c, Timeout{Side: game.SideAway}))
	require.Equal(t, game.StateTimeout, c.Game.State)
	require.Equal(t, uint(0), c.Game.Teams[game.SideAway].TimeoutBudget)
	require.Equal(t, game.SideHome, c.Game.KickingSide)
	require.Equal(t, game.Timer{Remaining: c.Params.TimeoutDuration, Running: true}, c.Game.SecondaryTimer)

	require.NoError(t, Apply(c, WaitForReady{}))

	before := c.Game.Clone()
	require.ErrorIs(t, Apply(c, Timeout{Side: game.SideAway}), ErrIllegalAction)
	require.Equal(t, before, c.Game)

	require.False(t, Timeout{Side: game.SideHome}.IsLegal(newContext(game.StatePlaying, false)))
	require.False(t, Timeout{Side: game.SideHome}.IsLegal(newContext(game.StateSet, true)))
}

// TestPenalize verifies penalties are recorded, also while paused.
func TestPenalize(t *testing.T) {
	t.Parallel()

	c := newContext(game.StatePlaying, true)
	a := Penalize{Side: game.SideAway, Player: 3, Call: game.PenaltyPushing}

	require.NoError(t, Apply(c, a))

	p := c.Game.Player(game.SideAway, 3)
	require.Equal(t, game.PenaltyPushing, p.Penalty)
	require.Equal(t, game.Timer{Remaining: c.Params.PenaltyDuration, Running: true}, p.PenaltyTimer)
	require.Equal(t, uint(1), c.Game.Teams[game.SideAway].PenaltyCounter)
	require.True(t, c.Game.IsPaused)

	// Already penalized.
	require.ErrorIs(t, Apply(c, a), ErrIllegalAction)

	invalid := []Penalize{
		{Side: game.SideHome, Player: 0, Call: game.PenaltyPushing},
		{Side: game.SideHome, Player: 1, Call: game.PenaltyNone},
		{Side: game.SideHome, Player: 1, Call: "handball"},
		{Side: 5, Player: 1, Call: game.PenaltyPushing},
	}
	for _, a := range invalid {
		require.False(t, a.IsLegal(c), "%+v", a)
	}

	require.False(t, Penalize{Side: game.SideHome, Player: 1, Call: game.PenaltyPickedUp}.
		IsLegal(newContext(game.StateFinished, false)))
}

// TestUnpenalize verifies penalties must be served during play.
func TestUnpenalize(t *testing.T) {
	t.Parallel()

	c := newContext(game.StatePlaying, false)
	require.NoError(t, Apply(c, Penalize{Side: game.SideHome, Player: 2, Call: game.PenaltyBallHolding}))

	a := Unpenalize{Side: game.SideHome, Player: 2}
	require.False(t, a.IsLegal(c))

	game.Seek(c.Game, c.Params.PenaltyDuration)
	require.True(t, a.IsLegal(c))
	require.NoError(t, Apply(c, a))
	require.Equal(t, game.Player{Penalty: game.PenaltyNone}, *c.Game.Player(game.SideHome, 2))

	require.ErrorIs(t, Apply(c, a), ErrIllegalAction)

	// Outside of play penalties can be lifted early.
	c.Game.State = game.StateSet
	require.NoError(t, Apply(c, Penalize{Side: game.SideHome, Player: 2, Call: game.PenaltyMotionInSet}))
	require.NoError(t, Apply(c, a))

	require.False(t, Unpenalize{Side: game.SideHome, Player: 99}.IsLegal(c))
}
