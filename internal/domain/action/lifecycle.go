package action

import "github.com/oshokin/game-controller/internal/domain/game"

// WaitForReady starts the ready state, from the beginning of a half or when a
// timeout ends.
//
// Touches: Game.State, Game.PrimaryTimer.Running, Game.SecondaryTimer.
type WaitForReady struct{}

func (WaitForReady) Type() Type { return TypeWaitForReady }

func (WaitForReady) IsLegal(c *Context) bool {
	g := c.Game

	return !g.IsPaused && (g.State == game.StateInitial || g.State == game.StateTimeout)
}

func (WaitForReady) Execute(c *Context) {
	enterReady(c)
}

func (WaitForReady) sealed() {}

// WaitForSet ends the ready state and holds the robots for kick-off.
//
// Touches: Game.State, Game.SecondaryTimer.
type WaitForSet struct{}

func (WaitForSet) Type() Type { return TypeWaitForSet }

func (WaitForSet) IsLegal(c *Context) bool {
	return !c.Game.IsPaused && c.Game.State == game.StateReady
}

func (WaitForSet) Execute(c *Context) {
	c.Game.State = game.StateSet
	c.Game.SecondaryTimer = game.Timer{}
}

func (WaitForSet) sealed() {}

// StartPlaying whistles the kick-off and starts the half clock.
//
// Touches: Game.State, Game.PrimaryTimer.Running.
type StartPlaying struct{}

func (StartPlaying) Type() Type { return TypeStartPlaying }

func (StartPlaying) IsLegal(c *Context) bool {
	return !c.Game.IsPaused && c.Game.State == game.StateSet
}

func (StartPlaying) Execute(c *Context) {
	c.Game.State = game.StatePlaying
	c.Game.PrimaryTimer.Running = true
}

func (StartPlaying) sealed() {}

// FinishHalf ends the current half. It is also issued by the clock loop when the
// half clock expires.
//
// Touches: Game.State, Game.PrimaryTimer.Running, Game.SecondaryTimer.
type FinishHalf struct{}

func (FinishHalf) Type() Type { return TypeFinishHalf }

func (FinishHalf) IsLegal(c *Context) bool {
	if c.Game.IsPaused {
		return false
	}

	switch c.Game.State {
	case game.StateReady, game.StateSet, game.StatePlaying:
		return true
	case game.StateInitial, game.StateTimeout, game.StateFinished:
		return false
	default:
		return false
	}
}

func (FinishHalf) Execute(c *Context) {
	c.Game.State = game.StateFinished
	c.Game.PrimaryTimer.Running = false
	c.Game.SecondaryTimer = game.Timer{}
}

func (FinishHalf) sealed() {}

// SwitchHalf moves a finished first half into the second half.
//
// Touches: Game.Phase, Game.State, Game.KickingSide, Game.PrimaryTimer,
// Game.SecondaryTimer, Team.TimeoutBudget and Player penalties.
type SwitchHalf struct{}

func (SwitchHalf) Type() Type { return TypeSwitchHalf }

func (SwitchHalf) IsLegal(c *Context) bool {
	g := c.Game

	return !g.IsPaused && g.Phase == game.PhaseFirstHalf && g.State == game.StateFinished
}

func (SwitchHalf) Execute(c *Context) {
	g := c.Game

	g.Phase = game.PhaseSecondHalf
	g.State = game.StateInitial
	g.KickingSide = g.KickingSide.Opponent()
	g.PrimaryTimer = game.Timer{Remaining: c.Params.HalfDuration}
	g.SecondaryTimer = game.Timer{}

	for _, side := range game.Sides {
		team := g.Team(side)
		team.TimeoutBudget = c.Params.TimeoutsPerHalf

		for i := range team.Players {
			team.Players[i] = game.Player{Penalty: game.PenaltyNone}
		}
	}
}

func (SwitchHalf) sealed() {}

// enterReady moves the game into the ready state with a fresh ready countdown.
func enterReady(c *Context) {
	c.Game.State = game.StateReady
	c.Game.PrimaryTimer.Running = false
	c.Game.SecondaryTimer = game.Timer{Remaining: c.Params.ReadyDuration, Running: true}
}
