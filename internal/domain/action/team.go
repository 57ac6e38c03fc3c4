package action

import (
	"math"

	"github.com/oshokin/game-controller/internal/domain/game"
)

// Goal credits a goal to Side. The other team kicks off next. A score
// already at the counter's maximum cannot grow.
//
// Touches: Team.Score, Game.KickingSide, Game.State, Game.PrimaryTimer.Running,
// Game.SecondaryTimer.
type Goal struct {
	Side game.Side
}

func (Goal) Type() Type { return TypeGoal }

func (a Goal) IsLegal(c *Context) bool {
	return a.Side.Valid() && !c.Game.IsPaused && c.Game.State == game.StatePlaying &&
		c.Game.Teams[a.Side].Score < math.MaxUint8
}

func (a Goal) Execute(c *Context) {
	c.Game.Team(a.Side).Score++
	c.Game.KickingSide = a.Side.Opponent()
	enterReady(c)
}

func (Goal) sealed() {}

// Timeout grants Side a team timeout outside of regular play. The opponent
// kicks off afterwards.
//
// Touches: Team.TimeoutBudget, Game.State, Game.KickingSide,
// Game.PrimaryTimer.Running, Game.SecondaryTimer.
type Timeout struct {
	Side game.Side
}

func (Timeout) Type() Type { return TypeTimeout }

func (a Timeout) IsLegal(c *Context) bool {
	if !a.Side.Valid() || c.Game.IsPaused || c.Game.Teams[a.Side].TimeoutBudget == 0 {
		return false
	}

	switch c.Game.State {
	case game.StateInitial, game.StateReady, game.StateSet:
		return true
	case game.StatePlaying, game.StateTimeout, game.StateFinished:
		return false
	default:
		return false
	}
}

func (a Timeout) Execute(c *Context) {
	g := c.Game

	g.Team(a.Side).TimeoutBudget--
	g.State = game.StateTimeout
	g.KickingSide = a.Side.Opponent()
	g.PrimaryTimer.Running = false
	g.SecondaryTimer = game.Timer{Remaining: c.Params.TimeoutDuration, Running: true}
}

func (Timeout) sealed() {}
