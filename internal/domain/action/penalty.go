package action

import "github.com/oshokin/game-controller/internal/domain/game"

// Penalize calls Call against player Player (1-based) of Side. Referees may
// record penalties while the game is paused; the penalty clock stays frozen
// until resume.
//
// Touches: Player.Penalty, Player.PenaltyTimer, Team.PenaltyCounter.
type Penalize struct {
	Side   game.Side
	Player int
	Call   game.Penalty
}

func (Penalize) Type() Type { return TypePenalize }

func (a Penalize) IsLegal(c *Context) bool {
	if a.Call == game.PenaltyNone || !a.Call.Valid() || c.Game.State == game.StateFinished {
		return false
	}

	p := c.Game.Player(a.Side, a.Player)

	return p != nil && p.Penalty == game.PenaltyNone
}

func (a Penalize) Execute(c *Context) {
	p := c.Game.Player(a.Side, a.Player)
	p.Penalty = a.Call
	p.PenaltyTimer = game.Timer{Remaining: c.Params.PenaltyDuration, Running: true}

	c.Game.Team(a.Side).PenaltyCounter++
}

func (Penalize) sealed() {}

// Unpenalize returns a penalized player to the game. During play the penalty
// must have been served; outside of play penalties can be lifted early.
//
// Touches: Player.Penalty, Player.PenaltyTimer.
type Unpenalize struct {
	Side   game.Side
	Player int
}

func (Unpenalize) Type() Type { return TypeUnpenalize }

func (a Unpenalize) IsLegal(c *Context) bool {
	p := c.Game.Player(a.Side, a.Player)
	if p == nil || p.Penalty == game.PenaltyNone {
		return false
	}

	return p.PenaltyTimer.Remaining == 0 || c.Game.State != game.StatePlaying
}

func (a Unpenalize) Execute(c *Context) {
	*c.Game.Player(a.Side, a.Player) = game.Player{Penalty: game.PenaltyNone}
}

func (Unpenalize) sealed() {}
