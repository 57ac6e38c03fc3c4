package action

import "github.com/oshokin/game-controller/internal/domain/game"

// View is a consistent copy of the game together with the legality of a set
// of candidate actions, as shown on a referee console.
type View struct {
	Game    *game.Game
	Actions []Action
	Legal   []bool
}

// NewView evaluates actions against c and clones the game. The result shares
// no memory with c.
func NewView(c *Context, actions []Action) View {
	view := View{
		Actions: actions,
		Legal:   Legal(c, actions...),
	}

	if c != nil && c.Game != nil {
		view.Game = c.Game.Clone()
	}

	return view
}
