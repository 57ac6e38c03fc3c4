package action

// Pause freezes the whole match without changing officiating state. While the
// game is paused the clock loop does not advance any timer.
//
// Touches: Game.IsPaused.
type Pause struct{}

func (Pause) Type() Type { return TypePause }

// IsLegal allows pausing at any time except when already paused.
func (Pause) IsLegal(c *Context) bool {
	return !c.Game.IsPaused
}

func (Pause) Execute(c *Context) {
	c.Game.IsPaused = true
}

func (Pause) sealed() {}

// Resume lifts a pause. Timers continue from the values they held when the
// pause began.
//
// Touches: Game.IsPaused.
type Resume struct{}

func (Resume) Type() Type { return TypeResume }

// IsLegal allows resuming only a paused game.
func (Resume) IsLegal(c *Context) bool {
	return c.Game.IsPaused
}

func (Resume) Execute(c *Context) {
	c.Game.IsPaused = false
}

func (Resume) sealed() {}
