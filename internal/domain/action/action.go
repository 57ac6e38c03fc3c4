package action

import (
	"errors"
	"fmt"

	"github.com/oshokin/game-controller/internal/domain/game"
)

// Type is the wire discriminator of an action.
type Type string

const (
	TypePause        Type = "pause"
	TypeResume       Type = "resume"
	TypeWaitForReady Type = "waitForReady"
	TypeWaitForSet   Type = "waitForSet"
	TypeStartPlaying Type = "startPlaying"
	TypeGoal         Type = "goal"
	TypeTimeout      Type = "timeout"
	TypePenalize     Type = "penalize"
	TypeUnpenalize   Type = "unpenalize"
	TypeFinishHalf   Type = "finishHalf"
	TypeSwitchHalf   Type = "switchHalf"
)

// Types returns every known action type.
func Types() []Type {
	return []Type{
		TypePause,
		TypeResume,
		TypeWaitForReady,
		TypeWaitForSet,
		TypeStartPlaying,
		TypeGoal,
		TypeTimeout,
		TypePenalize,
		TypeUnpenalize,
		TypeFinishHalf,
		TypeSwitchHalf,
	}
}

// Context is what an action is applied to: the live game and the rules it is
// played with. Params is read-only for actions.
type Context struct {
	Game   *game.Game
	Params *game.Params
}

// Action is an officiating command.
type Action interface {
	// Type returns the wire discriminator.
	Type() Type
	// IsLegal reports whether the action may be applied to c. It must not
	// mutate c and may only read c.
	IsLegal(c *Context) bool
	// Execute mutates c. It is only called right after IsLegal returned true
	// for the same state and cannot fail.
	Execute(c *Context)

	sealed()
}

var (
	_ Action = Pause{}
	_ Action = Resume{}
	_ Action = WaitForReady{}
	_ Action = WaitForSet{}
	_ Action = StartPlaying{}
	_ Action = Goal{}
	_ Action = Timeout{}
	_ Action = Penalize{}
	_ Action = Unpenalize{}
	_ Action = FinishHalf{}
	_ Action = SwitchHalf{}
)

// ErrIllegalAction is matched by every *IllegalActionError.
var ErrIllegalAction = errors.New("illegal action")

// IllegalActionError reports an action rejected by its legality predicate.
type IllegalActionError struct {
	Type Type
}

func (e *IllegalActionError) Error() string {
	if e.Type == "" {
		return ErrIllegalAction.Error()
	}

	return fmt.Sprintf("%s: action %q is not legal in the current state", ErrIllegalAction, e.Type)
}

// Is makes errors.Is(err, ErrIllegalAction) hold.
func (e *IllegalActionError) Is(target error) bool {
	return target == ErrIllegalAction
}

// Apply checks a against c and executes it when legal. An illegal action, a nil
// action or an incomplete context is rejected without touching c.
func Apply(c *Context, a Action) error {
	if a == nil {
		return &IllegalActionError{}
	}

	if !usable(c) || !a.IsLegal(c) {
		return &IllegalActionError{Type: a.Type()}
	}

	a.Execute(c)

	return nil
}

// Legal evaluates the predicate of every action without executing any of them.
func Legal(c *Context, actions ...Action) []bool {
	result := make([]bool, len(actions))

	if !usable(c) {
		return result
	}

	for i, a := range actions {
		result[i] = a != nil && a.IsLegal(c)
	}

	return result
}

func usable(c *Context) bool {
	return c != nil && c.Game != nil && c.Params != nil
}
