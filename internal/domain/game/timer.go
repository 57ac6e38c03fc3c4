package game

import "time"

// ExpiryKind names the timer that ran out.
type ExpiryKind string

const (
	// ExpiryHalf means the primary timer reached zero.
	ExpiryHalf ExpiryKind = "half"
	// ExpiryReady means the secondary timer reached zero in the ready state.
	ExpiryReady ExpiryKind = "ready"
	// ExpiryTimeout means the secondary timer reached zero in a timeout.
	ExpiryTimeout ExpiryKind = "timeout"
	// ExpiryPenalty means a player's penalty timer reached zero.
	ExpiryPenalty ExpiryKind = "penalty"
)

// Expiry reports a timer that ran out during Seek.
type Expiry struct {
	Kind ExpiryKind
	// Side and Player are set for ExpiryPenalty only. Player is 1-based.
	Side   Side
	Player int
}

// Seek advances every running timer by dt and returns the timers that expired.
// Nothing moves while the game is paused; after resume the timers continue from
// the values they held when the pause began.
func Seek(g *Game, dt time.Duration) []Expiry {
	if g == nil || g.IsPaused || dt <= 0 {
		return nil
	}

	var expired []Expiry

	if advance(&g.PrimaryTimer, dt) {
		expired = append(expired, Expiry{Kind: ExpiryHalf})
	}

	if advance(&g.SecondaryTimer, dt) {
		switch g.State {
		case StateReady:
			expired = append(expired, Expiry{Kind: ExpiryReady})
		case StateTimeout:
			expired = append(expired, Expiry{Kind: ExpiryTimeout})
		case StateInitial, StateSet, StatePlaying, StateFinished:
		}
	}

	for _, side := range Sides {
		for i := range g.Teams[side].Players {
			if advance(&g.Teams[side].Players[i].PenaltyTimer, dt) {
				expired = append(expired, Expiry{Kind: ExpiryPenalty, Side: side, Player: i + 1})
			}
		}
	}

	return expired
}

// advance counts t down by dt and reports whether it expired on this step.
// Expired timers stop at zero.
func advance(t *Timer, dt time.Duration) bool {
	if !t.Running {
		return false
	}

	t.Remaining -= dt
	if t.Remaining > 0 {
		return false
	}

	t.Remaining = 0
	t.Running = false

	return true
}
