package game

import "time"

// Side identifies one of the two teams.
type Side int

const (
	// SideHome is the team listed first on the score sheet.
	SideHome Side = iota
	// SideAway is the visiting team.
	SideAway
)

// Sides lists both teams in index order.
var Sides = [...]Side{SideHome, SideAway} //nolint:gochecknoglobals // Fixed enumeration.

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}

	return SideHome
}

// String returns the wire name of the side.
func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "unknown"
	}
}

// ParseSide converts a wire name into a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "home":
		return SideHome, true
	case "away":
		return SideAway, true
	default:
		return 0, false
	}
}

// Phase is the part of the match being played.
type Phase string

const (
	// PhaseFirstHalf is the first half of regular time.
	PhaseFirstHalf Phase = "firstHalf"
	// PhaseSecondHalf is the second half of regular time.
	PhaseSecondHalf Phase = "secondHalf"
)

// State is the officiating lifecycle state inside a phase.
type State string

const (
	// StateInitial is the state before the half has been started.
	StateInitial State = "initial"
	// StateReady gives robots time to walk to their kick-off positions.
	StateReady State = "ready"
	// StateSet holds robots still until the kick-off whistle.
	StateSet State = "set"
	// StatePlaying is regular play with the primary clock running.
	StatePlaying State = "playing"
	// StateTimeout is a team timeout.
	StateTimeout State = "timeout"
	// StateFinished is the end of the half.
	StateFinished State = "finished"
)

// Penalty is the call a referee made against a player.
type Penalty string

const (
	// PenaltyNone means the player is in play.
	PenaltyNone Penalty = "noPenalty"
	// PenaltyPickedUp removes the player for service.
	PenaltyPickedUp Penalty = "pickedUp"
	// PenaltyIllegalPosition is an illegal position during play.
	PenaltyIllegalPosition Penalty = "illegalPosition"
	// PenaltyMotionInSet is a movement while the game is in set.
	PenaltyMotionInSet Penalty = "motionInSet"
	// PenaltyFallenInactive is a robot that fell or stopped reacting.
	PenaltyFallenInactive Penalty = "fallenInactive"
	// PenaltyBallHolding is holding the ball for too long.
	PenaltyBallHolding Penalty = "ballHolding"
	// PenaltyPushing is pushing an opponent.
	PenaltyPushing Penalty = "playerPushing"
	// PenaltyLeavingTheField is leaving the field of play.
	PenaltyLeavingTheField Penalty = "leavingTheField"
)

// Valid reports whether p is a known penalty call, including PenaltyNone.
func (p Penalty) Valid() bool {
	switch p {
	case PenaltyNone, PenaltyPickedUp, PenaltyIllegalPosition, PenaltyMotionInSet,
		PenaltyFallenInactive, PenaltyBallHolding, PenaltyPushing, PenaltyLeavingTheField:
		return true
	default:
		return false
	}
}

// Calls returns every penalty a referee can call, excluding PenaltyNone.
func Calls() []Penalty {
	return []Penalty{
		PenaltyPickedUp,
		PenaltyIllegalPosition,
		PenaltyMotionInSet,
		PenaltyFallenInactive,
		PenaltyBallHolding,
		PenaltyPushing,
		PenaltyLeavingTheField,
	}
}

// Timer is a countdown clock. A stopped timer keeps its remaining time.
type Timer struct {
	// Remaining is the time left before the timer expires.
	Remaining time.Duration
	// Running is true while the timer counts down.
	Running bool
}

// Player is the per-robot officiating record.
type Player struct {
	// Penalty is the current call against the player.
	Penalty Penalty
	// PenaltyTimer counts down the remaining penalty time.
	PenaltyTimer Timer
}

// Team is the per-team officiating record.
type Team struct {
	// Score is the number of goals scored.
	Score uint8
	// PenaltyCounter counts penalties called against the team in this match.
	PenaltyCounter uint
	// TimeoutBudget is the number of timeouts left in the current half.
	TimeoutBudget uint
	// Players is indexed by player number minus one.
	Players []Player
}

// Game is the single mutable match context.
type Game struct {
	// Phase is the part of the match being played.
	Phase Phase
	// State is the lifecycle state inside the phase.
	State State
	// KickingSide is the team that takes the next kick-off.
	KickingSide Side
	// IsPaused freezes every timer while true. It must only be written by the
	// pause and resume actions; the clock loop reads it before every tick.
	IsPaused bool
	// PrimaryTimer is the half clock.
	PrimaryTimer Timer
	// SecondaryTimer counts down ready and timeout durations.
	SecondaryTimer Timer
	// Teams is indexed by Side.
	Teams [2]Team
}

// NewGame returns a game at the start of the first half.
func NewGame(params *Params) *Game {
	g := &Game{
		Phase:        PhaseFirstHalf,
		State:        StateInitial,
		KickingSide:  SideHome,
		PrimaryTimer: Timer{Remaining: params.HalfDuration},
	}

	for _, side := range Sides {
		g.Teams[side] = Team{
			TimeoutBudget: params.TimeoutsPerHalf,
			Players:       make([]Player, params.PlayersPerTeam),
		}

		for i := range g.Teams[side].Players {
			g.Teams[side].Players[i].Penalty = PenaltyNone
		}
	}

	return g
}

// Team returns the record of the given side.
func (g *Game) Team(side Side) *Team {
	return &g.Teams[side]
}

// Player returns the record of a player by 1-based number, or nil when the
// side or number is out of range.
func (g *Game) Player(side Side, number int) *Player {
	if !side.Valid() {
		return nil
	}

	players := g.Teams[side].Players
	if number < 1 || number > len(players) {
		return nil
	}

	return &players[number-1]
}

// Clone returns a deep copy of the game so snapshots never alias live state.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}

	cloned := *g

	for _, side := range Sides {
		players := g.Teams[side].Players
		if players == nil {
			continue
		}

		cloned.Teams[side].Players = make([]Player, len(players))
		copy(cloned.Teams[side].Players, players)
	}

	return &cloned
}
