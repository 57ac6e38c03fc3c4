package codec

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/domain/game"
)

// ErrInvalidGame is returned when a game record cannot be decoded.
var ErrInvalidGame = errors.New("invalid game record")

// maxTimerMs bounds decoded timers so the duration cannot overflow.
const maxTimerMs = math.MaxInt64 / uint64(time.Millisecond)

// EncodeGame converts a game snapshot into a Struct.
func EncodeGame(g *game.Game) *structpb.Struct {
	teams := make([]*structpb.Value, 0, len(g.Teams))

	for _, side := range game.Sides {
		team := g.Teams[side]
		players := make([]*structpb.Value, 0, len(team.Players))

		for i, p := range team.Players {
			players = append(players, structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					"number":       structpb.NewNumberValue(float64(i + 1)),
					"penalty":      structpb.NewStringValue(string(p.Penalty)),
					"penaltyTimer": encodeTimer(p.PenaltyTimer),
				},
			}))
		}

		teams = append(teams, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"side":           structpb.NewStringValue(side.String()),
				"score":          structpb.NewNumberValue(float64(team.Score)),
				"penaltyCounter": structpb.NewNumberValue(float64(team.PenaltyCounter)),
				"timeoutBudget":  structpb.NewNumberValue(float64(team.TimeoutBudget)),
				"players":        structpb.NewListValue(&structpb.ListValue{Values: players}),
			},
		}))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"phase":          structpb.NewStringValue(string(g.Phase)),
			"state":          structpb.NewStringValue(string(g.State)),
			"kickingSide":    structpb.NewStringValue(g.KickingSide.String()),
			"isPaused":       structpb.NewBoolValue(g.IsPaused),
			"primaryTimer":   encodeTimer(g.PrimaryTimer),
			"secondaryTimer": encodeTimer(g.SecondaryTimer),
			"teams":          structpb.NewListValue(&structpb.ListValue{Values: teams}),
		},
	}
}

// DecodeGame converts a Struct produced by EncodeGame back into a game.
// Every team must appear exactly once and every counter must be a whole
// number that fits its field.
func DecodeGame(record *structpb.Struct) (*game.Game, error) {
	if record == nil {
		return nil, fmt.Errorf("empty record: %w", ErrInvalidGame)
	}

	fields := record.GetFields()

	g := &game.Game{
		Phase:    game.Phase(fields["phase"].GetStringValue()),
		State:    game.State(fields["state"].GetStringValue()),
		IsPaused: fields["isPaused"].GetBoolValue(),
	}

	if !validPhase(g.Phase) {
		return nil, fmt.Errorf("phase %q: %w", g.Phase, ErrInvalidGame)
	}

	if !validState(g.State) {
		return nil, fmt.Errorf("state %q: %w", g.State, ErrInvalidGame)
	}

	kickingSide, ok := game.ParseSide(fields["kickingSide"].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("kicking side: %w", ErrInvalidGame)
	}

	g.KickingSide = kickingSide

	var err error

	if g.PrimaryTimer, err = decodeTimer("primary timer", fields["primaryTimer"]); err != nil {
		return nil, err
	}

	if g.SecondaryTimer, err = decodeTimer("secondary timer", fields["secondaryTimer"]); err != nil {
		return nil, err
	}

	teams := fields["teams"].GetListValue().GetValues()
	if len(teams) != len(g.Teams) {
		return nil, fmt.Errorf("got %d teams: %w", len(teams), ErrInvalidGame)
	}

	var seen [len(game.Sides)]bool

	for _, value := range teams {
		side, team, teamErr := decodeTeam(value.GetStructValue().GetFields())
		if teamErr != nil {
			return nil, teamErr
		}

		if seen[side] {
			return nil, fmt.Errorf("team %s appears twice: %w", side, ErrInvalidGame)
		}

		seen[side] = true
		g.Teams[side] = team
	}

	return g, nil
}

func decodeTeam(fields map[string]*structpb.Value) (game.Side, game.Team, error) {
	side, ok := game.ParseSide(fields["side"].GetStringValue())
	if !ok {
		return 0, game.Team{}, fmt.Errorf("team side: %w", ErrInvalidGame)
	}

	score, err := decodeCount(side.String()+" score", fields["score"], math.MaxUint8)
	if err != nil {
		return 0, game.Team{}, err
	}

	penaltyCounter, err := decodeCount(side.String()+" penalty counter", fields["penaltyCounter"], math.MaxUint32)
	if err != nil {
		return 0, game.Team{}, err
	}

	timeoutBudget, err := decodeCount(side.String()+" timeout budget", fields["timeoutBudget"], math.MaxUint32)
	if err != nil {
		return 0, game.Team{}, err
	}

	team := game.Team{
		Score:          uint8(score),
		PenaltyCounter: uint(penaltyCounter),
		TimeoutBudget:  uint(timeoutBudget),
	}

	for i, value := range fields["players"].GetListValue().GetValues() {
		player := value.GetStructValue().GetFields()

		number, numberErr := decodeCount(side.String()+" player number", player["number"], math.MaxUint32)
		if numberErr != nil {
			return 0, game.Team{}, numberErr
		}

		if number != uint64(i+1) {
			return 0, game.Team{}, fmt.Errorf("%s player %d listed at %d: %w", side, number, i+1, ErrInvalidGame)
		}

		penalty := game.Penalty(player["penalty"].GetStringValue())
		if !penalty.Valid() {
			return 0, game.Team{}, fmt.Errorf("%s penalty %q: %w", side, penalty, ErrInvalidGame)
		}

		penaltyTimer, timerErr := decodeTimer(fmt.Sprintf("%s player %d penalty timer", side, number), player["penaltyTimer"])
		if timerErr != nil {
			return 0, game.Team{}, timerErr
		}

		team.Players = append(team.Players, game.Player{Penalty: penalty, PenaltyTimer: penaltyTimer})
	}

	return side, team, nil
}

// decodeCount reads a whole number in [0, limit].
func decodeCount(name string, v *structpb.Value, limit uint64) (uint64, error) {
	number, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s is missing: %w", name, ErrInvalidGame)
	}

	n := number.NumberValue
	if n < 0 || n != math.Trunc(n) || n > float64(limit) {
		return 0, fmt.Errorf("%s %v out of range: %w", name, n, ErrInvalidGame)
	}

	return uint64(n), nil
}

func encodeTimer(t game.Timer) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"remainingMs": structpb.NewNumberValue(float64(t.Remaining.Milliseconds())),
			"running":     structpb.NewBoolValue(t.Running),
		},
	})
}

func decodeTimer(name string, v *structpb.Value) (game.Timer, error) {
	fields := v.GetStructValue().GetFields()

	remaining, err := decodeCount(name, fields["remainingMs"], maxTimerMs)
	if err != nil {
		return game.Timer{}, err
	}

	return game.Timer{
		Remaining: time.Duration(remaining) * time.Millisecond,
		Running:   fields["running"].GetBoolValue(),
	}, nil
}

func validPhase(p game.Phase) bool {
	return p == game.PhaseFirstHalf || p == game.PhaseSecondHalf
}

func validState(s game.State) bool {
	switch s {
	case game.StateInitial, game.StateReady, game.StateSet, game.StatePlaying, game.StateTimeout, game.StateFinished:
		return true
	default:
		return false
	}
}
