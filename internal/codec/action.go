package codec

import (
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
)

const (
	fieldType   = "type"
	fieldArgs   = "args"
	fieldSide   = "side"
	fieldPlayer = "player"
	fieldCall   = "call"
)

var (
	// ErrUnknownActionType is returned for a discriminator no action uses.
	ErrUnknownActionType = errors.New("unknown action type")
	// ErrInvalidArgs is returned when the args of a known action are malformed.
	ErrInvalidArgs = errors.New("invalid action args")
	// errActionRequired is returned for a nil record.
	errActionRequired = errors.New("action record is required")
)

// DecodeAction converts a tagged record into an action value.
func DecodeAction(record *structpb.Struct) (action.Action, error) {
	if record == nil {
		return nil, errActionRequired
	}

	fields := record.GetFields()
	typ := action.Type(fields[fieldType].GetStringValue())
	args := fields[fieldArgs].GetStructValue().GetFields()

	switch typ {
	case action.TypePause:
		return action.Pause{}, nil
	case action.TypeResume:
		return action.Resume{}, nil
	case action.TypeWaitForReady:
		return action.WaitForReady{}, nil
	case action.TypeWaitForSet:
		return action.WaitForSet{}, nil
	case action.TypeStartPlaying:
		return action.StartPlaying{}, nil
	case action.TypeFinishHalf:
		return action.FinishHalf{}, nil
	case action.TypeSwitchHalf:
		return action.SwitchHalf{}, nil
	case action.TypeGoal:
		side, err := sideArg(typ, args)
		if err != nil {
			return nil, err
		}

		return action.Goal{Side: side}, nil
	case action.TypeTimeout:
		side, err := sideArg(typ, args)
		if err != nil {
			return nil, err
		}

		return action.Timeout{Side: side}, nil
	case action.TypePenalize:
		side, player, err := playerArgs(typ, args)
		if err != nil {
			return nil, err
		}

		call := game.Penalty(args[fieldCall].GetStringValue())
		if call == game.PenaltyNone || !call.Valid() {
			return nil, fmt.Errorf("%s: call %q: %w", typ, call, ErrInvalidArgs)
		}

		return action.Penalize{Side: side, Player: player, Call: call}, nil
	case action.TypeUnpenalize:
		side, player, err := playerArgs(typ, args)
		if err != nil {
			return nil, err
		}

		return action.Unpenalize{Side: side, Player: player}, nil
	default:
		return nil, fmt.Errorf("%q: %w", typ, ErrUnknownActionType)
	}
}

// EncodeAction converts an action value into its tagged record.
func EncodeAction(a action.Action) *structpb.Struct {
	var args *structpb.Struct

	switch v := a.(type) {
	case action.Goal:
		args = sideStruct(v.Side)
	case action.Timeout:
		args = sideStruct(v.Side)
	case action.Penalize:
		args = playerStruct(v.Side, v.Player)
		args.Fields[fieldCall] = structpb.NewStringValue(string(v.Call))
	case action.Unpenalize:
		args = playerStruct(v.Side, v.Player)
	}

	argsValue := structpb.NewNullValue()
	if args != nil {
		argsValue = structpb.NewStructValue(args)
	}

	var typ string
	if a != nil {
		typ = string(a.Type())
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldType: structpb.NewStringValue(typ),
			fieldArgs: argsValue,
		},
	}
}

// ActionKey returns a stable key naming an action and its args, such as
// "pause", "goal:home" or "penalize:away:3:playerPushing".
func ActionKey(a action.Action) string {
	switch v := a.(type) {
	case action.Goal:
		return string(v.Type()) + ":" + v.Side.String()
	case action.Timeout:
		return string(v.Type()) + ":" + v.Side.String()
	case action.Penalize:
		return string(v.Type()) + ":" + v.Side.String() + ":" + strconv.Itoa(v.Player) + ":" + string(v.Call)
	case action.Unpenalize:
		return string(v.Type()) + ":" + v.Side.String() + ":" + strconv.Itoa(v.Player)
	case nil:
		return ""
	default:
		return string(a.Type())
	}
}

func sideArg(typ action.Type, args map[string]*structpb.Value) (game.Side, error) {
	name := args[fieldSide].GetStringValue()

	side, ok := game.ParseSide(name)
	if !ok {
		return 0, fmt.Errorf("%s: side %q: %w", typ, name, ErrInvalidArgs)
	}

	return side, nil
}

func playerArgs(typ action.Type, args map[string]*structpb.Value) (game.Side, int, error) {
	side, err := sideArg(typ, args)
	if err != nil {
		return 0, 0, err
	}

	value, ok := args[fieldPlayer].GetKind().(*structpb.Value_NumberValue)
	if !ok || value.NumberValue != float64(int(value.NumberValue)) || value.NumberValue < 1 {
		return 0, 0, fmt.Errorf("%s: player: %w", typ, ErrInvalidArgs)
	}

	return side, int(value.NumberValue), nil
}

func sideStruct(side game.Side) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldSide: structpb.NewStringValue(side.String()),
		},
	}
}

func playerStruct(side game.Side, player int) *structpb.Struct {
	s := sideStruct(side)
	s.Fields[fieldPlayer] = structpb.NewNumberValue(float64(player))

	return s
}
