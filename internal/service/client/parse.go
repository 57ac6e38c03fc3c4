package client

import (
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/domain/action"
)

// errNoActionType is returned when no arguments are given.
var errNoActionType = errors.New("action type must be provided")

// ParseAction builds an action from command line arguments:
//
//	pause
//	goal home
//	timeout away
//	penalize away 3 playerPushing
//	unpenalize away 3
func ParseAction(args []string) (action.Action, error) {
	if len(args) == 0 {
		return nil, errNoActionType
	}

	typ := action.Type(args[0])
	rest := args[1:]

	var names []string

	switch typ {
	case action.TypeGoal, action.TypeTimeout:
		names = []string{"side"}
	case action.TypePenalize:
		names = []string{"side", "player", "call"}
	case action.TypeUnpenalize:
		names = []string{"side", "player"}
	default:
	}

	if len(rest) != len(names) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d: %w", typ, len(names), len(rest), codec.ErrInvalidArgs)
	}

	fields := make(map[string]*structpb.Value, len(names))

	for i, name := range names {
		if name != "player" {
			fields[name] = structpb.NewStringValue(rest[i])

			continue
		}

		number, err := strconv.Atoi(rest[i])
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", rest[i], codec.ErrInvalidArgs)
		}

		fields[name] = structpb.NewNumberValue(float64(number))
	}

	argsValue := structpb.NewNullValue()
	if len(names) > 0 {
		argsValue = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}

	return codec.DecodeAction(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type": structpb.NewStringValue(string(typ)),
			"args": argsValue,
		},
	})
}
