package codec

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/domain/game"
)

// EncodeLegal builds a map from ActionKey to the legality of each action.
// legal must be aligned with actions, as returned by action.Legal.
func EncodeLegal(actions []action.Action, legal []bool) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(actions))

	for i, a := range actions {
		fields[ActionKey(a)] = structpb.NewBoolValue(i < len(legal) && legal[i])
	}

	return &structpb.Struct{Fields: fields}
}

// EncodeView converts a console view into {"game": ..., "legal": ...}.
func EncodeView(view action.View) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"legal": structpb.NewStructValue(EncodeLegal(view.Actions, view.Legal)),
	}

	if view.Game != nil {
		fields["game"] = structpb.NewStructValue(EncodeGame(view.Game))
	} else {
		fields["game"] = structpb.NewNullValue()
	}

	return &structpb.Struct{Fields: fields}
}

// DecodeLegal converts a legal-action map back into Go form.
func DecodeLegal(record *structpb.Struct) map[string]bool {
	legal := make(map[string]bool, len(record.GetFields()))

	for key, value := range record.GetFields() {
		legal[key] = value.GetBoolValue()
	}

	return legal
}

// DecodeView converts a record produced by EncodeView into the game and its
// legal-action map.
func DecodeView(record *structpb.Struct) (*game.Game, map[string]bool, error) {
	fields := record.GetFields()

	g, err := DecodeGame(fields["game"].GetStructValue())
	if err != nil {
		return nil, nil, err
	}

	return g, DecodeLegal(fields["legal"].GetStructValue()), nil
}
