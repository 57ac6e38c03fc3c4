package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/repository/journal"
)

// ErrInvalidEntry is returned when a journal record cannot be decoded.
var ErrInvalidEntry = errors.New("invalid journal record")

// EncodeEntries converts journal entries into {"entries": [...]}.
func EncodeEntries(entries []journal.Entry) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(entries))

	for _, e := range entries {
		values = append(values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"id":        structpb.NewStringValue(e.ID.String()),
				"at":        structpb.NewStringValue(e.At.UTC().Format(time.RFC3339Nano)),
				"actor":     structpb.NewStringValue(e.Actor),
				"type":      structpb.NewStringValue(e.Type),
				"payload":   structpb.NewStringValue(e.Payload),
				"accepted":  structpb.NewBoolValue(e.Accepted),
				"reason":    structpb.NewStringValue(e.Reason),
				"gameState": structpb.NewStringValue(e.GameState),
			},
		}))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"entries": structpb.NewListValue(&structpb.ListValue{Values: values}),
		},
	}
}

// DecodeEntries converts a record produced by EncodeEntries back into entries.
func DecodeEntries(record *structpb.Struct) ([]journal.Entry, error) {
	values := record.GetFields()["entries"].GetListValue().GetValues()
	entries := make([]journal.Entry, 0, len(values))

	for i, value := range values {
		fields := value.GetStructValue().GetFields()

		id, err := uuid.Parse(fields["id"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("entry %d id: %w", i, ErrInvalidEntry)
		}

		at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("entry %d time: %w", i, ErrInvalidEntry)
		}

		entries = append(entries, journal.Entry{
			ID:        id,
			At:        at.UTC(),
			Actor:     fields["actor"].GetStringValue(),
			Type:      fields["type"].GetStringValue(),
			Payload:   fields["payload"].GetStringValue(),
			Accepted:  fields["accepted"].GetBoolValue(),
			Reason:    fields["reason"].GetStringValue(),
			GameState: fields["gameState"].GetStringValue(),
		})
	}

	return entries, nil
}
