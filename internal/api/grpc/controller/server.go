package controller

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/repository/journal"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	ApplyAction(ctx context.Context, actor string, a action.Action) (action.View, error)
	View(ctx context.Context) action.View
	Journal(ctx context.Context, limit int) ([]journal.Entry, error)
}

// ErrJournalDisabled is returned by services that run without a journal.
var ErrJournalDisabled = errors.New("journal is disabled")

// Server implements the ControllerService gRPC API.
type Server struct {
	UnimplementedControllerServiceServer

	// service provides the business logic for game operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// ApplyAction decodes the action record and applies it on behalf of the actor.
func (s *Server) ApplyAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()

	actor := fields["actor"].GetStringValue()
	if actor == "" {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	a, err := codec.DecodeAction(fields["action"].GetStructValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	view, err := s.service.ApplyAction(ctx, actor, a)
	if err != nil {
		return nil, toStatus(err)
	}

	return codec.EncodeView(view), nil
}

// GetGame returns the current game and its legal actions.
func (s *Server) GetGame(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return codec.EncodeView(s.service.View(ctx)), nil
}

// GetLegalActions returns only the legal-action map.
func (s *Server) GetLegalActions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	view := s.service.View(ctx)

	return codec.EncodeLegal(view.Actions, view.Legal), nil
}

// ListJournal returns the most recent journal entries.
func (s *Server) ListJournal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := int(req.GetFields()["limit"].GetNumberValue())
	if limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	entries, err := s.service.Journal(ctx, limit)
	if err != nil {
		return nil, toStatus(err)
	}

	return codec.EncodeEntries(entries), nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, action.ErrIllegalAction):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrJournalDisabled):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "unable to persist game")
	}
}
