package controller

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gamecontroller.v1.ControllerService"

const (
	applyActionMethod     = "/" + ServiceName + "/ApplyAction"
	getGameMethod         = "/" + ServiceName + "/GetGame"
	getLegalActionsMethod = "/" + ServiceName + "/GetLegalActions"
	listJournalMethod     = "/" + ServiceName + "/ListJournal"
)

// ControllerServiceServer is the server API for the controller service.
type ControllerServiceServer interface {
	// ApplyAction takes {"actor": string, "action": {"type", "args"}} and
	// returns the resulting {"game", "legal"} view.
	ApplyAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// GetGame returns the current {"game", "legal"} view.
	GetGame(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	// GetLegalActions returns the legal-action map.
	GetLegalActions(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	// ListJournal takes {"limit": number} and returns {"entries": [...]}.
	ListJournal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedControllerServiceServer can be embedded for forward compatibility.
type UnimplementedControllerServiceServer struct{}

// ApplyAction returns codes.Unimplemented.
func (UnimplementedControllerServiceServer) ApplyAction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ApplyAction not implemented")
}

// GetGame returns codes.Unimplemented.
func (UnimplementedControllerServiceServer) GetGame(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetGame not implemented")
}

// GetLegalActions returns codes.Unimplemented.
func (UnimplementedControllerServiceServer) GetLegalActions(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLegalActions not implemented")
}

// ListJournal returns codes.Unimplemented.
func (UnimplementedControllerServiceServer) ListJournal(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListJournal not implemented")
}

// RegisterControllerServiceServer registers srv on s.
func RegisterControllerServiceServer(s grpc.ServiceRegistrar, srv ControllerServiceServer) {
	s.RegisterService(&ControllerServiceDesc, srv)
}

// ControllerServiceDesc describes the controller service for grpc.Server.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ControllerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControllerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ApplyAction", Handler: applyActionHandler},
		{MethodName: "GetGame", Handler: getGameHandler},
		{MethodName: "GetLegalActions", Handler: getLegalActionsHandler},
		{MethodName: "ListJournal", Handler: listJournalHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gamecontroller/v1/controller.proto",
}

func applyActionHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ControllerServiceServer).ApplyAction(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: applyActionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControllerServiceServer).ApplyAction(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

func getGameHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ControllerServiceServer).GetGame(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getGameMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControllerServiceServer).GetGame(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func getLegalActionsHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ControllerServiceServer).GetLegalActions(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getLegalActionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControllerServiceServer).GetLegalActions(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func listJournalHandler(
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ControllerServiceServer).ListJournal(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listJournalMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControllerServiceServer).ListJournal(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// ControllerServiceClient is the client API for the controller service.
type ControllerServiceClient interface {
	ApplyAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGame(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLegalActions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListJournal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type controllerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewControllerServiceClient creates a client stub bound to cc.
func NewControllerServiceClient(cc grpc.ClientConnInterface) ControllerServiceClient {
	return &controllerServiceClient{cc: cc}
}

func (c *controllerServiceClient) ApplyAction(
	ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, applyActionMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *controllerServiceClient) GetGame(
	ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getGameMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *controllerServiceClient) GetLegalActions(
	ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getLegalActionsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *controllerServiceClient) ListJournal(
	ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listJournalMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
