// Package controller exposes the game controller over gRPC.
//
// Messages use protobuf well-known types: requests and responses are
// structpb.Struct records shaped like the JSON the referee console exchanges,
// and parameterless calls take emptypb.Empty. The service descriptor and the
// client stub are written by hand in the layout protoc-gen-go-grpc produces.
package controller
