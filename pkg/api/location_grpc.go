// Package api defines the locfs.v1.LocationService gRPC contract. Messages
// are protobuf well-known types so no generated message code is needed.
//
// service LocationService {
//   rpc GetLocation(google.protobuf.Empty) returns (google.protobuf.StringValue);
//   rpc SetLocation(google.protobuf.StringValue) returns (google.protobuf.Empty);
//   rpc StatFS(google.protobuf.Empty) returns (google.protobuf.Struct);
//   rpc ReadDir(google.protobuf.UInt64Value) returns (google.protobuf.ListValue);
// }
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "locfs.v1.LocationService"

const (
	LocationService_GetLocation_FullMethodName = "/locfs.v1.LocationService/GetLocation"
	LocationService_SetLocation_FullMethodName = "/locfs.v1.LocationService/SetLocation"
	LocationService_StatFS_FullMethodName      = "/locfs.v1.LocationService/StatFS"
	LocationService_ReadDir_FullMethodName     = "/locfs.v1.LocationService/ReadDir"
)

// LocationServiceClient is the client API for LocationService.
type LocationServiceClient interface {
	// GetLocation returns the location new files are tagged with.
	GetLocation(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	// SetLocation replaces the current location.
	SetLocation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// StatFS reports capacities and free slots.
	StatFS(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	// ReadDir lists a directory as seen from the current location.
	ReadDir(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type locationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLocationServiceClient(cc grpc.ClientConnInterface) LocationServiceClient {
	return &locationServiceClient{cc}
}

func (c *locationServiceClient) GetLocation(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, LocationService_GetLocation_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *locationServiceClient) SetLocation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, LocationService_SetLocation_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *locationServiceClient) StatFS(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LocationService_StatFS_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *locationServiceClient) ReadDir(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, LocationService_ReadDir_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// LocationServiceServer is the server API for LocationService.
// All implementations must embed UnimplementedLocationServiceServer.
type LocationServiceServer interface {
	GetLocation(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	SetLocation(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	StatFS(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ReadDir(context.Context, *wrapperspb.UInt64Value) (*structpb.ListValue, error)
	mustEmbedUnimplementedLocationServiceServer()
}

// UnimplementedLocationServiceServer must be embedded for forward
// compatibility.
type UnimplementedLocationServiceServer struct{}

func (UnimplementedLocationServiceServer) GetLocation(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLocation not implemented")
}

func (UnimplementedLocationServiceServer) SetLocation(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetLocation not implemented")
}

func (UnimplementedLocationServiceServer) StatFS(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StatFS not implemented")
}

func (UnimplementedLocationServiceServer) ReadDir(context.Context, *wrapperspb.UInt64Value) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReadDir not implemented")
}

func (UnimplementedLocationServiceServer) mustEmbedUnimplementedLocationServiceServer() {}

func RegisterLocationServiceServer(s grpc.ServiceRegistrar, srv LocationServiceServer) {
	s.RegisterService(&LocationService_ServiceDesc, srv)
}

func _LocationService_GetLocation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LocationServiceServer).GetLocation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LocationService_GetLocation_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LocationServiceServer).GetLocation(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LocationService_SetLocation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LocationServiceServer).SetLocation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LocationService_SetLocation_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LocationServiceServer).SetLocation(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LocationService_StatFS_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LocationServiceServer).StatFS(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LocationService_StatFS_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LocationServiceServer).StatFS(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LocationService_ReadDir_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LocationServiceServer).ReadDir(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LocationService_ReadDir_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LocationServiceServer).ReadDir(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// LocationService_ServiceDesc is the grpc.ServiceDesc for LocationService.
var LocationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LocationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLocation",
			Handler:    _LocationService_GetLocation_Handler,
		},
		{
			MethodName: "SetLocation",
			Handler:    _LocationService_SetLocation_Handler,
		},
		{
			MethodName: "StatFS",
			Handler:    _LocationService_StatFS_Handler,
		},
		{
			MethodName: "ReadDir",
			Handler:    _LocationService_ReadDir_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "locfs/v1/location.proto",
}
