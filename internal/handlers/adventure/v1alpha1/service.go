package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "adventure.api.v1alpha1.AdventureService"

// Full method names
const (
	AdventureService_StartSession_FullMethodName  = "/" + ServiceName + "/StartSession"
	AdventureService_GetSession_FullMethodName    = "/" + ServiceName + "/GetSession"
	AdventureService_Explore_FullMethodName       = "/" + ServiceName + "/Explore"
	AdventureService_Attack_FullMethodName        = "/" + ServiceName + "/Attack"
	AdventureService_Quit_FullMethodName          = "/" + ServiceName + "/Quit"
	AdventureService_DeleteSession_FullMethodName = "/" + ServiceName + "/DeleteSession"
)

// AdventureServiceServer is the server API for the adventure service.
// Requests and responses are google.protobuf.Struct messages.
type AdventureServiceServer interface {
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Explore(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Attack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Quit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAdventureServiceServer registers srv on s
func RegisterAdventureServiceServer(s grpc.ServiceRegistrar, srv AdventureServiceServer) {
	s.RegisterService(&AdventureService_ServiceDesc, srv)
}

func _AdventureService_StartSession_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).StartSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_StartSession_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).StartSession(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdventureService_GetSession_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).GetSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_GetSession_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).GetSession(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdventureService_Explore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).Explore(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_Explore_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).Explore(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdventureService_Attack_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).Attack(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_Attack_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).Attack(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdventureService_Quit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).Quit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_Quit_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).Quit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdventureService_DeleteSession_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdventureServiceServer).DeleteSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AdventureService_DeleteSession_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdventureServiceServer).DeleteSession(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AdventureService_ServiceDesc is the grpc.ServiceDesc for the adventure service
var AdventureService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdventureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartSession",
			Handler:    _AdventureService_StartSession_Handler,
		},
		{
			MethodName: "GetSession",
			Handler:    _AdventureService_GetSession_Handler,
		},
		{
			MethodName: "Explore",
			Handler:    _AdventureService_Explore_Handler,
		},
		{
			MethodName: "Attack",
			Handler:    _AdventureService_Attack_Handler,
		},
		{
			MethodName: "Quit",
			Handler:    _AdventureService_Quit_Handler,
		},
		{
			MethodName: "DeleteSession",
			Handler:    _AdventureService_DeleteSession_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "adventure/api/v1alpha1/adventure.proto",
}
