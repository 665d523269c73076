package flightlinkv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	// CommandServiceName is the fully-qualified gRPC service name.
	CommandServiceName = "aerolink.flightlink.v1.CommandService"

	CommandServiceSetModeFullMethod = "/aerolink.flightlink.v1.CommandService/SetMode"
	CommandServiceArmFullMethod     = "/aerolink.flightlink.v1.CommandService/Arm"
)

// CommandServiceClient is the client API for the flight-link command service.
type CommandServiceClient interface {
	SetMode(ctx context.Context, in *SetModeRequest, opts ...grpc.CallOption) (*SetModeResponse, error)
	Arm(ctx context.Context, in *ArmRequest, opts ...grpc.CallOption) (*ArmResponse, error)
}

type commandServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCommandServiceClient creates a CommandServiceClient on an existing
// connection. The connection must use the JSON codec (see CodecName).
func NewCommandServiceClient(cc grpc.ClientConnInterface) CommandServiceClient {
	return &commandServiceClient{cc: cc}
}

func (c *commandServiceClient) SetMode(ctx context.Context, in *SetModeRequest, opts ...grpc.CallOption) (*SetModeResponse, error) {
	out := new(SetModeResponse)
	if err := c.cc.Invoke(ctx, CommandServiceSetModeFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *commandServiceClient) Arm(ctx context.Context, in *ArmRequest, opts ...grpc.CallOption) (*ArmResponse, error) {
	out := new(ArmResponse)
	if err := c.cc.Invoke(ctx, CommandServiceArmFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CommandServiceServer is the server API for the flight-link command service.
type CommandServiceServer interface {
	SetMode(ctx context.Context, in *SetModeRequest) (*SetModeResponse, error)
	Arm(ctx context.Context, in *ArmRequest) (*ArmResponse, error)
}

// RegisterCommandServiceServer registers the service implementation with a
// gRPC server.
func RegisterCommandServiceServer(s grpc.ServiceRegistrar, srv CommandServiceServer) {
	s.RegisterService(&commandServiceDesc, srv)
}

func _CommandService_SetMode_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SetModeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServiceServer).SetMode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CommandServiceSetModeFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).SetMode(ctx, req.(*SetModeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CommandService_Arm_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ArmRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServiceServer).Arm(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CommandServiceArmFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).Arm(ctx, req.(*ArmRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var commandServiceDesc = grpc.ServiceDesc{
	ServiceName: CommandServiceName,
	HandlerType: (*CommandServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SetMode",
			Handler:    _CommandService_SetMode_Handler,
		},
		{
			MethodName: "Arm",
			Handler:    _CommandService_Arm_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightlink/v1/command_service",
}
