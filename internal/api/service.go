package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "batteryhealth.v1.BatteryHealth"
	// AnalyzeBatteryMethod is the full method path for AnalyzeBattery.
	AnalyzeBatteryMethod = "/" + ServiceName + "/AnalyzeBattery"
)

// BatteryHealthServer is the server API for the BatteryHealth service. The
// request is the battery payload and the response the report result, both as
// google.protobuf.Struct.
type BatteryHealthServer interface {
	AnalyzeBattery(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBatteryHealthServer attaches srv to the gRPC service registrar.
func RegisterBatteryHealthServer(s grpc.ServiceRegistrar, srv BatteryHealthServer) {
	s.RegisterService(&batteryHealthServiceDesc, srv)
}

func analyzeBatteryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BatteryHealthServer).AnalyzeBattery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeBatteryMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BatteryHealthServer).AnalyzeBattery(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var batteryHealthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BatteryHealthServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AnalyzeBattery",
			Handler:    analyzeBatteryHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "batteryhealth/v1/battery_health.proto",
}

// BatteryHealthClient is the client API for the BatteryHealth service.
type BatteryHealthClient struct {
	cc grpc.ClientConnInterface
}

// NewBatteryHealthClient wraps a client connection.
func NewBatteryHealthClient(cc grpc.ClientConnInterface) *BatteryHealthClient {
	return &BatteryHealthClient{cc: cc}
}

// AnalyzeBattery sends a payload and returns the report result.
func (c *BatteryHealthClient) AnalyzeBattery(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeBatteryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
