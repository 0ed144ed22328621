// Package gameserver exposes the auto-battle engine over gRPC.
//
// The service is described by a hand-written grpc.ServiceDesc whose request
// and response messages are google.protobuf.Struct values, so no generated
// code is required.
package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "monsters.v1.BattleService"

// SimulateBattleMethod is the full method path of SimulateBattle.
const SimulateBattleMethod = "/" + ServiceName + "/SimulateBattle"

// BattleService runs one auto-battle per call.
type BattleService interface {
	SimulateBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// BattleServiceDesc describes BattleService for grpc.Server.RegisterService.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SimulateBattle", Handler: simulateBattleHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "monsters/v1/battle.proto",
}

// RegisterBattleService registers srv on s.
func RegisterBattleService(s grpc.ServiceRegistrar, srv BattleService) {
	s.RegisterService(&BattleServiceDesc, srv)
}

func simulateBattleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BattleService).SimulateBattle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SimulateBattleMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BattleService).SimulateBattle(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// BattleClient calls a remote BattleService.
type BattleClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleClient wraps cc.
func NewBattleClient(cc grpc.ClientConnInterface) *BattleClient {
	return &BattleClient{cc: cc}
}

// SimulateBattle invokes the remote SimulateBattle method.
func (c *BattleClient) SimulateBattle(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateBattleMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
