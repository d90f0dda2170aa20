package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The catalog gRPC API is expressed with well-known protobuf types, so it
// needs no generated code:
//
//	service ProductCatalog {
//	  rpc GetProduct(google.protobuf.Int64Value) returns (google.protobuf.Struct);
//	  rpc GetProductByName(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	}
const (
	ServiceName                    = "catalog.v1.ProductCatalog"
	GetProductFullMethodName       = "/" + ServiceName + "/GetProduct"
	GetProductByNameFullMethodName = "/" + ServiceName + "/GetProductByName"
)

// ProductCatalogServer is the server API for the ProductCatalog service.
type ProductCatalogServer interface {
	GetProduct(ctx context.Context, id *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetProductByName(ctx context.Context, name *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterProductCatalogServer registers srv on s.
func RegisterProductCatalogServer(s grpc.ServiceRegistrar, srv ProductCatalogServer) {
	s.RegisterService(&ProductCatalogServiceDesc, srv)
}

var ProductCatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductCatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    getProductHandler,
		},
		{
			MethodName: "GetProductByName",
			Handler:    getProductByNameHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductCatalogServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetProductFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductCatalogServer).GetProduct(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductByNameHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductCatalogServer).GetProductByName(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetProductByNameFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductCatalogServer).GetProductByName(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ProductCatalogClient is the client API for the ProductCatalog service.
type ProductCatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewProductCatalogClient(cc grpc.ClientConnInterface) *ProductCatalogClient {
	return &ProductCatalogClient{cc: cc}
}

func (c *ProductCatalogClient) GetProduct(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProductFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductCatalogClient) GetProductByName(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProductByNameFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
