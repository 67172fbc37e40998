package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "directory.v1.DirectoryService"

// Full method names, as seen by interceptors.
const (
	QueryMethod         = "/" + ServiceName + "/Query"
	FacetsMethod        = "/" + ServiceName + "/Facets"
	GetCompanyMethod    = "/" + ServiceName + "/GetCompany"
	ReloadCatalogMethod = "/" + ServiceName + "/ReloadCatalog"
)

// DirectoryServiceServer is the server API for the directory service.
// Requests and responses use the well-known protobuf types, so no generated
// code is needed on either side.
type DirectoryServiceServer interface {
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Facets(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetCompany(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ReloadCatalog(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// DirectoryServiceDesc describes DirectoryServiceServer to grpc.Server.
var DirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Query",
			Handler:    unary(QueryMethod, func() *structpb.Struct { return new(structpb.Struct) }, DirectoryServiceServer.Query),
		},
		{
			MethodName: "Facets",
			Handler:    unary(FacetsMethod, func() *emptypb.Empty { return new(emptypb.Empty) }, DirectoryServiceServer.Facets),
		},
		{
			MethodName: "GetCompany",
			Handler:    unary(GetCompanyMethod, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }, DirectoryServiceServer.GetCompany),
		},
		{
			MethodName: "ReloadCatalog",
			Handler:    unary(ReloadCatalogMethod, func() *emptypb.Empty { return new(emptypb.Empty) }, DirectoryServiceServer.ReloadCatalog),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "directory/v1/directory.proto",
}

// unary builds a grpc method handler that decodes a T, runs interceptors and
// dispatches to call.
func unary[T proto.Message](
	fullMethod string,
	newReq func() T,
	call func(DirectoryServiceServer, context.Context, T) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(DirectoryServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(T))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DirectoryClient calls a remote DirectoryServiceServer.
type DirectoryClient struct {
	cc grpc.ClientConnInterface
}

// NewDirectoryClient wraps cc.
func NewDirectoryClient(cc grpc.ClientConnInterface) *DirectoryClient {
	return &DirectoryClient{cc: cc}
}

func (c *DirectoryClient) Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QueryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) Facets(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FacetsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) GetCompany(ctx context.Context, id int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetCompanyMethod, wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) ReloadCatalog(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReloadCatalogMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
