package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const catalogServiceName = "catalog.v1.ProductCatalog"

// ProductCatalogServer — read-only API каталога (api/catalog/v1/catalog.proto).
// Сообщения — стандартные well-known types, схема сервиса зарегистрирована в catalog_descriptor.go.
type ProductCatalogServer interface {
	GetProduct(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error)
	ListActiveProducts(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
	ListByCategory(ctx context.Context, category *wrapperspb.StringValue) (*structpb.ListValue, error)
	SearchProducts(ctx context.Context, query *wrapperspb.StringValue) (*structpb.ListValue, error)
	ListReviews(ctx context.Context, productID *wrapperspb.StringValue) (*structpb.ListValue, error)
}

var ProductCatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*ProductCatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetProduct", ProductCatalogServer.GetProduct),
		unary("ListActiveProducts", ProductCatalogServer.ListActiveProducts),
		unary("ListByCategory", ProductCatalogServer.ListByCategory),
		unary("SearchProducts", ProductCatalogServer.SearchProducts),
		unary("ListReviews", ProductCatalogServer.ListReviews),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: catalogProtoFile,
}

func RegisterProductCatalogServer(s grpc.ServiceRegistrar, srv ProductCatalogServer) {
	s.RegisterService(&ProductCatalogServiceDesc, srv)
}

func unary[Req any, Res any](name string, call func(ProductCatalogServer, context.Context, *Req) (Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProductCatalogServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProductCatalogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func fullMethod(name string) string {
	return "/" + catalogServiceName + "/" + name
}

// ProductCatalogClient — клиент сервиса каталога поверх любого grpc.ClientConnInterface.
type ProductCatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewProductCatalogClient(cc grpc.ClientConnInterface) *ProductCatalogClient {
	return &ProductCatalogClient{cc: cc}
}

func (c *ProductCatalogClient) GetProduct(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetProduct"), wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductCatalogClient) ListActiveProducts(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.list(ctx, "ListActiveProducts", &emptypb.Empty{}, opts...)
}

func (c *ProductCatalogClient) ListByCategory(ctx context.Context, category string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.list(ctx, "ListByCategory", wrapperspb.String(category), opts...)
}

func (c *ProductCatalogClient) SearchProducts(ctx context.Context, query string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.list(ctx, "SearchProducts", wrapperspb.String(query), opts...)
}

func (c *ProductCatalogClient) ListReviews(ctx context.Context, productID string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.list(ctx, "ListReviews", wrapperspb.String(productID), opts...)
}

func (c *ProductCatalogClient) list(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
