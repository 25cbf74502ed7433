package grpc

import (
	"context"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type ProductService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewProductService(prUC usecase.ProductUC, logger logger.Logger) *ProductService {
	return &ProductService{prUC: prUC, logger: logger}
}

func (g *ProductService) GetProduct(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.GetProduct"

	product, err := g.prUC.GetProduct(ctx, id.GetValue())
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := toGRPCProduct(product)
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, e.Internal(err)))
	}

	return res, nil
}

func (g *ProductService) ListActiveProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.ListActiveProducts"

	products, err := g.prUC.ListActiveProducts(ctx)
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	list, err := toArrGRPCProduct(products)
	return listOrInternal(op, list, err)
}

func (g *ProductService) ListByCategory(ctx context.Context, category *wrapperspb.StringValue) (*structpb.ListValue, error) {
	const op = "grpc.ListByCategory"

	products, err := g.prUC.ListByCategory(ctx, category.GetValue())
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	list, err := toArrGRPCProduct(products)
	return listOrInternal(op, list, err)
}

func (g *ProductService) SearchProducts(ctx context.Context, query *wrapperspb.StringValue) (*structpb.ListValue, error) {
	const op = "grpc.SearchProducts"

	products, err := g.prUC.SearchProducts(ctx, query.GetValue())
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	list, err := toArrGRPCProduct(products)
	return listOrInternal(op, list, err)
}

func (g *ProductService) ListReviews(ctx context.Context, productID *wrapperspb.StringValue) (*structpb.ListValue, error) {
	const op = "grpc.ListReviews"

	reviews, err := g.prUC.ListReviews(ctx, productID.GetValue())
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	list, err := toArrGRPCReview(reviews)
	return listOrInternal(op, list, err)
}

func listOrInternal(op string, list *structpb.ListValue, err error) (*structpb.ListValue, error) {
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, e.Internal(err)))
	}

	return list, nil
}
