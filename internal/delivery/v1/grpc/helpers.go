package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCErrorResponse сопоставляет ошибку коду gRPC. Текст внутренних ошибок клиенту не отдаётся.
func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrInternal):
		return status.Error(codes.Internal, e.ErrInternal.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternal.Error())
	}
}

// loggingInterceptor логирует каждый unary-вызов с кодом ответа и длительностью.
func loggingInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		res, err := handler(ctx, req)
		code := status.Code(err)

		if code == codes.Internal || code == codes.Unknown {
			log.Errorf(err, "gRPC call failed. method: %s, code: %s, duration: %s", info.FullMethod, code, time.Since(start))
		} else {
			log.Infof("gRPC call. method: %s, code: %s, duration: %s", info.FullMethod, code, time.Since(start))
		}

		return res, err
	}
}

func toGRPCProduct(p *domain.Product) (*structpb.Struct, error) {
	return structpb.NewStruct(productFields(p))
}

func toArrGRPCProduct(products []domain.Product) (*structpb.ListValue, error) {
	items := make([]any, len(products))
	for i := range products {
		items[i] = productFields(&products[i])
	}

	return structpb.NewList(items)
}

func toArrGRPCReview(reviews []domain.Review) (*structpb.ListValue, error) {
	items := make([]any, len(reviews))
	for i := range reviews {
		items[i] = reviewFields(&reviews[i])
	}

	return structpb.NewList(items)
}

// productFields: цена передаётся строкой, чтобы не терять точность в double.
func productFields(p *domain.Product) map[string]any {
	reviews := make([]any, len(p.Reviews))
	for i := range p.Reviews {
		reviews[i] = reviewFields(&p.Reviews[i])
	}

	return map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"description":   p.Description,
		"price":         p.Price.String(),
		"stockQuantity": p.StockQuantity,
		"category":      p.Category,
		"imageUrl":      p.ImageURL,
		"active":        p.Active,
		"createdAt":     p.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":     p.UpdatedAt.Format(time.RFC3339Nano),
		"reviews":       reviews,
	}
}

func reviewFields(r *domain.Review) map[string]any {
	return map[string]any{
		"id":        r.ID,
		"productId": r.ProductID,
		"userId":    r.UserID,
		"rating":    r.Rating,
		"comment":   r.Comment,
		"createdAt": r.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": r.UpdatedAt.Format(time.RFC3339Nano),
	}
}
