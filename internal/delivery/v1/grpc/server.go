package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	cfg    *cfg.GRPCConfig
	logger logger.Logger
}

func NewGRPCServer(cfg *cfg.GRPCConfig, logger logger.Logger) *GRPCServer {
	s := &GRPCServer{
		server: grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger))),
		health: health.NewServer(),
		cfg:    cfg,
		logger: logger,
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	return s
}

func (s *GRPCServer) RegisterServices(prUC usecase.ProductUC) {
	RegisterProductCatalogServer(s.server, NewProductService(prUC, s.logger))
	s.health.SetServingStatus(catalogServiceName, healthpb.HealthCheckResponse_SERVING)
}

// ReportHealth выставляет статус health-сервиса по последней проверке зависимостей:
// каталог обслуживает запросы, только пока все зависимости доступны.
func (s *GRPCServer) ReportHealth(reports []usecase.ProbeReport) {
	st := healthpb.HealthCheckResponse_SERVING
	for _, r := range reports {
		if r.Status != usecase.ProbeUp {
			st = healthpb.HealthCheckResponse_NOT_SERVING
			break
		}
	}

	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(catalogServiceName, st)
}

func (s *GRPCServer) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	lis, err := net.Listen(s.cfg.NetworkMode, addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("gRPC server stopped gracefully")
		return nil
	case <-ctx.Done():
		s.server.Stop()
		s.logger.Warnf("gRPC server forced to stop after timeout")
		return ctx.Err()
	}
}
