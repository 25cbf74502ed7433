package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/ecommerce-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/ecommerce-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/ecommerce-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/ecommerce-backend/internal/infrastructure/metrics"
	minioInfra "github.com/DRSN-tech/ecommerce-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/ecommerce-backend/internal/infrastructure/scheduler"
	s3Repo "github.com/DRSN-tech/ecommerce-backend/internal/repository/minio"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/redis"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/clients"
	"github.com/DRSN-tech/ecommerce-backend/pkg/closer"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout     = 10 * time.Second
	forcedCloseTimeout  = 3 * time.Second
	startupProbeTimeout = 10 * time.Second
	ensureTopicTimeout  = 5 * time.Second
	ensureBucketTimeout = 10 * time.Second
)

// App собирает зависимости приложения явно, без DI-контейнера.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	closer    *closer.Closer
	metrics   *metrics.Collector
	httpSrv   *v1Http.Server
	grpcSrv   *v1Grpc.GRPCServer
	scheduler *scheduler.Scheduler

	// bgCtx отменяется после закрытия всех ресурсов и прерывает фоновые очистки MinIO.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(forcedCloseTimeout),
		metrics:  metrics.NewCollector(),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("partial init cleanup: %v", closeErr)
		}
		bgCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	st, err := a.initStore()
	if err != nil {
		return err
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx); err != nil {
		// Кэш не обязателен: чтение деградирует до хранилища.
		a.logger.Warnf("redis is unavailable at startup, product reads will go to the store: %v", err)
	}
	pingCancel()

	cacheRepo := redis.NewCacheRepo(redisClient, a.cfg.Redis, a.metrics, a.logger)

	imagesInfra, err := a.initImages()
	if err != nil {
		return err
	}

	productUC := usecase.NewProductUC(st.products, st.reviews, cacheRepo, imagesInfra, a.logger, a.cfg.Redis.ProductTTL)
	auditedUC := usecase.NewAuditedProductUC(productUC, a.initAuditPublisher(), a.logger)

	maintUC := usecase.NewMaintenanceUC(cacheRepo, st.tokens, a.logger, st.probe, redis.NewHealthProbe(redisClient))
	a.logStartupProbes(maintUC)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(auditedUC)

	a.scheduler, err = scheduler.New(maintUC, a.cfg.Scheduler, a.logger, a.metrics, a.grpcSrv)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(v1Http.RouterDeps{
		ProductUC:      auditedUC,
		MaintenanceUC:  maintUC,
		Observer:       a.metrics,
		MetricsHandler: a.metrics.Handler(),
		JWTSecret:      a.cfg.Auth.JWTSecret,
		SwaggerURL:     a.cfg.Http.SwaggerURL,
		MaxImageSize:   a.cfg.Minio.MaxImageSize,
	})
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)

	// Серверы регистрируются последними: closer работает в порядке LIFO.
	a.closer.Add("scheduler", a.scheduler.Stop)
	a.closer.Add("grpc server", a.grpcSrv.Stop)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// initImages подключает MinIO, если задан бакет. Без него загрузка изображений отвечает внутренней ошибкой.
func (a *App) initImages() (usecase.ImagesInfra, error) {
	if !a.cfg.Minio.Enabled {
		a.logger.Warnf("BUCKET_NAME is not set, product image upload is disabled")
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ensureBucketTimeout)
	defer cancel()
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		return nil, err
	}

	infra := minioInfra.NewMinioInfrastructure(s3Repo.NewImageRepo(minioClient), a.cfg.Minio, a.logger, a.bgCtx)
	a.closer.Add("minio cleanup", infra.WaitForCleanup)

	return infra, nil
}

// initAuditPublisher возвращает nil, если брокеры не заданы: аудит тогда не публикуется.
func (a *App) initAuditPublisher() usecase.AuditPublisher {
	if len(a.cfg.Kafka.Brokers) == 0 {
		a.logger.Warnf("KAFKA_BROKERS is not set, audit events will not be published")
		return nil
	}

	producer := kafka.NewAuditProducer(a.logger, a.cfg.Kafka)
	if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
		a.logger.Warnf("audit topic check failed, publishing anyway: %v", err)
	}
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	return producer
}

func (a *App) logStartupProbes(maintUC *usecase.MaintenanceUseCase) {
	ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()

	reports := maintUC.CheckHealth(ctx)
	for _, r := range reports {
		if r.Status == usecase.ProbeUp {
			a.logger.Infof("Startup probe. component: %s, status: %s, details: %v", r.Component, r.Status, r.Details)
		} else {
			a.logger.Warnf("Startup probe. component: %s, status: %s, error: %s", r.Component, r.Status, r.Error)
		}
	}
	a.metrics.ReportHealth(reports)
}

// Run запускает серверы и планировщик и блокирует до сигнала или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("grpc server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("http server", err)
		}
	}()

	a.scheduler.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}
	a.bgCancel()

	a.logger.Infof("Application shutdown complete")
	return appErr
}
