// Package scheduler запускает периодические задачи обслуживания каталога по cron-расписанию.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = time.Minute

// HealthReporter получает результаты периодической проверки зависимостей.
type HealthReporter interface {
	ReportHealth(reports []usecase.ProbeReport)
}

type Scheduler struct {
	cron       *cron.Cron
	maintUC    usecase.MaintenanceUC
	reporters  []HealthReporter
	logger     logger.Logger
	jobTimeout time.Duration
}

// New регистрирует задачи сброса кэша, очистки токенов и проверки зависимостей.
// Расписания задаются с секундами: "0 0 */4 * * *".
func New(maintUC usecase.MaintenanceUC, cfg *cfg.SchedulerCfg, log logger.Logger, reporters ...HealthReporter) (*Scheduler, error) {
	const op = "scheduler.New"

	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		maintUC:    maintUC,
		reporters:  reporters,
		logger:     log,
		jobTimeout: defaultJobTimeout,
	}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"cache-flush", cfg.CacheFlushSpec, s.FlushCache},
		{"token-purge", cfg.TokenPurgeSpec, s.PurgeTokens},
		{"health-check", cfg.HealthCheckSpec, s.CheckHealth},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return nil, e.Wrap(op, fmt.Errorf("job %s, spec %q: %w", job.name, job.spec, err))
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infof("Scheduler started. jobs: %d", len(s.cron.Entries()))
}

// Stop прекращает планирование и ждёт завершения запущенных задач, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) FlushCache() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if _, err := s.maintUC.FlushProductCache(ctx); err != nil {
		s.logger.Errorf(err, "scheduled cache flush failed")
	}
}

func (s *Scheduler) PurgeTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if _, err := s.maintUC.PurgeExpiredTokens(ctx); err != nil {
		s.logger.Errorf(err, "scheduled token purge failed")
	}
}

// CheckHealth опрашивает зависимости и передаёт отчёты всем получателям.
func (s *Scheduler) CheckHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	reports := s.maintUC.CheckHealth(ctx)
	for _, r := range reports {
		s.logger.Infof("Health check. component: %s, status: %s", r.Component, r.Status)
	}

	for _, reporter := range s.reporters {
		reporter.ReportHealth(reports)
	}
}

// cronLogger приводит logger.Logger к интерфейсу логгера cron.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debugf("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Errorf(err, "cron: %s %v", msg, keysAndValues)
}
