package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
)

// MaintenanceUseCase выполняет фоновые задачи обслуживания. Сброс кэша в любой момент безопасен:
// чтение товара при промахе идёт в хранилище.
type MaintenanceUseCase struct {
	cacheRepo CacheRepository
	tokenRepo TokenRepository
	probes    []Probe
	logger    logger.Logger
	now       func() time.Time
}

func NewMaintenanceUC(cacheRepo CacheRepository, tokenRepo TokenRepository, logger logger.Logger, probes ...Probe) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		cacheRepo: cacheRepo,
		tokenRepo: tokenRepo,
		probes:    probes,
		logger:    logger,
		now:       time.Now,
	}
}

// FlushProductCache удаляет все снимки товаров из кэша и возвращает число удалённых ключей.
func (m *MaintenanceUseCase) FlushProductCache(ctx context.Context) (int64, error) {
	const op = "MaintenanceUseCase.FlushProductCache"

	removed, err := m.cacheRepo.FlushProducts(ctx)
	if err != nil {
		return removed, e.Wrap(op, err)
	}

	m.logger.Infof("Product cache flushed. keys_removed: %d", removed)
	return removed, nil
}

// PurgeExpiredTokens удаляет refresh-токены, срок действия которых истёк.
func (m *MaintenanceUseCase) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	const op = "MaintenanceUseCase.PurgeExpiredTokens"

	removed, err := m.tokenRepo.DeleteExpired(ctx, m.now().UTC())
	if err != nil {
		return 0, e.Wrap(op, e.Internal(err))
	}

	m.logger.Infof("Expired refresh tokens purged. removed: %d", removed)
	return removed, nil
}

// CheckHealth опрашивает все зависимости и возвращает отчёты в порядке регистрации.
func (m *MaintenanceUseCase) CheckHealth(ctx context.Context) []ProbeReport {
	reports := make([]ProbeReport, 0, len(m.probes))
	for _, probe := range m.probes {
		reports = append(reports, *m.run(ctx, probe))
	}

	return reports
}

// CheckComponent опрашивает одну зависимость по имени.
func (m *MaintenanceUseCase) CheckComponent(ctx context.Context, component string) (*ProbeReport, error) {
	const op = "MaintenanceUseCase.CheckComponent"

	for _, probe := range m.probes {
		if probe.Component() == component {
			return m.run(ctx, probe), nil
		}
	}

	return nil, e.Wrap(op, e.ErrUnknownProbe)
}

func (m *MaintenanceUseCase) run(ctx context.Context, probe Probe) *ProbeReport {
	report, err := probe.Probe(ctx)
	if err != nil {
		var details map[string]string
		if report != nil {
			details = report.Details
		}

		m.logger.Warnf("Health probe failed. component: %s, error: %v", probe.Component(), err)
		return NewProbeReport(probe.Component(), details, err)
	}

	if report == nil {
		report = NewProbeReport(probe.Component(), nil, nil)
	}

	return report
}
