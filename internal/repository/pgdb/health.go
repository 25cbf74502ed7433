package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

const ProbeComponent = "store"

// HealthProbe проверяет PostgreSQL: версия сервера и число активных соединений.
type HealthProbe struct {
	db DBTX
}

func NewHealthProbe(db DBTX) *HealthProbe {
	return &HealthProbe{db: db}
}

func (h *HealthProbe) Component() string {
	return ProbeComponent
}

func (h *HealthProbe) Probe(ctx context.Context) (*usecase.ProbeReport, error) {
	var (
		version     string
		connections int64
	)

	err := h.db.QueryRow(ctx, `SELECT current_setting('server_version'), (SELECT count(*) FROM pg_stat_activity)`).
		Scan(&version, &connections)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewProbeReport(ProbeComponent, map[string]string{
		"driver":              "postgres",
		"version":             version,
		"connections_current": fmt.Sprint(connections),
	}, nil), nil
}
