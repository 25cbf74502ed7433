package redis

import (
	"context"
	"strings"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/clients"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

const ProbeComponent = "cache"

// infoFields — поля INFO, которые попадают в отчёт о состоянии кэша.
var infoFields = []string{"redis_version", "connected_clients", "used_memory_human", "uptime_in_seconds"}

// HealthProbe проверяет доступность Redis: PING и сводка из INFO.
type HealthProbe struct {
	client *clients.RedisClient
}

func NewHealthProbe(client *clients.RedisClient) *HealthProbe {
	return &HealthProbe{client: client}
}

func (h *HealthProbe) Component() string {
	return ProbeComponent
}

// Probe возвращает ошибку, только если не прошёл PING. Недоступный INFO лишь сокращает отчёт.
func (h *HealthProbe) Probe(ctx context.Context) (*usecase.ProbeReport, error) {
	if err := h.client.Ping(ctx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	details := map[string]string{"ping": "PONG"}

	info, err := h.client.Client.Info(ctx, "server", "clients", "memory").Result()
	if err == nil {
		for k, v := range parseInfo(info) {
			details[k] = v
		}
	}

	return usecase.NewProbeReport(ProbeComponent, details, nil), nil
}

// parseInfo выбирает из ответа INFO поля infoFields.
func parseInfo(info string) map[string]string {
	res := make(map[string]string, len(infoFields))
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		for _, f := range infoFields {
			if k == f {
				res[k] = v
			}
		}
	}

	return res
}
