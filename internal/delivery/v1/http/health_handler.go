package http

import (
	"net/http"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type HealthHandler struct {
	maintUC usecase.MaintenanceUC
	logger  logger.Logger
}

func NewHealthHandler(maintUC usecase.MaintenanceUC, logger logger.Logger) *HealthHandler {
	return &HealthHandler{maintUC: maintUC, logger: logger}
}

// health
//
//	@Summary	Состояние всех зависимостей
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	reports := h.maintUC.CheckHealth(r.Context())

	res := HealthResponse{Status: usecase.ProbeUp, Components: reports}
	for _, report := range reports {
		if report.Status != usecase.ProbeUp {
			res.Status = usecase.ProbeDown
		}
	}

	WriteSuccess(w, probeHTTPStatus(res.Status), res)
}

// component
//
//	@Summary	Состояние одной зависимости
//	@Tags		health
//	@Produce	json
//	@Param		component	path		string	true	"store или cache"
//	@Success	200			{object}	usecase.ProbeReport
//	@Failure	404			{object}	ErrorResponse
//	@Failure	503			{object}	usecase.ProbeReport
//	@Router		/health/{component} [get]
func (h *HealthHandler) component(w http.ResponseWriter, r *http.Request) {
	report, err := h.maintUC.CheckComponent(r.Context(), chi.URLParam(r, "component"))
	if err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, probeHTTPStatus(report.Status), report)
}

func probeHTTPStatus(status usecase.ProbeStatus) int {
	if status == usecase.ProbeUp {
		return http.StatusOK
	}

	return http.StatusServiceUnavailable
}
