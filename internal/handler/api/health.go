package api

import (
	"net/http"

	"StockSight/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	uc *usecase.DashboardUseCase
}

func NewHealthHandler(uc *usecase.DashboardUseCase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Live)
	e.GET("/readyz", h.Ready)
}

func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready fails with 503 while no model is loaded.
func (h *HealthHandler) Ready(c echo.Context) error {
	if !h.uc.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "model not loaded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
