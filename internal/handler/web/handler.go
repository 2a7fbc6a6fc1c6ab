package web

import (
	"errors"
	"net/http"
	"strings"

	models "StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	"StockSight/pkg/http/middleware"
	xlogger "StockSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

const pageTemplate = "index.html"

// errTooManyRequests is shown inline; the form route never answers with a non-200 status.
var errTooManyRequests = errors.New("terlalu banyak permintaan.")

// PageHandler serves the HTML chart view and the prediction form.
// Every outcome, including errors, renders with status 200.
type PageHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.DashboardUseCase
	limiter middleware.Allower
}

func NewPageHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, limiter middleware.Allower) *PageHandler {
	return &PageHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/predict", h.Predict)
}

func (h *PageHandler) Index(c echo.Context) error {
	chart := h.uc.Chart(c.Request().Context(), -1)
	return c.Render(http.StatusOK, pageTemplate, ChartPage(h.uc.Kind(), h.uc.Ready(), chart))
}

func (h *PageHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if err := c.Bind(req); err != nil {
		// a malformed body is treated like an empty field
		h.logger.Debug("predict form bind failed", xlogger.Error(err))
	}
	raw := req.Raw(h.uc.Kind())

	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		out := usecase.Outcome{
			Chart: h.uc.Chart(c.Request().Context(), -1),
			Input: strings.TrimSpace(raw),
			Err:   errTooManyRequests,
		}
		return c.Render(http.StatusOK, pageTemplate, OutcomePage(h.uc.Kind(), h.uc.Ready(), out))
	}

	out := h.uc.Predict(c.Request().Context(), raw)
	return c.Render(http.StatusOK, pageTemplate, OutcomePage(h.uc.Kind(), h.uc.Ready(), out))
}
