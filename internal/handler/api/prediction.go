package api

import (
	"errors"

	models "StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	xhttp "StockSight/pkg/http"
	"StockSight/pkg/http/middleware"
	xlogger "StockSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionHandler serves the JSON API. Domain failures travel in the envelope's
// inner status while the HTTP status stays 200.
type PredictionHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.DashboardUseCase
	limiter middleware.Allower
}

func NewPredictionHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, limiter middleware.Allower) *PredictionHandler {
	return &PredictionHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *PredictionHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/series", h.Series)
	g.POST("/predict", h.Predict, middleware.RateLimit(h.limiter))
	g.GET("/predictions/recent", h.Recent)
	g.GET("/model", h.Model)
}

func (h *PredictionHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := -1
	if req.MA != nil {
		period = *req.MA
	}
	chart := h.uc.Chart(c.Request().Context(), period)
	return xhttp.SuccessResponse(c, seriesPayload(chart))
}

func (h *PredictionHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	out := h.uc.Predict(c.Request().Context(), req.Raw(h.uc.Kind()))
	if out.Err != nil {
		return xhttp.AppErrorResponse(c, predictionAppError(out.Err))
	}
	return xhttp.SuccessResponse(c, predictionPayload(out))
}

func (h *PredictionHandler) Recent(c echo.Context) error {
	req := &models.RecentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	events, err := h.uc.Recent(c.Request().Context(), req.N)
	if err != nil {
		if !errors.Is(err, usecase.ErrRecentUnsupported) {
			h.logger.Error("recent predictions error", xlogger.Error(err))
			return xhttp.InternalServerErrorResponse(c)
		}
		return xhttp.AppErrorResponse(c, predictionAppError(err))
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *PredictionHandler) Model(c echo.Context) error {
	return xhttp.SuccessResponse(c, modelPayload(h.uc.Model()))
}
