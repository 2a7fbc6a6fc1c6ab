package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	models "StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	xhttp "StockSight/pkg/http"
	xlogger "StockSight/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StreamHandler answers each {"input": "..."} text frame with a prediction envelope.
type StreamHandler struct {
	logger *xlogger.Logger
	uc     *usecase.DashboardUseCase
}

func NewStreamHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase) *StreamHandler {
	return &StreamHandler{logger: logger, uc: uc}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/predict", h.Predict)
}

type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(mt int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(mt, data)
}

func (h *StreamHandler) Predict(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	ws := &wsConn{conn: conn}
	remote := c.RealIP()
	h.logger.Debug("websocket connected", xlogger.String("remote", remote))

	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		h.logger.Debug("websocket closed", xlogger.String("remote", remote))
	}()

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := ws.write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request().Context()
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", xlogger.Error(err))
			}
			return nil
		}
		if mt != websocket.TextMessage {
			continue
		}
		resp, err := json.Marshal(h.answer(ctx, msg))
		if err != nil {
			h.logger.Error("websocket encode error", xlogger.Error(err))
			return nil
		}
		if err := ws.write(websocket.TextMessage, resp); err != nil {
			return nil
		}
	}
}

func (h *StreamHandler) answer(ctx context.Context, msg []byte) xhttp.APIResponse {
	req := &models.PredictRequest{}
	if err := json.Unmarshal(msg, req); err != nil {
		return envelope(http.StatusBadRequest, []xhttp.ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}})
	}
	out := h.uc.Predict(ctx, req.Raw(h.uc.Kind()))
	if out.Err != nil {
		appErr := predictionAppError(out.Err)
		return envelope(xhttp.StatusOf(appErr), []*xhttp.AppError{appErr})
	}
	return envelope(http.StatusOK, predictionPayload(out))
}

func envelope(status int, data interface{}) xhttp.APIResponse {
	return xhttp.APIResponse{Status: status, Message: http.StatusText(status), Data: data}
}
