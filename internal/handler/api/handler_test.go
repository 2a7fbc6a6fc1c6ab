package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockSight/internal/domain/models"
	"StockSight/internal/services/features"
	"StockSight/internal/services/model"
	"StockSight/internal/usecase"
	xlogger "StockSight/pkg/logger"
	"StockSight/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type staticSeries struct{ s models.TimeSeries }

func (s staticSeries) Read(context.Context) (models.TimeSeries, error) { return s.s, nil }

type listJournal struct{ events []models.PredictionEvent }

func (j *listJournal) Record(_ context.Context, ev models.PredictionEvent) error {
	j.events = append(j.events, ev)
	return nil
}
func (j *listJournal) Close() error { return nil }
func (j *listJournal) Recent(_ context.Context, n int) ([]models.PredictionEvent, error) {
	out := []models.PredictionEvent{}
	for i := len(j.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, j.events[i])
	}
	return out, nil
}

type envelopeT struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAPI(t *testing.T, withModel bool, journal interface {
	Record(context.Context, models.PredictionEvent) error
	Close() error
}) *echo.Echo {
	t.Helper()
	series := staticSeries{s: models.TimeSeries{
		Labels: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Values: []float64{100, 105, 110},
	}}
	var pred *usecase.PredictorUseCase
	if withModel {
		pred = usecase.NewPredictorUseCase(model.NewLinearModel(-100, []float64{2}, models.FeatureOpen), features.OpenPriceParser{})
	} else {
		pred = usecase.NewPredictorUseCase(nil, features.OpenPriceParser{})
	}
	uc := usecase.NewDashboardUseCase(series, pred, journal, metrics.Nop{}, 2, nil)

	e := echo.New()
	NewPredictionHandler(xlogger.Nop(), uc, nil).RegisterRoutes(e)
	NewHealthHandler(uc).RegisterRoutes(e)
	NewStreamHandler(xlogger.Nop(), uc).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (int, envelopeT) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelopeT
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env
}

func TestAPIPredictSuccess(t *testing.T) {
	j := &listJournal{}
	e := newAPI(t, true, j)
	code, env := do(t, e, http.MethodPost, "/api/predict", `{"harga_open":"100"}`)
	if code != http.StatusOK || env.Status != http.StatusOK {
		t.Fatalf("status %d/%d", code, env.Status)
	}
	var p PredictionPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Predicted != 100 || p.Reference != 110 || p.Delta != -10 || p.Trend != "down" {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p.PredictedText != "Rp 100.00" || p.FeatureKind != "open" || p.TargetDate != "" {
		t.Fatalf("unexpected payload %+v", p)
	}
	if len(j.events) != 1 {
		t.Fatalf("prediction not journaled")
	}
}

func TestAPIPredictErrorsUseInnerStatus(t *testing.T) {
	e := newAPI(t, true, nil)
	code, env := do(t, e, http.MethodPost, "/api/predict", `{"harga_open":"abc"}`)
	if code != http.StatusOK || env.Status != http.StatusBadRequest {
		t.Fatalf("status %d/%d", code, env.Status)
	}
	if !strings.Contains(string(env.Data), "ERR_INVALID_INPUT") {
		t.Fatalf("unexpected body %s", env.Data)
	}

	e = newAPI(t, false, nil)
	code, env = do(t, e, http.MethodPost, "/api/predict", `{"input":"100"}`)
	if code != http.StatusOK || env.Status != http.StatusServiceUnavailable {
		t.Fatalf("status %d/%d", code, env.Status)
	}
	if !strings.Contains(string(env.Data), "Model belum dimuat.") {
		t.Fatalf("unexpected body %s", env.Data)
	}
}

func TestAPISeries(t *testing.T) {
	e := newAPI(t, true, nil)
	_, env := do(t, e, http.MethodGet, "/api/series", "")
	var s SeriesPayload
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Values) != 3 || s.LastPrice != 110 || s.MAPeriod != 2 || len(s.MA) != 3 || s.MA[0] != nil {
		t.Fatalf("unexpected series %+v", s)
	}

	_, env = do(t, e, http.MethodGet, "/api/series?ma=0", "")
	s = SeriesPayload{}
	_ = json.Unmarshal(env.Data, &s)
	if s.MA != nil || s.MAPeriod != 0 {
		t.Fatalf("ma=0 should disable overlay: %+v", s)
	}

	_, env = do(t, e, http.MethodGet, "/api/series?ma=999", "")
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", env.Status)
	}
}

func TestAPIRecent(t *testing.T) {
	e := newAPI(t, true, nil)
	_, env := do(t, e, http.MethodGet, "/api/predictions/recent", "")
	if env.Status != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a readable journal, got %d", env.Status)
	}

	j := &listJournal{}
	e = newAPI(t, true, j)
	for _, in := range []string{"50", "60", "70"} {
		do(t, e, http.MethodPost, "/api/predict", `{"input":"`+in+`"}`)
	}
	_, env = do(t, e, http.MethodGet, "/api/predictions/recent?n=2", "")
	var list struct {
		Rows  []models.PredictionEvent `json:"rows"`
		Total int64                    `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 2 || list.Rows[0].Input != "70" || list.Rows[1].Input != "60" {
		t.Fatalf("unexpected recent %+v", list)
	}
}

func TestAPIModelAndProbes(t *testing.T) {
	e := newAPI(t, true, nil)
	_, env := do(t, e, http.MethodGet, "/api/model", "")
	var m ModelPayload
	_ = json.Unmarshal(env.Data, &m)
	if !m.Ready || m.Slope != 2 || m.Intercept != -100 || m.Feature != "open" {
		t.Fatalf("unexpected model %+v", m)
	}
	if code, _ := do(t, e, http.MethodGet, "/readyz", ""); code != http.StatusOK {
		t.Fatalf("readyz %d", code)
	}

	e = newAPI(t, false, nil)
	if code, _ := do(t, e, http.MethodGet, "/healthz", ""); code != http.StatusOK {
		t.Fatalf("healthz %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/readyz", ""); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without model %d", code)
	}
}

func TestWebSocketPredict(t *testing.T) {
	srv := httptest.NewServer(newAPI(t, true, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"input":"60"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var env envelopeT
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	var p PredictionPayload
	_ = json.Unmarshal(env.Data, &p)
	if env.Status != http.StatusOK || p.Predicted != 20 || p.Trend != "down" {
		t.Fatalf("unexpected answer %+v %+v", env, p)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	env = envelopeT{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed frame, got %d", env.Status)
	}
}
