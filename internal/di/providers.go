package di

import (
	"context"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	"StockSight/internal/domain/repository"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/handler/api"
	"StockSight/internal/handler/web"
	internalrepo "StockSight/internal/repository"
	svcmetrics "StockSight/internal/service/metrics"
	"StockSight/internal/service/ratelimit"
	"StockSight/internal/services/features"
	"StockSight/internal/services/model"
	"StockSight/internal/usecase"
	"StockSight/pkg/cache"
	pkgch "StockSight/pkg/clickhouse"
	"StockSight/pkg/config"
	xhttp "StockSight/pkg/http"
	pkgkafka "StockSight/pkg/kafka"
	applogger "StockSight/pkg/logger"
	"StockSight/pkg/metrics"
	"StockSight/pkg/server"
	xutil "StockSight/pkg/util"
)

const connectTimeout = 10 * time.Second

// ProvideKafkaProducer creates the shared Kafka producer, or nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopic(cfg.Environment != "production"),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the root logger and attaches the Kafka error digest collector when configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "stocksight",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Log.CollectTopic != "" && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   time.Minute,
			CountThreshold: 200,
			Topic:          cfg.Log.CollectTopic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideModel loads the regression artifact. A missing or corrupt artifact is logged and
// yields a nil model so the app still serves the chart.
func ProvideModel(cfg *config.Config, l *applogger.Logger) domsvc.Regressor {
	path := xutil.ResolvePath(cfg.Model.Path)
	m, err := model.Load(path)
	if err != nil {
		l.Error("model not loaded", applogger.String("path", path), applogger.Error(err))
		return nil
	}
	if f := m.Feature(); f != "" && string(f) != cfg.Model.Feature {
		l.Warn("model artifact feature differs from configured feature",
			applogger.String("artifact", string(f)),
			applogger.String("configured", cfg.Model.Feature),
		)
	}
	l.Info("model loaded",
		applogger.String("path", path),
		applogger.Float64("intercept", m.Intercept()),
		applogger.Float64("slope", m.Slope()),
	)
	return m
}

// ProvideFeatureParser selects the input parser for the configured variant.
func ProvideFeatureParser(cfg *config.Config) (domsvc.FeatureParser, error) {
	return features.NewParser(models.FeatureKind(cfg.Model.Feature))
}

// ProvideCSVSeries creates the file-backed series reader.
func ProvideCSVSeries(cfg *config.Config, l *applogger.Logger) *internalrepo.CSVSeries {
	path := xutil.ResolvePath(cfg.Data.CSVPath)
	return internalrepo.NewCSVSeries(path, cfg.Data.LabelColumn, cfg.Data.ValueColumn, l.With(applogger.String("component", "series")))
}

// ProvideSeriesSnapshot loads the series once for startup mode; nil in request mode.
func ProvideSeriesSnapshot(cfg *config.Config, csv *internalrepo.CSVSeries, l *applogger.Logger) *internalrepo.SnapshotSeries {
	if cfg.Data.Reload != config.ReloadStartup {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return internalrepo.NewSnapshotSeries(ctx, csv, l.With(applogger.String("component", "series")))
}

// ProvideSeriesSource picks the snapshot in startup mode and the per-request reader otherwise.
func ProvideSeriesSource(csv *internalrepo.CSVSeries, snap *internalrepo.SnapshotSeries) repository.SeriesSource {
	if snap != nil {
		return snap
	}
	return csv
}

// ProvideJournal opens every configured journal backend. A backend that cannot be reached is
// logged and left out; predictions never depend on the journal.
func ProvideJournal(cfg *config.Config, producer *pkgkafka.Producer, l *applogger.Logger) *internalrepo.MultiJournal {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var backends []internalrepo.NamedJournal
	add := func(name string, j repository.Journal, err error) {
		if err != nil {
			l.Error("journal backend disabled", applogger.String("backend", name), applogger.Error(err))
			return
		}
		backends = append(backends, internalrepo.NamedJournal{Name: name, Journal: j})
		l.Info("journal backend enabled", applogger.String("backend", name))
	}

	for _, b := range cfg.Journal.Backends {
		switch b {
		case "sqlite":
			j, err := internalrepo.OpenSQLJournal(ctx, internalrepo.DialectSQLite, xutil.ResolvePath(cfg.Journal.SQLite.Path))
			add(b, j, err)
		case "postgres":
			j, err := internalrepo.OpenSQLJournal(ctx, internalrepo.DialectPostgres, cfg.Journal.Postgres.DSN)
			add(b, j, err)
		case "mysql":
			j, err := internalrepo.OpenSQLJournal(ctx, internalrepo.DialectMySQL, cfg.Journal.MySQL.DSN)
			add(b, j, err)
		case "clickhouse":
			j, err := openClickHouseJournal(ctx, cfg)
			add(b, j, err)
		case "redis":
			store, err := cache.NewRedisCache(ctx,
				cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
				cache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
				cache.WithRedisPrefix(cfg.Redis.Prefix),
				cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns),
			)
			if err != nil {
				add(b, nil, err)
				continue
			}
			add(b, internalrepo.NewRedisJournal(store, cfg.Journal.Recent), nil)
		case "kafka":
			if producer == nil {
				add(b, nil, fmt.Errorf("kafka producer not configured"))
				continue
			}
			add(b, internalrepo.NewKafkaJournal(producer, cfg.Kafka.Topic), nil)
		}
	}
	return internalrepo.NewMultiJournal(backends...)
}

func openClickHouseJournal(ctx context.Context, cfg *config.Config) (*internalrepo.CHJournal, error) {
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(5, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	j, err := internalrepo.NewCHJournal(ctx, client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse journal: %w", err)
	}
	return j, nil
}

// ProvideJournalPort exposes the fan-out journal through the domain interface.
func ProvideJournalPort(j *internalrepo.MultiJournal) repository.Journal { return j }

// ProvideRateLimiter creates the per-IP limiter for prediction endpoints.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

// ProvidePredictor creates the prediction use case.
func ProvidePredictor(m domsvc.Regressor, parser domsvc.FeatureParser) *usecase.PredictorUseCase {
	return usecase.NewPredictorUseCase(m, parser)
}

// ProvideDashboard creates the dashboard use case.
func ProvideDashboard(
	cfg *config.Config,
	series repository.SeriesSource,
	predictor *usecase.PredictorUseCase,
	journal repository.Journal,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(series, predictor, journal, m, cfg.Data.MAPeriod, l.With(applogger.String("component", "dashboard")))
}

// ProvideRenderer parses the embedded page templates.
func ProvideRenderer() (*web.Renderer, error) {
	return web.NewRenderer()
}

// ProvideHandlers creates every HTTP handler.
func ProvideHandlers(l *applogger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter) []xhttp.Handler {
	return []xhttp.Handler{
		web.NewPageHandler(l, uc, limiter),
		api.NewPredictionHandler(l, uc, limiter),
		api.NewStreamHandler(l, uc),
		api.NewHealthHandler(uc),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, r *web.Renderer, handlers []xhttp.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithRenderer(r),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	snap *internalrepo.SnapshotSeries,
	journal *internalrepo.MultiJournal,
	producer *pkgkafka.Producer,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, srv, snap, journal, producer, limiter)
}
