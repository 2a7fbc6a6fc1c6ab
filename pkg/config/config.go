package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	xutil "StockSight/pkg/util"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	FeatureDate = "date"
	FeatureOpen = "open"

	ReloadRequest = "request"
	ReloadStartup = "startup"
)

var knownJournalBackends = map[string]bool{
	"sqlite":     true,
	"postgres":   true,
	"mysql":      true,
	"clickhouse": true,
	"kafka":      true,
	"redis":      true,
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level        string `yaml:"level"`
		Format       string `yaml:"format"`
		Output       string `yaml:"output"`
		CollectTopic string `yaml:"collect_topic"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Model struct {
		Path    string `yaml:"path"`
		Feature string `yaml:"feature"`
	} `yaml:"model"`
	Data struct {
		CSVPath     string `yaml:"csv_path"`
		LabelColumn string `yaml:"label_column"`
		ValueColumn string `yaml:"value_column"`
		Reload      string `yaml:"reload"`
		RefreshCron string `yaml:"refresh_cron"`
		MAPeriod    int    `yaml:"ma_period"`
	} `yaml:"data"`
	Journal struct {
		Backends []string `yaml:"backends"`
		Recent   int      `yaml:"recent"`
		SQLite   struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
		MySQL struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
	} `yaml:"journal"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		Password     string `yaml:"password"`
		DB           int    `yaml:"db"`
		Prefix       string `yaml:"prefix"`
		PoolSize     int    `yaml:"pool_size"`
		MinIdleConns int    `yaml:"min_idle_conns"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is read first when present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STOCKSIGHT_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("FEATURE"); v != "" {
		c.Model.Feature = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		c.Data.CSVPath = v
	}
	if v := os.Getenv("DATA_RELOAD"); v != "" {
		c.Data.Reload = v
	}
	if v := os.Getenv("JOURNAL_BACKENDS"); v != "" {
		c.Journal.Backends = splitList(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Journal.SQLite.Path = v
	}
	if v := os.Getenv("PG_DSN"); v != "" {
		c.Journal.Postgres.DSN = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.Journal.MySQL.DSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	// A negative rps disables rate limiting.
	if c.Server.RateLimit.RPS == 0 {
		c.Server.RateLimit.RPS = 5
	}
	if c.Server.RateLimit.Burst <= 0 {
		c.Server.RateLimit.Burst = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Model.Path == "" {
		c.Model.Path = "model_saham_date.yaml"
	}
	if c.Model.Feature == "" {
		c.Model.Feature = FeatureDate
	}
	if c.Data.CSVPath == "" {
		c.Data.CSVPath = "data_grafik_bbri.csv"
	}
	if c.Data.LabelColumn == "" {
		c.Data.LabelColumn = "DateStr"
	}
	if c.Data.ValueColumn == "" {
		c.Data.ValueColumn = "Close"
	}
	// The open-price variant loads its series once, the date variant on every request.
	if c.Data.Reload == "" {
		c.Data.Reload = ReloadRequest
		if c.Model.Feature == FeatureOpen {
			c.Data.Reload = ReloadStartup
		}
	}
	if c.Journal.Recent <= 0 {
		c.Journal.Recent = 50
	}
	if c.Journal.SQLite.Path == "" {
		c.Journal.SQLite.Path = "predictions.db"
	}
	if c.Kafka.RequiredAcks == 0 {
		c.Kafka.RequiredAcks = -1
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "stocksight.predictions"
	}
	if c.ClickHouse.Database == "" {
		c.ClickHouse.Database = "stocksight"
	}
	if c.ClickHouse.Port == 0 {
		c.ClickHouse.Port = 9000
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "stocksight"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Model.Feature != FeatureDate && c.Model.Feature != FeatureOpen {
		return fmt.Errorf("model.feature must be '%s' or '%s', got '%s'", FeatureDate, FeatureOpen, c.Model.Feature)
	}
	if c.Data.Reload != ReloadRequest && c.Data.Reload != ReloadStartup {
		return fmt.Errorf("data.reload must be '%s' or '%s', got '%s'", ReloadRequest, ReloadStartup, c.Data.Reload)
	}
	if c.Data.RefreshCron != "" && c.Data.Reload != ReloadStartup {
		return fmt.Errorf("data.refresh_cron requires data.reload '%s'", ReloadStartup)
	}
	if c.Data.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Data.RefreshCron); err != nil {
			return fmt.Errorf("data.refresh_cron: %w", err)
		}
	}
	if c.Data.MAPeriod < 0 {
		return fmt.Errorf("data.ma_period cannot be negative, got %d", c.Data.MAPeriod)
	}
	for _, b := range c.Journal.Backends {
		if !knownJournalBackends[b] {
			return fmt.Errorf("journal.backends: unknown backend '%s'", b)
		}
		switch b {
		case "postgres":
			if c.Journal.Postgres.DSN == "" {
				return fmt.Errorf("journal.postgres.dsn is required")
			}
		case "mysql":
			if c.Journal.MySQL.DSN == "" {
				return fmt.Errorf("journal.mysql.dsn is required")
			}
		case "kafka":
			if len(c.Kafka.Brokers) == 0 {
				return fmt.Errorf("kafka.brokers cannot be empty when kafka journal is enabled")
			}
		case "clickhouse":
			if c.ClickHouse.Host == "" {
				return fmt.Errorf("clickhouse.host is required when clickhouse journal is enabled")
			}
		}
	}
	if c.Log.CollectTopic != "" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("log.collect_topic requires kafka.brokers")
	}
	return nil
}

// JournalEnabled reports whether backend b is listed in journal.backends.
func (c *Config) JournalEnabled(b string) bool {
	for _, x := range c.Journal.Backends {
		if x == b {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
