package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VESSELSCOPE_"

// Config defines process configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service" envPrefix:"SERVICE_"`
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Transport TransportConfig `yaml:"transport" envPrefix:"TRANSPORT_"`
	DB        DBConfig        `yaml:"db" envPrefix:"DB_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Filter    FilterConfig    `yaml:"filter" envPrefix:"FILTER_"`
}

// ServiceConfig points at the analytics service.
type ServiceConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RateLimit float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int           `yaml:"rate_burst" env:"RATE_BURST"`
}

type ServerConfig struct {
	Host   string `yaml:"host" env:"HOST"`
	Port   int    `yaml:"port" env:"PORT"`
	// APIKey guards the HTTP API and the MCP endpoint when set.
	APIKey string `yaml:"api_key" env:"API_KEY"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"MODE"` // "http" or "stdio"
}

type DBConfig struct {
	Path string `yaml:"path" env:"PATH"`
	// KeepSnapshots bounds stored snapshots; 0 keeps all.
	KeepSnapshots int `yaml:"keep_snapshots" env:"KEEP_SNAPSHOTS"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // "text" or "json"
}

// FilterConfig seeds the store's filter.
type FilterConfig struct {
	StartDate     string `yaml:"start_date" env:"START_DATE"`
	EndDate       string `yaml:"end_date" env:"END_DATE"`
	FocusVesselID string `yaml:"focus_vessel_id" env:"FOCUS_VESSEL_ID"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:   "http://127.0.0.1:5000",
			Timeout:   30 * time.Second,
			RateLimit: 10,
			RateBurst: 5,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path:          "vesselscope.db",
			KeepSnapshots: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Filter: FilterConfig{
			StartDate:     "2035-02-01",
			EndDate:       "2035-03-17",
			FocusVesselID: "snappersnatcher7be",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file named by
// VESSELSCOPE_CONFIG_PATH, and VESSELSCOPE_* environment variables, in that
// order, and validates the result.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Service.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("service.base_url %q must be an absolute URL", c.Service.BaseURL))
	}
	if c.Service.Timeout < 0 {
		errs = append(errs, errors.New("service.timeout must not be negative"))
	}
	if c.Service.RateLimit < 0 || c.Service.RateBurst < 0 {
		errs = append(errs, errors.New("service.rate_limit and service.rate_burst must not be negative"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		errs = append(errs, fmt.Errorf("transport.mode %q must be http or stdio", c.Transport.Mode))
	}
	if c.DB.KeepSnapshots < 0 {
		errs = append(errs, errors.New("db.keep_snapshots must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	for _, d := range []struct{ name, value string }{
		{"filter.start_date", c.Filter.StartDate},
		{"filter.end_date", c.Filter.EndDate},
	} {
		if _, err := time.Parse(time.DateOnly, d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s %q must be YYYY-MM-DD", d.name, d.value))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
