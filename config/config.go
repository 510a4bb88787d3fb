package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Laundry    LaundryConfig    `yaml:"laundry"`
	Database   DatabaseConfig   `yaml:"database"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Auth       AuthConfig       `yaml:"auth"`
	Events     EventsConfig     `yaml:"events"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// LaundryConfig holds the cycle lengths and rules for the shared machines.
type LaundryConfig struct {
	WasherDurationMinutes int   `yaml:"washer_duration_minutes"`
	DryerDurationMinutes  int   `yaml:"dryer_duration_minutes"`
	DryerDurationPresets  []int `yaml:"dryer_duration_presets"`
	// EnforceReadiness makes an elapsed cycle a precondition of start_dryer and mark_done.
	EnforceReadiness *bool `yaml:"enforce_readiness"`
}

// ReadinessEnforced reports whether phase advances wait for the running cycle to finish.
func (c LaundryConfig) ReadinessEnforced() bool {
	return c.EnforceReadiness == nil || *c.EnforceReadiness
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	EnforceExclusivity     *bool  `yaml:"enforce_exclusivity"`
	LogLevel               string `yaml:"log_level"`
}

// ExclusivityEnforced reports whether the machine exclusivity indexes are installed.
func (c DatabaseConfig) ExclusivityEnforced() bool {
	return c.EnforceExclusivity == nil || *c.EnforceExclusivity
}

// WatcherConfig controls the readiness re-evaluation schedule.
type WatcherConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// AuthConfig holds the session token settings.
type AuthConfig struct {
	Enabled       bool          `yaml:"enabled"`
	SessionSecret string        `yaml:"session_secret"`
	CookieName    string        `yaml:"cookie_name"`
	TokenTTLHours int           `yaml:"token_ttl_hours"`
	TokenTTL      time.Duration `yaml:"-"`
}

// EventsConfig holds the optional Redis fan-out for change events.
type EventsConfig struct {
	RedisAddr string `yaml:"redis_addr"`
	Channel   string `yaml:"channel"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets deployment secrets live outside the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Events.RedisAddr = v
	}
}

// ApplyDefaults fills unset values and validates the result.
func (cfg *Config) ApplyDefaults() error {
	log := logger.New("config").Function("ApplyDefaults")

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 2
	}

	if cfg.Laundry.WasherDurationMinutes <= 0 {
		cfg.Laundry.WasherDurationMinutes = 35
	}
	if cfg.Laundry.DryerDurationMinutes <= 0 {
		cfg.Laundry.DryerDurationMinutes = 42
	}
	if len(cfg.Laundry.DryerDurationPresets) == 0 {
		cfg.Laundry.DryerDurationPresets = []int{40, 44, 48, 52}
	}
	for _, p := range cfg.Laundry.DryerDurationPresets {
		if p <= 0 {
			return fmt.Errorf("laundry.dryer_duration_presets: invalid value %d", p)
		}
	}
	slices.Sort(cfg.Laundry.DryerDurationPresets)

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver: unsupported driver %q", cfg.Database.Driver)
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Watcher.IntervalSeconds <= 0 {
		cfg.Watcher.IntervalSeconds = 15
	}
	cfg.Watcher.Interval = time.Duration(cfg.Watcher.IntervalSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Warn("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "hm_session"
	}
	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = 24 * 7
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	if cfg.Auth.Enabled && cfg.Auth.SessionSecret == "" {
		return fmt.Errorf("auth.session_secret is required when auth is enabled")
	}

	if cfg.Events.Channel == "" {
		cfg.Events.Channel = "laundry.loads"
	}

	return nil
}
