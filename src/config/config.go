package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries every runtime knob, parsed from the environment in one
// place instead of scattering os.Getenv calls through the codebase.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE" envDefault:""`

	RequestLoggingDisabled bool `env:"REQUEST_LOGGING_DISABLED" envDefault:"false"`

	RateLimitDisabled bool          `env:"RATE_LIMIT_DISABLED" envDefault:"false"`
	RateLimitMax      int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1s"`

	MaintenanceMode       bool  `env:"MAINTENANCE_MODE" envDefault:"false"`
	MaxConcurrentRequests int64 `env:"MAX_CONCURRENT_REQUESTS" envDefault:"0"`

	// Bounds enforced at the API boundary; the core trusts its inputs.
	MaxOrderAmount int64 `env:"MAX_ORDER_AMOUNT" envDefault:"10000000"`
	MaxOrderPrice  int64 `env:"MAX_ORDER_PRICE" envDefault:"10000000"`

	MetricsMaxLatencies int `env:"METRICS_MAX_LATENCIES" envDefault:"10000"`
}

// Load reads an optional .env file and parses the environment into a
// Config. A missing .env is fine; a malformed environment value is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
