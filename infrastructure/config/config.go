package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Backend endpoints
	TopologyStoreURL string `yaml:"topology_store_url"`
	SimulationURL    string `yaml:"simulation_url"`
	IdentityURL      string `yaml:"identity_url"`
	PaymentURL       string `yaml:"payment_url"`

	// Outbound HTTP
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	SimulationTimeout time.Duration `yaml:"simulation_timeout"`

	// Circuit breaker around the simulation engine
	BreakerMaxRequests      uint32        `yaml:"breaker_max_requests"`
	BreakerInterval         time.Duration `yaml:"breaker_interval"`
	BreakerTimeout          time.Duration `yaml:"breaker_timeout"`
	BreakerFailureThreshold uint32        `yaml:"breaker_failure_threshold"`

	// Session
	TokenFile string `yaml:"token_file"`

	// Catalog caches
	ScenarioCacheTTL time.Duration `yaml:"scenario_cache_ttl"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// CORS
	CORSOrigins []string `yaml:"cors_origins"`

	// Requests per minute per client address on the REST facade, 0 disables
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Tracing
	TracingEndpoint   string  `yaml:"tracing_endpoint"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		ServerAddress:           ":8070",
		Environment:             "development",
		TopologyStoreURL:        "http://localhost:8080/api/v1",
		SimulationURL:           "http://localhost:8081",
		IdentityURL:             "http://localhost:8090/api/v1",
		PaymentURL:              "http://localhost:8090/api/v1",
		HTTPTimeout:             15 * time.Second,
		SimulationTimeout:       2 * time.Minute,
		BreakerMaxRequests:      1,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          30 * time.Second,
		BreakerFailureThreshold: 5,
		TokenFile:               defaultTokenFile(),
		ScenarioCacheTTL:        10 * time.Minute,
		LogLevel:                "info",
		CORSOrigins:             []string{"http://localhost:3001", "http://localhost:5173"},
		RateLimitPerMinute:      600,
		TracingSampleRate:       1,
		EnableMetrics:           true,
		EnableTracing:           false,
		EnableCORS:              true,
	}
}

// LoadConfig loads configuration from defaults, then the YAML file named by
// WORKBENCH_CONFIG if set, then environment variables
func LoadConfig() (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	if path := os.Getenv("WORKBENCH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.loadEnvironment()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironment() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.TopologyStoreURL = getEnv("TOPOLOGY_STORE_URL", c.TopologyStoreURL)
	c.SimulationURL = getEnv("SIMULATION_URL", c.SimulationURL)
	c.IdentityURL = getEnv("IDENTITY_URL", c.IdentityURL)
	c.PaymentURL = getEnv("PAYMENT_URL", c.PaymentURL)

	c.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.SimulationTimeout = getEnvDuration("SIMULATION_TIMEOUT", c.SimulationTimeout)

	c.BreakerMaxRequests = uint32(getEnvInt("BREAKER_MAX_REQUESTS", int(c.BreakerMaxRequests)))
	c.BreakerInterval = getEnvDuration("BREAKER_INTERVAL", c.BreakerInterval)
	c.BreakerTimeout = getEnvDuration("BREAKER_TIMEOUT", c.BreakerTimeout)
	c.BreakerFailureThreshold = uint32(getEnvInt("BREAKER_FAILURE_THRESHOLD", int(c.BreakerFailureThreshold)))

	c.TokenFile = getEnv("TOKEN_FILE", c.TokenFile)
	c.ScenarioCacheTTL = getEnvDuration("SCENARIO_CACHE_TTL", c.ScenarioCacheTTL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	c.TracingEndpoint = getEnv("TRACING_ENDPOINT", c.TracingEndpoint)
	c.TracingSampleRate = getEnvFloat("TRACING_SAMPLE_RATE", c.TracingSampleRate)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 || c.SimulationTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}
	if c.ScenarioCacheTTL < 0 {
		return fmt.Errorf("SCENARIO_CACHE_TTL cannot be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE cannot be negative")
	}

	if c.Environment == "production" {
		endpoints := map[string]string{
			"TOPOLOGY_STORE_URL": c.TopologyStoreURL,
			"SIMULATION_URL":     c.SimulationURL,
			"IDENTITY_URL":       c.IdentityURL,
			"PAYMENT_URL":        c.PaymentURL,
		}
		for key, raw := range endpoints {
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%s must be an absolute URL in production", key)
			}
		}
		if c.TokenFile == "" {
			return fmt.Errorf("TOKEN_FILE is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".workbench-token"
	}
	return dir + "/feeder-workbench/token"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
