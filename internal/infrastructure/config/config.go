package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Point Relay.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Store    StoreConfig    `yaml:"store"`
	Relay    RelayConfig    `yaml:"relay"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains service identity information.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite dead-letter database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// Store backend identifiers.
const (
	// BackendInfluxDB selects the InfluxDB v2 client backend.
	BackendInfluxDB = "influxdb"

	// BackendVictoriaMetrics selects the VictoriaMetrics line-protocol backend.
	BackendVictoriaMetrics = "victoriametrics"
)

// StoreConfig contains time-series store connection settings.
//
// These parameters are immutable after load: the store resolver copies them
// at construction and builds its client handle from the copy.
type StoreConfig struct {
	// Enabled controls whether messages are relayed at all.
	// When false the relay never subscribes and reports itself inert.
	Enabled bool `yaml:"enabled"`

	// Backend selects the store implementation: "influxdb" or "victoriametrics".
	Backend string `yaml:"backend"`

	// URL is the store endpoint (e.g. http://localhost:8086).
	URL string `yaml:"url"`

	// Token is the store API token. Secret: prefer the POINTRELAY_STORE_TOKEN
	// environment variable over the file.
	Token string `yaml:"token"`

	// Org is the InfluxDB v2 organisation. Ignored by VictoriaMetrics.
	Org string `yaml:"org"`

	// Database is the default target database (InfluxDB v2 bucket) used when
	// neither the message nor the route names one.
	Database string `yaml:"database"`
}

// RelayConfig contains translation pipeline settings.
type RelayConfig struct {
	// StatusResetSeconds is how long the "written" status badge is shown
	// before returning to idle. Default: 3.
	StatusResetSeconds int `yaml:"status_reset_seconds"`

	// Routes are the ingest subscriptions. Each route carries the node-level
	// defaults: what measurement/database to fall back to, and where to
	// forward successfully written messages.
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig describes a single ingest route.
type RouteConfig struct {
	// Name identifies the route in logs, status and dead-letter records.
	Name string `yaml:"name"`

	// Topic is the MQTT topic (or wildcard pattern) to subscribe to.
	Topic string `yaml:"topic"`

	// Measurement is the route-level default measurement. A message-level
	// measurement takes precedence.
	Measurement string `yaml:"measurement"`

	// Database is the route-level default database. A message-level database
	// takes precedence; the store default is the final fallback.
	Database string `yaml:"database"`

	// ForwardTopic is where the original message is republished after a
	// successful write. Empty disables forwarding for this route.
	ForwardTopic string `yaml:"forward_topic"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: POINTRELAY_SECTION_KEY
// For example: POINTRELAY_STORE_TOKEN, POINTRELAY_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "relay-001",
			Name: "Point Relay",
		},
		Database: DatabaseConfig{
			Path:        "./data/pointrelay.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "pointrelay",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Store: StoreConfig{
			Enabled: true,
			Backend: BackendInfluxDB,
			URL:     "http://localhost:8086",
		},
		Relay: RelayConfig{
			StatusResetSeconds: 3,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: POINTRELAY_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("POINTRELAY_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("POINTRELAY_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("POINTRELAY_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("POINTRELAY_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Store - the token is a secret and should come from the environment
	if v := os.Getenv("POINTRELAY_STORE_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv("POINTRELAY_STORE_TOKEN"); v != "" {
		cfg.Store.Token = v
	}

	// API
	if v := os.Getenv("POINTRELAY_API_HOST"); v != "" {
		cfg.API.Host = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Store validation
	if c.Store.Enabled {
		switch c.Store.Backend {
		case BackendInfluxDB, BackendVictoriaMetrics:
		default:
			errs = append(errs, fmt.Sprintf("store.backend must be %q or %q", BackendInfluxDB, BackendVictoriaMetrics))
		}
		if c.Store.URL == "" {
			errs = append(errs, "store.url is required when store.enabled is true")
		}
	}

	// Relay validation
	if c.Relay.StatusResetSeconds < 0 {
		errs = append(errs, "relay.status_reset_seconds must not be negative")
	}
	seen := make(map[string]bool)
	for i, route := range c.Relay.Routes {
		if route.Name == "" {
			errs = append(errs, fmt.Sprintf("relay.routes[%d].name is required", i))
			continue
		}
		if seen[route.Name] {
			errs = append(errs, fmt.Sprintf("relay.routes[%d]: duplicate route name %q", i, route.Name))
		}
		seen[route.Name] = true
		if route.Topic == "" {
			errs = append(errs, fmt.Sprintf("relay.routes[%d] (%s): topic is required", i, route.Name))
		}
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// StatusResetDelay returns the status badge reset delay as a Duration.
func (c *Config) StatusResetDelay() time.Duration {
	return time.Duration(c.Relay.StatusResetSeconds) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
