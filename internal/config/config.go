// Package config loads relay configuration from defaults, an optional YAML
// file and RELAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/telhawk-systems/telhawk-relay/internal/route"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Routes    []RouteConfig   `mapstructure:"routes"`
}

type ServerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type NATSConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Name          string        `mapstructure:"name"`
	Token         string        `mapstructure:"token"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ResourcesConfig lists directories searched for stylesheets before the
// embedded resources.
type ResourcesConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// RouteConfig is the file form of a route definition.
type RouteConfig struct {
	ID    string       `mapstructure:"id"`
	From  string       `mapstructure:"from"`
	Steps []StepConfig `mapstructure:"steps"`
}

// StepConfig holds exactly one of SetBody or To.
type StepConfig struct {
	SetBody *string `mapstructure:"set_body"`
	To      string  `mapstructure:"to"`
}

// Load reads configuration. An empty configPath searches ./relay.yaml and
// /etc/relay/relay.yaml; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.name", "telhawk-relay")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.timeout", "5s")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("resources.dirs", []string{})

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("relay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/relay")
	}

	// Environment variables override, e.g. RELAY_SERVER_PORT
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Definitions converts the configured routes. With no routes configured it
// returns the built-in XSLT route.
func (c *Config) Definitions() ([]route.Definition, error) {
	if len(c.Routes) == 0 {
		return []route.Definition{route.XSLT()}, nil
	}

	defs := make([]route.Definition, 0, len(c.Routes))
	for i, rc := range c.Routes {
		def, err := rc.Definition()
		if err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Definition converts one configured route and validates it.
func (rc RouteConfig) Definition() (route.Definition, error) {
	b := route.From(rc.From)
	if rc.ID != "" {
		b.RouteID(rc.ID)
	}
	for i, s := range rc.Steps {
		switch {
		case s.SetBody != nil && s.To != "":
			return route.Definition{}, fmt.Errorf("%w: step %d sets both set_body and to", route.ErrInvalidDefinition, i)
		case s.SetBody != nil:
			b.SetBody([]byte(*s.SetBody))
		case s.To != "":
			b.To(s.To)
		default:
			return route.Definition{}, fmt.Errorf("%w: step %d is empty", route.ErrInvalidDefinition, i)
		}
	}
	return b.Build()
}
