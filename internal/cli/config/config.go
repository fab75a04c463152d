package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"

	// Registers the JavaScript target for validation.
	_ "github.com/sylvre-lang/sylvre/internal/compiler/codegen/javascript"
)

// FileName is the base name of the project configuration file
const FileName = "sylvre"

// Config represents the Sylvre project configuration
type Config struct {
	Target    string       `mapstructure:"target"`
	SourceDir string       `mapstructure:"source_dir"`
	OutDir    string       `mapstructure:"out_dir"`
	LogLevel  string       `mapstructure:"log_level"`
	Server    ServerConfig `mapstructure:"server"`
	Cache     CacheConfig  `mapstructure:"cache"`
	Watch     WatchConfig  `mapstructure:"watch"`
}

// ServerConfig represents the transpiler API server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`

	// RateLimit is transpile requests per minute per client; 0 disables
	RateLimit      int      `mapstructure:"rate_limit"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig represents the transpile result cache configuration
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl"`
	Prefix    string        `mapstructure:"prefix"`
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Patterns []string      `mapstructure:"patterns"`
	Ignore   []string      `mapstructure:"ignore"`
}

// Cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("target", string(codegen.JavaScript))
	v.SetDefault("source_dir", "src")
	v.SetDefault("out_dir", "build")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 5080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.prefix", "sylvre:")

	v.SetDefault("watch.debounce", 100*time.Millisecond)
	v.SetDefault("watch.patterns", []string{"*.syl"})
	v.SetDefault("watch.ignore", []string{".git", "node_modules", "build"})
}

// Load loads the configuration from sylvre.yml or sylvre.yaml in the
// working directory. SYLVRE_* environment variables override file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// SYLVRE_SERVER_PORT overrides server.port
	v.SetEnvPrefix("SYLVRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InProject checks if the current directory holds a sylvre.yml
func InProject() bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot walks up from the working directory looking for sylvre.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName+".yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, FileName+".yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Sylvre project (no %s.yml found)", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !codegen.IsRegistered(codegen.Target(cfg.Target)) {
		return fmt.Errorf("target %q is not supported (available: %s)",
			cfg.Target, strings.Join(targetNames(), ", "))
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got: %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got: %d", cfg.Server.RateLimit)
	}
	switch cfg.Cache.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got: %s", BackendMemory, BackendRedis, cfg.Cache.Backend)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce)
	}
	return nil
}

func targetNames() []string {
	var names []string
	for _, t := range codegen.Targets() {
		names = append(names, string(t))
	}
	return names
}
