package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultPort        = 8080
	DefaultMaxUploadMB = 32

	MaxUploadMB = 1024

	EnvPrefix = "STEGO"
)

var DefaultAllowOrigins = []string{"http://localhost:3000"}

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow-origins"`
	MaxUploadMB  int64    `mapstructure:"max-upload-mb"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Port:         DefaultPort,
			AllowOrigins: append([]string(nil), DefaultAllowOrigins...),
			MaxUploadMB:  DefaultMaxUploadMB,
		},
	}
}

func (cfg *Config) Validate() error {
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid `log.format`; expected: console or json, given: %q", cfg.Log.Format)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid `server.port`; expected: 1..65535, given: %d", cfg.Server.Port)
	}

	if cfg.Server.MaxUploadMB < 1 || cfg.Server.MaxUploadMB > MaxUploadMB {
		return fmt.Errorf("invalid `server.max-upload-mb`; expected: 1..%d, given: %d", MaxUploadMB, cfg.Server.MaxUploadMB)
	}

	if len(cfg.Server.AllowOrigins) == 0 {
		return fmt.Errorf("invalid `server.allow-origins`; expected at least one origin")
	}

	return nil
}

// MaxUploadBytes is the multipart form limit derived from MaxUploadMB.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// SetDefaults registers every key with its default so that environment
// variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.allow-origins", def.Server.AllowOrigins)
	v.SetDefault("server.max-upload-mb", def.Server.MaxUploadMB)
}

// Load resolves the configuration from, in increasing priority: defaults,
// the config file (if configFile is set), STEGO_* environment variables, and
// any flags already bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
