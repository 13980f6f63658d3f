// Package config loads the formflow service configuration from an optional
// .env file, a YAML file, FORMFLOW_ environment variables, and bound flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "FORMFLOW"
	// DefaultFileName is looked up in the working directory when no file is
	// given.
	DefaultFileName = "formflow.yaml"
)

type Config struct {
	Env     string        `mapstructure:"env" validate:"oneof=development production test"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Views   ViewsConfig   `mapstructure:"views"`
	Log     LogConfig     `mapstructure:"log"`
	Theme   ThemeConfig   `mapstructure:"theme"`
}

type HTTPConfig struct {
	Addr          string        `mapstructure:"addr" validate:"required"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" validate:"gte=0"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type SessionConfig struct {
	Backend  string        `mapstructure:"backend" validate:"oneof=memory redis"`
	RedisURL string        `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Cookie   string        `mapstructure:"cookie" validate:"required"`
}

type ViewsConfig struct {
	TTL              time.Duration `mapstructure:"ttl" validate:"gt=0"`
	PlaceholderAfter time.Duration `mapstructure:"placeholder_after" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Variant string `mapstructure:"variant"`
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Defaults returns the configuration used when nothing overrides a key.
func Defaults() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:          ":8080",
			ShutdownGrace: 5 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:3030",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     12 * time.Hour,
			Cookie:  "formflow_session",
		},
		Views: ViewsConfig{
			TTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			Name:    "furniture",
			Variant: "light",
		},
	}
}

// SetDefaults registers every key with its default so environment
// overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("env", d.Env)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.shutdown_grace", d.HTTP.ShutdownGrace)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.redis_url", d.Session.RedisURL)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.cookie", d.Session.Cookie)
	v.SetDefault("views.ttl", d.Views.TTL)
	v.SetDefault("views.placeholder_after", d.Views.PlaceholderAfter)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("theme.name", d.Theme.Name)
	v.SetDefault("theme.variant", d.Theme.Variant)
}

// Options controls where Load looks.
type Options struct {
	// Viper is the instance flags were bound to; a fresh one is used when nil.
	Viper *viper.Viper
	// File is an explicit config file. When empty, DefaultFileName is read
	// if it exists.
	File string
	// EnvFile is an optional dotenv file loaded before anything else.
	EnvFile string
}

// Load resolves the configuration: defaults, then the config file, then
// environment variables, then flags bound on opts.Viper.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", opts.EnvFile, err)
		}
	}

	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := opts.File
	if file == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			file = DefaultFileName
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of cfg.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
