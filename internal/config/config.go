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
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. ARENA_LOG_LEVEL.
const EnvPrefix = "ARENA"

var ErrInvalid = errors.New("invalid configuration")

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Empty means a random key per process.
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Config holds all configuration for the application.
type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Catalog         string        `mapstructure:"catalog" validate:"required"`
	Lang            string        `mapstructure:"lang"`
	Seed            int64         `mapstructure:"seed"`
	StaminaPerRound float64       `mapstructure:"stamina_per_round" validate:"gte=0"`
	Server          string        `mapstructure:"server" validate:"required,url"`
	Log             LogConfig     `mapstructure:"log"`
	Session         SessionConfig `mapstructure:"session"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8081")
	v.SetDefault("catalog", "./data/equipment.json")
	v.SetDefault("lang", "en")
	v.SetDefault("seed", 0)
	v.SetDefault("stamina_per_round", 1.0)
	v.SetDefault("server", "http://localhost:8081")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "30m")
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":       "addr",
	"catalog":    "catalog",
	"lang":       "lang",
	"seed":       "seed",
	"server":     "server",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load builds the configuration from defaults, an optional config file,
// a .env file in the working directory, ARENA_* environment variables and
// explicitly set flags, in increasing order of precedence. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Hosting platforms hand out the listen port as PORT.
	addrFlag := flags != nil && flags.Changed("addr")
	if _, set := os.LookupEnv(EnvPrefix + "_ADDR"); !set && !addrFlag && !v.InConfig("addr") {
		if port := os.Getenv("PORT"); port != "" {
			v.Set("addr", ":"+port)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &cfg, nil
}
