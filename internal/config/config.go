package config

import (
    "errors"
    "fmt"
    "log/slog"
    "time"

    "github.com/ilyakaznacheev/cleanenv"
)

const (
    FrontendWeb = "web"
    FrontendTUI = "tui"
)

var (
    ErrUnknownFrontend = errors.New("unknown frontend")
    ErrUnknownLogLevel = errors.New("unknown log level")
)

type Config struct {
    LogLevel string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
    LogFile  string  `yaml:"log-file" env:"TTT_LOG_FILE"`
    Frontend string  `yaml:"frontend" env:"TTT_FRONTEND" env-default:"web"`
    HTTP     HTTP    `yaml:"http"`
    SSE      SSE     `yaml:"sse"`
    Session  Session `yaml:"session"`
}

type HTTP struct {
    Addr         string        `yaml:"addr" env:"TTT_HTTP_ADDR" env-default:":8080"`
    ReadTimeout  time.Duration `yaml:"read-timeout" env:"TTT_HTTP_READ_TIMEOUT" env-default:"10s"`
    WriteTimeout time.Duration `yaml:"write-timeout" env:"TTT_HTTP_WRITE_TIMEOUT" env-default:"0s"`
}

type SSE struct {
    Heartbeat time.Duration `yaml:"heartbeat" env:"TTT_SSE_HEARTBEAT" env-default:"15s"`
}

type Session struct {
    TTL           time.Duration `yaml:"ttl" env:"TTT_SESSION_TTL" env-default:"2h"`
    SweepInterval time.Duration `yaml:"sweep-interval" env:"TTT_SESSION_SWEEP_INTERVAL" env-default:"5m"`
}

// Load reads the YAML file at path, then applies environment overrides.
// With an empty path only the environment and defaults are used.
func Load(path string) (*Config, error) {
    config := &Config{}

    var err error
    if path == "" {
        err = cleanenv.ReadEnv(config)
    } else {
        err = cleanenv.ReadConfig(path, config)
    }
    if err != nil {
        return nil, fmt.Errorf("unable to load config: %w", err)
    }

    if err = config.Validate(); err != nil {
        return nil, err
    }

    return config, nil
}

// MustLoad - same as Load, panics on error.
func MustLoad(path string) *Config {
    config, err := Load(path)
    if err != nil {
        panic(err)
    }

    return config
}

// Validate checks enumerated fields.
func (that *Config) Validate() error {
    switch that.Frontend {
    case FrontendWeb, FrontendTUI:
    default:
        return fmt.Errorf("%w: %q", ErrUnknownFrontend, that.Frontend)
    }

    if _, err := that.Level(); err != nil {
        return err
    }

    return nil
}

// Level maps LogLevel to a slog level.
func (that *Config) Level() (slog.Level, error) {
    switch that.LogLevel {
    case "debug":
        return slog.LevelDebug, nil
    case "info", "":
        return slog.LevelInfo, nil
    case "warn":
        return slog.LevelWarn, nil
    case "error":
        return slog.LevelError, nil
    default:
        return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
    }
}
