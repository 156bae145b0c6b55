package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jaminalder/tic-tac-based/internal/validator"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	LogFormat string    `yaml:"log-format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json text"`
	HTTP      HTTP      `yaml:"http"`
	Session   Session   `yaml:"session"`
	Redis     Redis     `yaml:"redis"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr        string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080" validate:"required"`
	ReadTimeout time.Duration `yaml:"read-timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s" validate:"gte=0s"`
	// WriteTimeout applies to event streams too; zero leaves them open.
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s" validate:"gte=0s"`
	IdleTimeout     time.Duration `yaml:"idle-timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s" validate:"gte=0s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" validate:"gt=0s"`
}

type Session struct {
	Store         string        `yaml:"store" env:"SESSION_STORE" env-default:"memory" validate:"oneof=memory redis"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m" validate:"gt=0s"`
	OverlayDelay  time.Duration `yaml:"overlay-delay" env:"SESSION_OVERLAY_DELAY" env-default:"5s" validate:"gt=0s"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m" validate:"gt=0s"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB   int    `yaml:"db" env:"REDIS_DB" env-default:"0" validate:"gte=0"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-based" validate:"required"`
	Insecure     bool   `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
}

// Load reads path when it exists and environment variables in any case, then
// validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else if path != "" && !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to stat config file: %w", statErr)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = validator.GetValidator().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Session.Store == StoreRedis && config.Redis.Host == "" {
		return nil, errors.New("invalid config: redis session store needs redis.host")
	}

	return config, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
