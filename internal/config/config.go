package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Storage     StorageConfig     `yaml:"storage"`
	Expiry      ExpiryConfig      `yaml:"expiry"`
	Persistence PersistenceConfig `yaml:"persistence"`
	HTTP        HTTPConfig        `yaml:"http"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

type StorageConfig struct {
	Type      string `yaml:"type"` // file, sqlite, postgres, redis или memory
	Key       string `yaml:"key"`
	Path      string `yaml:"path"` // каталог для file, файл базы для sqlite
	URL       string `yaml:"url"`
	RedisAddr string `yaml:"redis_addr"`
}

type ExpiryConfig struct {
	Threshold time.Duration `yaml:"threshold"`
}

type PersistenceConfig struct {
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      int           `yaml:"rate_limit"` // запросов за окно с одного IP, 0 - без ограничения
	RateWindow     time.Duration `yaml:"rate_window"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "localhost",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Development: true,
			Level:       "info",
		},
		Storage: StorageConfig{
			Type: StorageFile,
			Key:  "taskboard:tasks",
			Path: "data",
		},
		Expiry: ExpiryConfig{
			Threshold: 8 * time.Hour,
		},
		Persistence: PersistenceConfig{
			SaveTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			RequestTimeout: 15 * time.Second,
			RateLimit:      100,
			RateWindow:     time.Minute,
			CORSOrigins:    []string{"*"},
		},
	}
}

// Load читает YAML поверх значений по умолчанию. Пустой путь - только значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port не задан"))
	}

	switch c.Storage.Type {
	case StorageFile, StorageSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path обязателен для %s", c.Storage.Type))
		}
	case StoragePostgres:
		if c.Storage.URL == "" {
			errs = append(errs, errors.New("storage.url обязателен для postgres"))
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr обязателен для redis"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("неизвестный storage.type %q", c.Storage.Type))
	}

	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage.key не задан"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout должен быть положительным"))
	}
	if c.Persistence.SaveTimeout <= 0 {
		errs = append(errs, errors.New("persistence.save_timeout должен быть положительным"))
	}
	if c.Expiry.Threshold <= 0 {
		errs = append(errs, errors.New("expiry.threshold должен быть положительным"))
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("http.rate_limit не может быть отрицательным"))
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateWindow <= 0 {
		errs = append(errs, errors.New("http.rate_window должен быть положительным"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("некорректная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
