// Package config предоставялет структуры и функцию для парсинга и загрузки конфига шлюза.
//
// Конфиг читается из YAML-файла по пути CONFIG_PATH, секреты могут быть
// переопределены переменными окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, от которых зависят политика cookie и формат логов.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// minSecretLen минимальная длина ключа подписи JWT.
const minSecretLen = 16

// ErrMissingSecret возвращается, когда обязательный секрет не задан.
var ErrMissingSecret = errors.New("required secret is missing")

// Config общая структура для хранения настроек
type Config struct {
	Env                     string   `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string   `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string   `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AllowedOrigins          []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	TMDB                    `yaml:"tmdb"`
	GenAI                   `yaml:"genai"`
	CategoryCache           `yaml:"category_cache"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// TrustProxyHeaders включает разбор X-Forwarded-For и X-Real-IP.
	// Включать только за доверенным обратным прокси.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" env:"TRUST_PROXY_HEADERS"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// TMDB настройки клиента к API метаданных фильмов.
type TMDB struct {
	BaseURL     string        `yaml:"base_url" env:"TMDB_BASE_URL" env-default:"https://api.themoviedb.org/3"`
	Token       string        `yaml:"token" env:"TMDB_TOKEN"`
	Timeout     time.Duration `yaml:"timeout" env-default:"20s"`
	MaxAttempts int           `yaml:"max_attempts" env-default:"3"`
	BaseBackoff time.Duration `yaml:"base_backoff" env-default:"100ms"`
	RPS         float64       `yaml:"rps" env-default:"40"`
}

// GenAI настройки клиента генеративной модели.
type GenAI struct {
	APIKey  string        `yaml:"api_key" env:"GOOGLE_GENAI_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"GENAI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string        `yaml:"model" env:"GENAI_MODEL" env-default:"gemini-2.5-flash"`
	Timeout time.Duration `yaml:"timeout" env-default:"60s"`
	// RatePerMinute ограничивает число AI-запросов с одного адреса.
	RatePerMinute int `yaml:"rate_per_minute" env-default:"10"`
}

// CategoryCache настройки кеша ответов по категориям.
type CategoryCache struct {
	Backend    string        `yaml:"backend" env:"CATEGORY_CACHE_BACKEND" env-default:"memory"`
	Freshness  time.Duration `yaml:"freshness" env-default:"5m"`
	MaxEntries int           `yaml:"max_entries" env-default:"1024"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQExchange   string        `yaml:"exchange" env-default:"users"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// MustLoad функция для загрузки конфига. Завершает процесс, если конфиг
// не читается или в нём нет обязательных секретов.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла, применяет переменные окружения и проверяет его.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет секреты, без которых шлюз не может стартовать.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("jwt secret: %w", ErrMissingSecret)
	}
	if len(c.JWTSecretKey) < minSecretLen {
		return fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen)
	}
	if c.StorageConnectionString == "" {
		return fmt.Errorf("storage connection string: %w", ErrMissingSecret)
	}
	switch c.CategoryCache.Backend {
	case "memory":
	case "redis":
		if c.AddressRedis == "" {
			return errors.New("redis backend selected but redis address is empty")
		}
	default:
		return fmt.Errorf("unknown category cache backend %q", c.CategoryCache.Backend)
	}
	return nil
}

// IsProduction сообщает, работает ли шлюз в production-окружении.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func mask(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"TMDB:\n"+
			"  BaseURL: %s\n"+
			"  Token: %s\n"+
			"  Timeout: %s\n"+
			"  MaxAttempts: %d\n"+
			"GenAI:\n"+
			"  Model: %s\n"+
			"  APIKey: %s\n"+
			"CategoryCache:\n"+
			"  Backend: %s\n"+
			"  Freshness: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.TMDB.BaseURL,
		mask(c.TMDB.Token),
		c.TMDB.Timeout,
		c.MaxAttempts,
		c.Model,
		mask(c.APIKey),
		c.Backend,
		c.Freshness,
	)
}
