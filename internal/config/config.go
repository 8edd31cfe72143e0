// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
// Значения читаются из YAML-файла (CONFIG_PATH) и/или переменных окружения,
// любое поле можно опустить: тогда используется значение по умолчанию.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Драйверы хранилища ключ-значение.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Стратегии генерации артефактов.
const (
	ArtifactText = "text"
	ArtifactPDF  = "pdf"
)

// Генераторы плана действий.
const (
	PlanStatic  = "static"
	PlanService = "service"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	LeadSync        `yaml:"lead_sync"`
	Sender          `yaml:"sender"`
	Artifacts       `yaml:"artifacts"`
	ActionPlan      `yaml:"action_plan"`
	RabbitMQ        `yaml:"rabbitmq"`
	RateLimit       `yaml:"rate_limit"`
	Catalog         []models.Product `yaml:"catalog"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Storage выбирает бэкенд хранилища ключ-значение.
type Storage struct {
	Driver                  string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT"`
}

// LeadSync настройки внешнего сервиса email-рассылок.
// Если любое из полей Endpoint, APIKey, ListID пустое, синхронизация
// работает в демо-режиме и не выполняет сетевых запросов.
type LeadSync struct {
	Endpoint string        `yaml:"endpoint" env:"SENDSHARK_API_URL"`
	APIKey   string        `yaml:"api_key" env:"SENDSHARK_API_KEY"`
	ListID   string        `yaml:"list_id" env:"SENDSHARK_LIST_ID"`
	Timeout  time.Duration `yaml:"timeout" env:"SENDSHARK_TIMEOUT" env-default:"10s"`
}

// Configured сообщает, заданы ли все обязательные параметры.
func (l LeadSync) Configured() bool {
	return l.Endpoint != "" && l.APIKey != "" && l.ListID != ""
}

// Sender настройки отправителя писем и ссылки на лид-магнит.
type Sender struct {
	FromName       string `yaml:"from_name" env:"FROM_NAME" env-default:"Abby"`
	FromEmail      string `yaml:"from_email" env:"FROM_EMAIL" env-default:"noreply@example.com"`
	LeadMagnetLink string `yaml:"lead_magnet_link" env:"LEAD_MAGNET_DOWNLOAD" env-default:"#"`
	SMTPHost       string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort       string `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser       string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass       string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// Artifacts настройки генерации скачиваемых файлов.
type Artifacts struct {
	Strategy     string        `yaml:"strategy" env:"ARTIFACT_STRATEGY" env-default:"text"`
	TTL          time.Duration `yaml:"ttl" env:"ARTIFACT_TTL" env-default:"1h"`
	SkipImages   bool          `yaml:"skip_images" env:"ARTIFACT_SKIP_IMAGES"`
	ImageTimeout time.Duration `yaml:"image_timeout" env:"ARTIFACT_IMAGE_TIMEOUT" env-default:"5s"`
}

// ActionPlan настройки генератора ежемесячного плана.
type ActionPlan struct {
	Generator string        `yaml:"generator" env:"PLAN_GENERATOR" env-default:"static"`
	Delay     time.Duration `yaml:"delay" env:"PLAN_DELAY" env-default:"1500ms"`
	Endpoint  string        `yaml:"endpoint" env:"PLAN_ENDPOINT"`
	APIKey    string        `yaml:"api_key" env:"PLAN_API_KEY"`
	Model     string        `yaml:"model" env:"PLAN_MODEL" env-default:"gpt-4o-mini"`
	Timeout   time.Duration `yaml:"timeout" env:"PLAN_TIMEOUT" env-default:"30s"`
}

// RabbitMQ настройки публикации доменных событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"launchpad"`
}

// RateLimit ограничение частоты запросов к API.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"20"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"40"`
}

// MustLoad загружает конфиг из файла CONFIG_PATH, а если переменная не задана,
// только из окружения. Ошибка чтения завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг по пути path; пустой path означает чтение только из окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(cfg.Catalog) == 0 {
		cfg.Catalog = models.DefaultCatalog()
	}
	if err := validateCatalog(cfg.Catalog); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// validateCatalog проверяет, что id товаров непустые и уникальные, а цены неотрицательные.
func validateCatalog(catalog []models.Product) error {
	seen := make(map[string]struct{}, len(catalog))
	for i, p := range catalog {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("catalog[%d]: empty product id", i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("catalog[%d]: duplicate product id %q", i, id)
		}
		seen[id] = struct{}{}
		if p.Price < 0 {
			return fmt.Errorf("catalog[%d]: product %q has negative price %v", i, id, p.Price)
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  ConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"LeadSync:\n"+
			"  Endpoint: %s\n"+
			"  APIKey: %s\n"+
			"  ListID: %s\n"+
			"Sender:\n"+
			"  From: %s <%s>\n"+
			"  LeadMagnetLink: %s\n"+
			"  SMTPHost: %s\n"+
			"Artifacts:\n"+
			"  Strategy: %s\n"+
			"  TTL: %s\n"+
			"ActionPlan:\n"+
			"  Generator: %s\n"+
			"  Delay: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"Catalog: %d products\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.Driver,
		mask(c.StorageConnectionString),
		c.AddressRedis,
		mask(c.RedisConnection.Password),
		c.LeadSync.Endpoint,
		mask(c.LeadSync.APIKey),
		c.ListID,
		c.FromName,
		c.FromEmail,
		c.LeadMagnetLink,
		c.SMTPHost,
		c.Strategy,
		c.Artifacts.TTL,
		c.Generator,
		c.Delay,
		mask(c.RabbitMQ.URL),
		len(c.Catalog),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}
