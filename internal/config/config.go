package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultConfigPath используется, если CONFIG_PATH не задан
const DefaultConfigPath = "config/config.yaml"

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ads      AdsConfig      `mapstructure:"ads"`
	Rewards  RewardsConfig  `mapstructure:"rewards"`
	AI       AIConfig       `mapstructure:"ai"`
	Email    EmailConfig    `mapstructure:"email"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // секунды
	WriteTimeout   int      `mapstructure:"write_timeout"` // секунды
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// RateLimitPerMinute ограничение запросов на пользователя/IP для публичных ручек
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Для 'single' используется первый адрес.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// AuthConfig содержит настройки проверки токенов
type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	// AdminUIDs пользователи, получающие роль admin при первом входе
	AdminUIDs []string `mapstructure:"admin_uids"`
}

// AdsConfig содержит настройки рекламы и загрузки медиа
type AdsConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	ExceptedSkipSlots []string      `mapstructure:"excepted_skip_slots"`
	UploadBackend     string        `mapstructure:"upload_backend"` // local или gcs
	UploadDir         string        `mapstructure:"upload_dir"`
	PublicBaseURL     string        `mapstructure:"public_base_url"`
	GCSBucket         string        `mapstructure:"gcs_bucket"`
	GCSCredentials    string        `mapstructure:"gcs_credentials_file"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb"`
}

// RewardsConfig содержит настройки наград и выплат
type RewardsConfig struct {
	Amount     int    `mapstructure:"amount"`
	MaxFormats int    `mapstructure:"max_formats"`
	Timezone   string `mapstructure:"timezone"`
}

// Location возвращает часовой пояс недели наград
func (r RewardsConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", r.Timezone).Msg("Неизвестный часовой пояс, используется UTC")
		return time.UTC
	}
	return loc
}

// AIConfig содержит настройки генеративной модели
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmailConfig содержит настройки отправки писем
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// LogConfig содержит настройки журналирования
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// PathFromEnv возвращает путь к конфигурации из CONFIG_PATH или путь по умолчанию
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultConfigPath
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	vip.SetDefault("server.rate_limit_per_minute", 120)

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_path", "migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")

	vip.SetDefault("auth.issuer", "indcric")
	vip.SetDefault("auth.token_ttl", 24*time.Hour)

	vip.SetDefault("ads.cache_ttl", 5*time.Minute)
	vip.SetDefault("ads.excepted_skip_slots", []string{"Q3_Q4", "Q4_Q5"})
	vip.SetDefault("ads.upload_backend", "local")
	vip.SetDefault("ads.upload_dir", "./uploads")
	vip.SetDefault("ads.public_base_url", "/uploads")
	vip.SetDefault("ads.max_upload_mb", 50)

	vip.SetDefault("rewards.amount", 100)
	vip.SetDefault("rewards.max_formats", 3)
	vip.SetDefault("rewards.timezone", "Asia/Kolkata")

	vip.SetDefault("ai.model", "gemini-1.5-flash")
	vip.SetDefault("ai.timeout", 30*time.Second)

	vip.SetDefault("email.from", "IndCric <noreply@indcric.com>")

	vip.SetDefault("log.level", "info")
}

func bindEnv(vip *viper.Viper) {
	// Привязываем переменные окружения ЯВНО
	bindings := map[string]string{
		"server.port":            "SERVER_PORT",
		"server.allowed_origins": "SERVER_ALLOWED_ORIGINS",

		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.user":            "DATABASE_USER",
		"database.password":        "DATABASE_PASSWORD",
		"database.dbname":          "DATABASE_DBNAME",
		"database.sslmode":         "DATABASE_SSLMODE",
		"database.migrations_path": "DATABASE_MIGRATIONS_PATH",

		"redis.mode":        "REDIS_MODE",
		"redis.addrs":       "REDIS_ADDRS",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"redis.db":          "REDIS_DB",
		"redis.master_name": "REDIS_MASTER_NAME",

		"auth.token_secret": "AUTH_TOKEN_SECRET",
		"auth.issuer":       "AUTH_ISSUER",
		"auth.admin_uids":   "AUTH_ADMIN_UIDS",

		"ads.cache_ttl":            "ADS_CACHE_TTL",
		"ads.upload_backend":       "ADS_UPLOAD_BACKEND",
		"ads.upload_dir":           "ADS_UPLOAD_DIR",
		"ads.public_base_url":      "ADS_PUBLIC_BASE_URL",
		"ads.gcs_bucket":           "ADS_GCS_BUCKET",
		"ads.gcs_credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",

		"rewards.amount":      "REWARDS_AMOUNT",
		"rewards.max_formats": "REWARDS_MAX_FORMATS",
		"rewards.timezone":    "REWARDS_TIMEZONE",

		"ai.api_key": "GEMINI_API_KEY",
		"ai.model":   "AI_MODEL",

		"email.resend_api_key": "RESEND_API_KEY",
		"email.from":           "EMAIL_FROM",

		"log.level":  "LOG_LEVEL",
		"log.pretty": "LOG_PRETTY",
	}
	for key, env := range bindings {
		_ = vip.BindEnv(key, env)
	}
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // новый экземпляр Viper, без глобального состояния

	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть: значения придут из env и умолчаний
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				log.Info().Str("path", configPath).Msg("Файл конфигурации не найден, используются переменные окружения/умолчания")
			} else {
				log.Warn().Err(err).Str("path", configPath).Msg("Не удалось прочитать файл конфигурации")
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Списки из env приходят одной строкой через запятую
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Redis.Addrs = splitList(cfg.Redis.Addrs)
	cfg.Auth.AdminUIDs = splitList(cfg.Auth.AdminUIDs)
	cfg.Ads.ExceptedSkipSlots = splitList(cfg.Ads.ExceptedSkipSlots)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Str("redis_mode", cfg.Redis.Mode).
		Str("upload_backend", cfg.Ads.UploadBackend).
		Dur("ad_cache_ttl", cfg.Ads.CacheTTL).
		Bool("ai_enabled", cfg.AI.APIKey != "").
		Bool("email_enabled", cfg.Email.ResendAPIKey != "").
		Msg("Конфигурация загружена")

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth token secret is required in config (check AUTH_TOKEN_SECRET env var)")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	switch c.Ads.UploadBackend {
	case "local":
	case "gcs":
		if c.Ads.GCSBucket == "" {
			return fmt.Errorf("ads.gcs_bucket is required when upload_backend is gcs (check ADS_GCS_BUCKET env var)")
		}
	default:
		return fmt.Errorf("unknown ads.upload_backend %q (expected local or gcs)", c.Ads.UploadBackend)
	}
	if c.Rewards.Amount <= 0 {
		return fmt.Errorf("rewards.amount must be positive")
	}
	if c.Rewards.MaxFormats < 0 {
		return fmt.Errorf("rewards.max_formats must not be negative")
	}
	if c.Ads.CacheTTL <= 0 {
		return fmt.Errorf("ads.cache_ttl must be positive")
	}
	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
