package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB holds attachment blobs (GridFS)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Redis is only used for the conversation create lock
	Redis RedisConfig `json:"redis"`

	Chat ChatConfig `json:"chat"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	Auth AuthConfig `json:"-"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`

	Telemetry TelemetryConfig `json:"telemetry"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host         string `json:"host" env:"SERVER_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `json:"http_port" env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort     string `json:"grpc_port" env:"GRPC_PORT" envDefault:"7005"`
	ReadTimeout  int    `json:"read_timeout" env:"SERVER_READ_TIMEOUT" envDefault:"15"`   // seconds
	WriteTimeout int    `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" envDefault:"15"` // seconds
	Environment  string `json:"environment" env:"ENVIRONMENT" envDefault:"development"`  // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver" env:"STORE_DRIVER" envDefault:"mysql"` // mysql or memory
	Host         string `json:"host" env:"MYSQL_HOST" envDefault:"localhost"`
	Port         string `json:"port" env:"MYSQL_PORT" envDefault:"3306"`
	Username     string `json:"username" env:"MYSQL_USERNAME" envDefault:"marketplace"`
	Password     string `json:"-" env:"MYSQL_PASSWORD" envDefault:"marketplace123"`
	DatabaseName string `json:"database_name" env:"MYSQL_DATABASE" envDefault:"marketplace"`
	MaxOpenConns int    `json:"max_open_conns" env:"MYSQL_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `json:"max_idle_conns" env:"MYSQL_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate  bool   `json:"auto_migrate" env:"MYSQL_AUTO_MIGRATE" envDefault:"false"`
}

type MongoDBConfig struct {
	Enabled  bool   `json:"enabled" env:"MONGO_ENABLED" envDefault:"false"`
	Host     string `json:"host" env:"MONGO_HOST" envDefault:"localhost"`
	Port     string `json:"port" env:"MONGO_PORT" envDefault:"27017"`
	Username string `json:"username" env:"MONGO_USERNAME"`
	Password string `json:"-" env:"MONGO_PASSWORD"`
	Database string `json:"database" env:"MONGO_DATABASE" envDefault:"marketplace"`
	Bucket   string `json:"bucket" env:"MONGO_ATTACHMENT_BUCKET" envDefault:"attachments"`
}

type RedisConfig struct {
	URL     string        `json:"-" env:"REDIS_URL"` // empty disables the lock
	LockTTL time.Duration `json:"lock_ttl" env:"REDIS_LOCK_TTL" envDefault:"5s"`
}

type ChatConfig struct {
	DefaultSpecialistID string `json:"default_specialist_id" env:"DEFAULT_SPECIALIST_ID" envDefault:"ai-specialist"`
	SpecialistCacheSize int    `json:"specialist_cache_size" env:"SPECIALIST_CACHE_SIZE" envDefault:"1024"`
	PageSize            int    `json:"page_size" env:"CHAT_PAGE_SIZE" envDefault:"50"`
	MaxPageSize         int    `json:"max_page_size" env:"CHAT_MAX_PAGE_SIZE" envDefault:"200"`
	MaxAttachmentBytes  int64  `json:"max_attachment_bytes" env:"CHAT_MAX_ATTACHMENT_BYTES" envDefault:"26214400"`
	AttachmentBaseURL   string `json:"attachment_base_url" env:"ATTACHMENT_BASE_URL" envDefault:"/api/v1/attachments/"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers        int    `json:"workers" env:"NOTIFICATION_WORKERS" envDefault:"5"` // NotifyMany parallelism
	RetentionDays  int    `json:"retention_days" env:"NOTIFICATION_RETENTION_DAYS" envDefault:"30"`
	CleanupCron    string `json:"cleanup_cron" env:"NOTIFICATION_CLEANUP_CRON" envDefault:"0 3 * * *"`
	CleanupEnabled bool   `json:"cleanup_enabled" env:"NOTIFICATION_CLEANUP_ENABLED" envDefault:"true"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-key"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"marketplace"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" envDefault:"info"`      // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"console"` // json, console
}

type TelemetryConfig struct {
	ServiceName  string `json:"service_name" env:"OTEL_SERVICE_NAME" envDefault:"messaging"`
	OTLPEndpoint string `json:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // empty disables export
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Notification.Workers < 1 {
		cfg.Notification.Workers = 1
	}
	if cfg.Chat.PageSize < 1 {
		cfg.Chat.PageSize = 50
	}
	if cfg.Chat.MaxPageSize < cfg.Chat.PageSize {
		cfg.Chat.MaxPageSize = cfg.Chat.PageSize
	}
	return cfg, nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			cfg.MongoDB.Username,
			cfg.MongoDB.Password,
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
			cfg.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
}

// IsProduction reports the production environment.
func (cfg *Config) IsProduction() bool {
	return cfg.Server.Environment == "production"
}
