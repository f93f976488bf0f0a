package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database      DatabaseConfig
	HTTP          HTTPConfig
	Auth          AuthConfig
	Organizations OrganizationsConfig
	Notifications NotificationsConfig
	Sweep         SweepConfig
	Log           LogConfig
	Telemetry     TelemetryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
	// ConnectTimeout - сколько ждать БД при старте, повторяя попытки
	ConnectTimeout time.Duration
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type OrganizationsConfig struct {
	// Quota - сколько организаций может принадлежать одному пользователю
	Quota int
}

type NotificationsConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	BaseURL      string

	Workers     int
	QueueSize   int
	MaxAttempts int
}

type SweepConfig struct {
	Interval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "orgs"),
			Password:       getEnv("DB_PASSWORD", "orgs"),
			DBName:         getEnv("DB_NAME", "org_service"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Organizations: OrganizationsConfig{
			Quota: getEnvInt("ORGANIZATION_QUOTA", 5),
		},
		Notifications: NotificationsConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("SMTP_FROM_EMAIL", "noreply@localhost"),
			FromName:     getEnv("SMTP_FROM_NAME", "Organizations"),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
			Workers:      getEnvInt("NOTIFY_WORKERS", 2),
			QueueSize:    getEnvInt("NOTIFY_QUEUE_SIZE", 256),
			MaxAttempts:  getEnvInt("NOTIFY_MAX_ATTEMPTS", 5),
		},
		Sweep: SweepConfig{
			Interval: getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getEnvBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "org-service"),
			ExportInterval: getEnvDuration("OTEL_EXPORT_INTERVAL", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
