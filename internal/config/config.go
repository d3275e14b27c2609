package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vigat-bahee/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPPort string
	Env      string
	DB       DBConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Tithi    TithiConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
	SlowQuery       time.Duration
}

type MongoConfig struct {
	URI             string
	Database        string
	ConnectTimeout  time.Duration
	UseTransactions bool
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	Issuer        string
	SkipAuth      bool
	MockUserID    string
	MockUserEmail string
	MockUserName  string
	UserCacheTTL  time.Duration
}

type TithiConfig struct {
	TablePath string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "vigat_bahee"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			SQLitePath:      getEnv("SQLITE_PATH", "vigat-bahee.db"),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			LogSQL:          getEnvBool("DB_LOG_SQL", false),
			SlowQuery:       getEnvDuration("DB_SLOW_QUERY", 200*time.Millisecond),
		},
		Mongo: MongoConfig{
			URI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:        getEnv("MONGO_DATABASE", "vigat_bahee"),
			ConnectTimeout:  getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			UseTransactions: getEnvBool("MONGO_USE_TRANSACTIONS", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "vigat-bahee"),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:  getEnv("AUTH_MOCK_USER_NAME", ""),
			UserCacheTTL:  getEnvDuration("AUTH_USER_CACHE_TTL", 5*time.Minute),
		},
		Tithi: TithiConfig{
			TablePath: getEnv("TITHI_TABLE_PATH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if !c.Auth.SkipAuth && c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required unless AUTH_SKIP is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
