package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Annany2002/habitgrid-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Supported values for DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const defaultJWTExpirationHours = 24 * 7

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable must be set")

// Config holds application configuration values
type Config struct {
	ServerPort         string
	JWTSecret          string
	JWTExpiration      time.Duration
	DatabaseDriver     string
	DatabaseDSN        string
	MetadataDbDir      string
	MetadataDbFile     string
	CORSAllowedOrigins []string
	AuthRateLimit      int
	CookieSecure       bool
}

// fileConfig mirrors the optional YAML file pointed to by CONFIG_PATH.
type fileConfig struct {
	ServerPort string `yaml:"server-port"`
	JWT        struct {
		Secret          string `yaml:"secret"`
		ExpirationHours int    `yaml:"expiration-hours"`
	} `yaml:"jwt"`
	Database struct {
		Driver    string `yaml:"driver"`
		DSN       string `yaml:"dsn"`
		Directory string `yaml:"directory"`
		File      string `yaml:"file"`
	} `yaml:"database"`
	CORSAllowedOrigins []string `yaml:"cors-allowed-origins"`
	AuthRateLimit      int      `yaml:"auth-rate-limit"`
	CookieSecure       bool     `yaml:"cookie-secure"`
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
// When CONFIG_PATH names a YAML file its values become the defaults that
// environment variables override.
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	file, err := loadFileConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	port := getEnv("SERVER_PORT", orDefault(file.ServerPort, "8080"))
	jwtSecret := getEnv("JWT_SECRET", file.JWT.Secret)
	jwtExpHoursStr := getEnv("JWT_EXPIRATION_HOURS", strconv.Itoa(orDefaultInt(file.JWT.ExpirationHours, defaultJWTExpirationHours)))
	driver := strings.ToLower(getEnv("DATABASE_DRIVER", orDefault(file.Database.Driver, DriverSQLite)))
	dsn := getEnv("DATABASE_DSN", file.Database.DSN)
	dbDir := getEnv("DATABASE_DIRECTORY", orDefault(file.Database.Directory, "data"))
	dbFile := getEnv("DATABASE_DIRECTORY_FILE", orDefault(file.Database.File, "habits.db"))
	origins := splitList(getEnv("CORS_ALLOWED_ORIGINS", strings.Join(file.CORSAllowedOrigins, ",")))
	rateLimitStr := getEnv("AUTH_RATE_LIMIT", strconv.Itoa(orDefaultInt(file.AuthRateLimit, 20)))
	cookieSecureStr := getEnv("COOKIE_SECURE", strconv.FormatBool(file.CookieSecure))

	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	jwtExpHours, err := strconv.Atoi(jwtExpHoursStr)
	if err != nil || jwtExpHours <= 0 {
		customLog.Warnf("Invalid JWT_EXPIRATION_HOURS '%s'. Using default %dh. Error: %v", jwtExpHoursStr, defaultJWTExpirationHours, err)
		jwtExpHours = defaultJWTExpirationHours
	}

	switch driver {
	case DriverSQLite:
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_DSN must be set when DATABASE_DRIVER is %q", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit <= 0 {
		customLog.Warnf("Invalid AUTH_RATE_LIMIT '%s'. Using default 20.", rateLimitStr)
		rateLimit = 20
	}

	cookieSecure, err := strconv.ParseBool(cookieSecureStr)
	if err != nil {
		customLog.Warnf("Invalid COOKIE_SECURE '%s'. Using false.", cookieSecureStr)
		cookieSecure = false
	}

	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	cfg := &Config{
		ServerPort:         strings.TrimPrefix(port, ":"),
		JWTSecret:          jwtSecret,
		JWTExpiration:      time.Hour * time.Duration(jwtExpHours),
		DatabaseDriver:     driver,
		DatabaseDSN:        dsn,
		MetadataDbDir:      dbDir,
		MetadataDbFile:     dbFile,
		CORSAllowedOrigins: origins,
		AuthRateLimit:      rateLimit,
		CookieSecure:       cookieSecure,
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, Driver: %s, JWT Exp: %v", cfg.ServerPort, cfg.DatabaseDriver, cfg.JWTExpiration)
	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	customLog.Printf("Loaded config file %s", path)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func orDefaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
