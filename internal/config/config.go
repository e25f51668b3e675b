package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/yukikurage/recipe-api/internal/constants"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration
	GinMode       string
	LogLevel      string
	CORSOrigins   []string
	OpenAIAPIKey  string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", DriverPostgres),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "recipeuser"),
		DBPassword:    getEnv("DB_PASSWORD", "recipepassword"),
		DBName:        getEnv("DB_NAME", "recipes"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getDuration("TOKEN_TTL", constants.DefaultTokenTTL),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   getList("CORS_ORIGINS", []string{"*"}),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
	}
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var err error

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	if c.DBName == "" {
		err = multierr.Append(err, errors.New("DB_NAME is required"))
	}
	if c.TokenTTL <= 0 {
		err = multierr.Append(err, errors.New("TOKEN_TTL must be positive"))
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			err = multierr.Append(err, errors.New("JWT_SECRET is required in release mode"))
		}
		if c.SessionSecret == "default-secret-key-change-me" {
			err = multierr.Append(err, errors.New("SESSION_SECRET must be changed in release mode"))
		}
	}

	return err
}

// SigningKey returns the key used to sign bearer tokens. Outside release mode
// the session secret doubles as the signing key when JWT_SECRET is unset.
func (c *Config) SigningKey() []byte {
	if c.JWTSecret != "" {
		return []byte(c.JWTSecret)
	}
	return []byte(c.SessionSecret)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Plain integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
