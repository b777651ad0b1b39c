package config

import (
	"errors"
	"fmt"
	"os"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	ServerPort    string
	StoreDriver   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	MongoURI      string
	MongoDatabase string
	AuthSecret    string
	LogLevel      string
	CORSOrigin    string
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "9090"),
		StoreDriver:   getEnv("STORE_DRIVER", DriverPostgres),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postboard"),
		DBPassword:    getEnv("DB_PASSWORD", "postboard_dev_password"),
		DBName:        getEnv("DB_NAME", "postboard"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "postboard"),
		AuthSecret:    getEnv("AUTH_SECRET", "dev-secret-change-me"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
	}
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.AuthSecret == "" {
		return errors.New("auth secret must not be empty")
	}
	if c.ServerPort == "" {
		return errors.New("server port must not be empty")
	}
	return nil
}

// PostgresDSN builds the pgx connection string from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
