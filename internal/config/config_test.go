package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("POSTBOARD_TEST_UNSET_KEY", "fallback"))

	t.Setenv("POSTBOARD_TEST_EMPTY_KEY", "")
	assert.Equal(t, "", getEnv("POSTBOARD_TEST_EMPTY_KEY", "fallback"), "set-but-empty wins over fallback")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "h")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_NAME", "n")

	cfg := Load()
	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "postgres://u:p@h:1/n?sslmode=disable", cfg.PostgresDSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"memory", func(c *Config) { c.StoreDriver = DriverMemory }, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, true},
		{"empty secret", func(c *Config) { c.AuthSecret = "" }, true},
		{"empty port", func(c *Config) { c.ServerPort = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.ServerPort = "9090"
			cfg.StoreDriver = DriverPostgres
			cfg.AuthSecret = "s"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
