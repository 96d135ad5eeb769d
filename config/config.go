package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server needs, sourced from the environment
// (optionally seeded from a .env file in the working directory).
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Port    int
	GinMode string

	SessionTTLHours int
	Debug           bool
}

// Load reads the .env file if present, then binds environment variables with
// defaults. A missing .env is not an error; the variables may already be set
// by the deployment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "family_tree")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", 8080)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SESSION_TTL_HOURS", 24*7)
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetInt("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		Port:            v.GetInt("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		SessionTTLHours: v.GetInt("SESSION_TTL_HOURS"),
		Debug:           v.GetBool("DEBUG"),
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME must not be empty")
	}
	return cfg, nil
}

// DatabaseDSN builds the postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// ListenAddr is the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
