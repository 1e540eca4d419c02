package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration
type Config struct {
	// Database
	DatabaseDriver   string
	DatabaseHost     string
	DatabasePort     string
	PostgresUser     string
	PostgresPassword string
	DatabaseName     string
	SQLitePath       string

	// Authentication
	JWTSecret string

	// Server
	Port                   int
	ResultsCacheTTLSeconds int

	// Kafka
	KafkaBroker string
	KafkaTopic  string

	// Discord
	DiscordBotToken  string
	DiscordChannelID string
}

var (
	appConfig *Config
	onceEnv   sync.Once
)

func loadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		DatabaseDriver:   getEnvWithDefault("DATABASE_DRIVER", "postgres"),
		DatabaseHost:     getEnvWithDefault("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnvWithDefault("DATABASE_PORT", "5432"),
		PostgresUser:     getEnvWithDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvWithDefault("POSTGRES_PASSWORD", "postgres"),
		DatabaseName:     getEnvWithDefault("DATABASE_NAME", "postgres"),
		SQLitePath:       getEnvWithDefault("SQLITE_PATH", "data/gala.db"),

		// JWT - required
		JWTSecret: getEnv("JWT_SECRET"),

		Port:                   getEnvAsInt("PORT", 8000),
		ResultsCacheTTLSeconds: getEnvAsInt("RESULTS_CACHE_TTL_SECONDS", 30),

		// Kafka - optional, empty broker disables publishing
		KafkaBroker: getEnvWithDefault("KAFKA_BROKER", ""),
		KafkaTopic:  getEnvWithDefault("KAFKA_TOPIC", "gala-events"),

		// Discord - optional
		DiscordBotToken:  getEnvWithDefault("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID: getEnvWithDefault("DISCORD_CHANNEL_ID", ""),
	}
	if config.JWTSecret == "" {
		config.JWTSecret = "dummyjwt"
	}
	return config
}

func Env() *Config {
	onceEnv.Do(func() {
		appConfig = loadConfig()
	})
	return appConfig
}

// Helper functions
func getEnv(key string) string {
	value := os.Getenv(key)
	if value == "" && IsProduction() {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production
func IsProduction() bool {
	return getEnvWithDefault("ENVIRONMENT", "development") == "production"
}
