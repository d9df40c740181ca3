// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all clover configuration.
type Config struct {
	AppName    string
	Port       int
	LogLevel   string
	PrettyLogs bool

	// PostgreSQL (canonical event store)
	DatabaseHost                string
	DatabasePort                string
	DatabaseUserName            string
	DatabasePassword            string
	DatabaseName                string
	DatabaseSSLMode             string
	DatabaseReconnectRetryCount int
	DatabaseMaxOpenConns        int
	DatabaseMaxIdleConns        int
	DatabaseConnMaxLifetime     time.Duration
	DatabaseMigrationFolderPath string

	// Graph projection (Memgraph), optional
	GraphEnabled    bool
	GraphDBHost     string
	GraphDBPort     int
	GraphDBUser     string
	GraphDBPassword string

	// Kafka consumer (raw event batches from fleet adapters)
	KafkaBrokers         []string
	KafkaInputTopic      string
	KafkaConsumerGroup   string
	KafkaConsumerEnabled bool

	// Kafka producer (canonical event notifications)
	KafkaOutputTopic  string
	KafkaBatchSize    int
	KafkaBatchTimeout int
	KafkaRequiredAcks int
	KafkaCompression  string

	// Reference data override; empty means embedded defaults.
	RefdataPath string

	// Pipeline
	FuzzyThreshold  float64
	IngestMaxErrors int
}

// Load reads the .env file (if any) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		AppName:    getEnv("APP_NAME", "clover-api"),
		Port:       getEnvInt("PORT", 3004),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		PrettyLogs: getEnvBool("PRETTY_LOGS", false),

		DatabaseHost:                getEnv("DB_HOST", "localhost"),
		DatabasePort:                getEnv("DB_PORT", "5432"),
		DatabaseUserName:            getEnv("DB_USER_NAME", "clover"),
		DatabasePassword:            getEnv("DB_PASSWORD", ""),
		DatabaseName:                getEnv("DB_NAME", "clover"),
		DatabaseSSLMode:             getEnv("DB_SSL_MODE", "disable"),
		DatabaseReconnectRetryCount: getEnvInt("DB_RECONNECT_RETRY_COUNT", 3),
		DatabaseMaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DatabaseMaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DatabaseConnMaxLifetime:     getEnvDuration("DB_CONN_MAX_LIFETIME", 10*time.Second),
		DatabaseMigrationFolderPath: getEnv("DB_MIGRATION_FOLDER_PATH", "db/pg"),

		GraphEnabled:    getEnvBool("GRAPH_ENABLED", false),
		GraphDBHost:     getEnv("GRAPH_DB_HOST", "localhost"),
		GraphDBPort:     getEnvInt("GRAPH_DB_PORT", 7687),
		GraphDBUser:     getEnv("GRAPH_DB_USER", ""),
		GraphDBPassword: getEnv("GRAPH_DB_PASSWORD", ""),

		KafkaBrokers:         getEnvList("KAFKA_BROKERS", "localhost:9092"),
		KafkaInputTopic:      getEnv("KAFKA_INPUT_TOPIC", "raw-events"),
		KafkaConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "clover-consumer"),
		KafkaConsumerEnabled: getEnvBool("KAFKA_CONSUMER_ENABLED", true),

		KafkaOutputTopic:  getEnv("KAFKA_OUTPUT_TOPIC", "canonical-events"),
		KafkaBatchSize:    getEnvInt("KAFKA_BATCH_SIZE", 100),
		KafkaBatchTimeout: getEnvInt("KAFKA_BATCH_TIMEOUT_MS", 100),
		KafkaRequiredAcks: getEnvInt("KAFKA_REQUIRED_ACKS", 1),
		KafkaCompression:  getEnv("KAFKA_COMPRESSION", "snappy"),

		RefdataPath: getEnv("REFDATA_PATH", ""),

		FuzzyThreshold:  getEnvFloat("FUZZY_THRESHOLD", 0.8),
		IngestMaxErrors: getEnvInt("INGEST_MAX_ERRORS", 0),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.DatabaseHost +
		" port=" + c.DatabasePort +
		" user=" + c.DatabaseUserName +
		" password=" + c.DatabasePassword +
		" dbname=" + c.DatabaseName +
		" sslmode=" + c.DatabaseSSLMode
}

// MigrationURL returns the URL form of the DSN used by golang-migrate.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DatabaseUserName, c.DatabasePassword, c.DatabaseHost, c.DatabasePort,
		c.DatabaseName, c.DatabaseSSLMode)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	val := os.Getenv(key)
	if val == "" {
		val = fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
