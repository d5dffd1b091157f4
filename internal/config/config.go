package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string // Empty disables auth on admin routes

	Kafka      KafkaConfig
	Generation GenerationConfig
	SMTP       SMTPConfig

	CVVHashCost      int
	ActivityCacheTTL time.Duration
}

// KafkaConfig describes the bus the transactions are published to
type KafkaConfig struct {
	Brokers           []string
	TransactionsTopic string
	FraudAlertsTopic  string
	Partitions        int
	Replicas          int
	ProvisionTopics   bool
}

// GenerationConfig controls seeding and transaction emission
type GenerationConfig struct {
	Enabled             bool
	InitialCustomers    int
	CardsPerCustomer    int
	TransactionInterval time.Duration
	MaxBulkSize         int
	PersistTransactions bool
	Seed                int64 // 0 means seed from the clock
}

// SMTPConfig configures operator alerts sent when the dataset self-heals
type SMTPConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	SenderEmail string
	AlertEmail  string
}

// Enabled reports whether alert emails can be sent
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.AlertEmail != ""
}

// NewConfig loads configuration from environment variables, reading an
// optional .env file first
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=transfraud sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		Kafka: KafkaConfig{
			Brokers:           splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			TransactionsTopic: getEnv("KAFKA_TRANSACTIONS_TOPIC", "card-transactions"),
			FraudAlertsTopic:  getEnv("KAFKA_FRAUD_ALERTS_TOPIC", "fraud-alerts"),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnv("SMTP_PORT", "587"),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			SenderEmail: getEnv("SENDER_EMAIL", "transfraud@example.com"),
			AlertEmail:  getEnv("ALERT_EMAIL", ""),
		},
	}

	var err error
	if cfg.Kafka.Partitions, err = getInt("KAFKA_TOPIC_PARTITIONS", 3); err != nil {
		return nil, err
	}
	if cfg.Kafka.Replicas, err = getInt("KAFKA_TOPIC_REPLICAS", 1); err != nil {
		return nil, err
	}
	if cfg.Kafka.ProvisionTopics, err = getBool("KAFKA_PROVISION_TOPICS", true); err != nil {
		return nil, err
	}

	gen := &cfg.Generation
	if gen.Enabled, err = getBool("GENERATION_ENABLED", true); err != nil {
		return nil, err
	}
	if gen.InitialCustomers, err = getInt("GENERATION_INITIAL_CUSTOMERS", 100); err != nil {
		return nil, err
	}
	if gen.CardsPerCustomer, err = getInt("GENERATION_CARDS_PER_CUSTOMER", 2); err != nil {
		return nil, err
	}
	intervalMS, err := getInt("GENERATION_TRANSACTION_INTERVAL_MS", 5000)
	if err != nil {
		return nil, err
	}
	gen.TransactionInterval = time.Duration(intervalMS) * time.Millisecond
	if gen.MaxBulkSize, err = getInt("GENERATION_MAX_BULK_SIZE", 1000); err != nil {
		return nil, err
	}
	if gen.PersistTransactions, err = getBool("GENERATION_PERSIST_TRANSACTIONS", false); err != nil {
		return nil, err
	}
	seed, err := getInt("GENERATION_SEED", 0)
	if err != nil {
		return nil, err
	}
	gen.Seed = int64(seed)

	if cfg.CVVHashCost, err = getInt("CVV_HASH_COST", bcrypt.MinCost); err != nil {
		return nil, err
	}
	if cfg.ActivityCacheTTL, err = getDuration("ACTIVITY_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.Kafka.TransactionsTopic == "" {
		return fmt.Errorf("KAFKA_TRANSACTIONS_TOPIC is required")
	}
	if c.Kafka.Partitions <= 0 || c.Kafka.Replicas <= 0 {
		return fmt.Errorf("KAFKA_TOPIC_PARTITIONS and KAFKA_TOPIC_REPLICAS must be positive")
	}
	if c.Generation.InitialCustomers < 0 {
		return fmt.Errorf("GENERATION_INITIAL_CUSTOMERS must not be negative")
	}
	if c.Generation.CardsPerCustomer < 0 {
		return fmt.Errorf("GENERATION_CARDS_PER_CUSTOMER must not be negative")
	}
	if c.Generation.TransactionInterval <= 0 {
		return fmt.Errorf("GENERATION_TRANSACTION_INTERVAL_MS must be positive")
	}
	if c.Generation.MaxBulkSize < 1 {
		return fmt.Errorf("GENERATION_MAX_BULK_SIZE must be at least 1")
	}
	if c.CVVHashCost < bcrypt.MinCost || c.CVVHashCost > bcrypt.MaxCost {
		return fmt.Errorf("CVV_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return b, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
