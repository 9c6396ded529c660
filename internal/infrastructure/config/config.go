package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageBackendDynamoDB = "dynamodb"
	StorageBackendMemory   = "memory"
)

type Config struct {
	HTTPPort       int
	StorageBackend string
	LogLevel       string

	AWSRegion        string
	DynamoDBEndpoint string

	Tables struct {
		Intents       string
		Pods          string
		Products      string
		Orders        string
		ReconcileJobs string
	}

	IntentTTL       time.Duration
	InitiationLease time.Duration
	Currency        string
	CheckoutBaseURL string

	Gateway struct {
		BaseURL        string
		ConsumerKey    string
		ConsumerSecret string
		ShortCode      string
		PassKey        string
		CallbackURL    string
		Timeout        time.Duration
		Mock           bool
	}

	Fallback struct {
		GraceDelay    time.Duration
		Interval      time.Duration
		MaxAttempts   int
		SweepInterval time.Duration
		LeaseDuration time.Duration
		BatchSize     int
	}

	KafkaBrokerURL         string
	KafkaLedgerEventsTopic string
	CallbackArchiveBucket  string

	// SeedFile is an optional JSON fixture of pods and products loaded at startup.
	SeedFile string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("HTTP_PORT", 8080)
	cfg.StorageBackend = strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageBackendDynamoDB))
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	cfg.AWSRegion = getEnvOrDefault("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnvOrDefault("DYNAMODB_ENDPOINT", "")

	cfg.Tables.Intents = getEnvOrDefault("INTENTS_TABLE", "payment_intents")
	cfg.Tables.Pods = getEnvOrDefault("PODS_TABLE", "savings_pods")
	cfg.Tables.Products = getEnvOrDefault("PRODUCTS_TABLE", "products")
	cfg.Tables.Orders = getEnvOrDefault("ORDERS_TABLE", "orders")
	cfg.Tables.ReconcileJobs = getEnvOrDefault("RECONCILE_JOBS_TABLE", "reconcile_jobs")

	cfg.IntentTTL = getEnvAsDuration("INTENT_TTL", 30*time.Minute)
	cfg.InitiationLease = getEnvAsDuration("INITIATION_LEASE", time.Minute)
	cfg.Currency = getEnvOrDefault("CURRENCY", "KES")
	cfg.CheckoutBaseURL = strings.TrimRight(getEnvOrDefault("CHECKOUT_BASE_URL", "http://localhost:3000/checkout"), "/")

	cfg.Gateway.BaseURL = strings.TrimRight(getEnvOrDefault("GATEWAY_BASE_URL", "https://sandbox.safaricom.co.ke"), "/")
	cfg.Gateway.ConsumerKey = getEnvOrDefault("GATEWAY_CONSUMER_KEY", "")
	cfg.Gateway.ConsumerSecret = getEnvOrDefault("GATEWAY_CONSUMER_SECRET", "")
	cfg.Gateway.ShortCode = getEnvOrDefault("GATEWAY_SHORTCODE", "174379")
	cfg.Gateway.PassKey = getEnvOrDefault("GATEWAY_PASSKEY", "")
	cfg.Gateway.CallbackURL = getEnvOrDefault("GATEWAY_CALLBACK_URL", "http://localhost:8080/v1/payments/callback")
	cfg.Gateway.Timeout = getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second)
	cfg.Gateway.Mock = getEnvAsBool("PAYMENT_GATEWAY_MOCK", false)

	cfg.Fallback.GraceDelay = getEnvAsDuration("FALLBACK_GRACE_DELAY", 60*time.Second)
	cfg.Fallback.Interval = getEnvAsDuration("FALLBACK_INTERVAL", 30*time.Second)
	cfg.Fallback.MaxAttempts = getEnvAsInt("FALLBACK_MAX_ATTEMPTS", 5)
	cfg.Fallback.SweepInterval = getEnvAsDuration("FALLBACK_SWEEP_INTERVAL", 5*time.Second)
	cfg.Fallback.LeaseDuration = getEnvAsDuration("FALLBACK_LEASE_DURATION", 45*time.Second)
	cfg.Fallback.BatchSize = getEnvAsInt("FALLBACK_BATCH_SIZE", 25)

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "")
	cfg.KafkaLedgerEventsTopic = getEnvOrDefault("KAFKA_LEDGER_EVENTS_TOPIC", "ledger_events")
	cfg.CallbackArchiveBucket = getEnvOrDefault("CALLBACK_ARCHIVE_BUCKET", "")
	cfg.SeedFile = getEnvOrDefault("SEED_FILE", "")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageBackendDynamoDB, StorageBackendMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.Fallback.MaxAttempts < 1 {
		return fmt.Errorf("FALLBACK_MAX_ATTEMPTS must be at least 1, got %d", c.Fallback.MaxAttempts)
	}
	if c.IntentTTL <= 0 {
		return fmt.Errorf("INTENT_TTL must be positive, got %s", c.IntentTTL)
	}
	if !c.Gateway.Mock && (c.Gateway.ConsumerKey == "" || c.Gateway.ConsumerSecret == "" || c.Gateway.PassKey == "") {
		return fmt.Errorf("gateway credentials missing: set GATEWAY_CONSUMER_KEY, GATEWAY_CONSUMER_SECRET and GATEWAY_PASSKEY or PAYMENT_GATEWAY_MOCK=true")
	}
	return nil
}

func (c *Config) KafkaBrokers() []string {
	if strings.TrimSpace(c.KafkaBrokerURL) == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on", "mock":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
