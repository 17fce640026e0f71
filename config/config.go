package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Restaurant RestaurantConfig
	CORS       CORSConfig
	S3         S3Config
	Kafka      KafkaConfig
	Report     ReportConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	Timezone    string // IANA name used for "today" boundaries
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig backs the cart store. An empty Host keeps carts in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CartTTL  time.Duration
}

type SessionConfig struct {
	Secret           string
	OriginCookieName string
	OriginTokenTTL   time.Duration
	CartCookieName   string
	SecureCookies    bool
}

type RestaurantConfig struct {
	Name               string
	DeliveryFee        decimal.Decimal
	WhatsAppPhone      string
	OriginExcludedPath []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // public media URL (CDN or bucket domain)
	Endpoint        string // non-empty for S3-compatible stores such as R2
}

// Enabled reports whether object storage has been configured.
func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type ReportConfig struct {
	Enabled  bool
	Schedule string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	deliveryFee, err := decimal.NewFromString(getEnv("DELIVERY_FEE", "8.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			Timezone:    getEnv("TIMEZONE", "America/Sao_Paulo"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "imperio"),
			Password: getEnv("DB_PASSWORD", "imperio"),
			DBName:   getEnv("DB_NAME", "imperio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			CartTTL:  parseDuration(getEnv("CART_TTL", "72h"), 72*time.Hour),
		},
		Session: SessionConfig{
			Secret:           getEnv("SESSION_SECRET", "change-me-session-secret"),
			OriginCookieName: getEnv("ORIGIN_COOKIE_NAME", "order_origin"),
			OriginTokenTTL:   parseDuration(getEnv("ORIGIN_TOKEN_TTL", "12h"), 12*time.Hour),
			CartCookieName:   getEnv("CART_COOKIE_NAME", "cart_session"),
			SecureCookies:    parseBool(getEnv("SECURE_COOKIES", "false")),
		},
		Restaurant: RestaurantConfig{
			Name:               getEnv("RESTAURANT_NAME", "Imperio Pizzas"),
			DeliveryFee:        deliveryFee,
			WhatsAppPhone:      getEnv("WHATSAPP_PHONE", ""),
			OriginExcludedPath: parseSlice(getEnv("ORIGIN_EXCLUDED_PATHS", "/admin,/api,/order")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "auto"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
		Kafka: KafkaConfig{
			Brokers: parseSlice(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_ORDER_TOPIC", "orders"),
		},
		Report: ReportConfig{
			Enabled:  parseBool(getEnv("DAILY_REPORT_ENABLED", "true")),
			Schedule: getEnv("DAILY_REPORT_CRON", "55 23 * * *"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Invalid timezone %s, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
