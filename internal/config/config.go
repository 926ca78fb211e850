package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings for the API server.
type Config struct {
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	DBDriver      string
	AppPort       string
	AppEnv        string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string
	CORSOrigin    string
	// InternalKey lets trusted services use the internal rate tier.
	InternalKey string
}

// KioskConfig holds the settings for the storefront client.
type KioskConfig struct {
	AppEnv         string
	APIBaseURL     string
	DataDir        string
	HTTPTimeout    time.Duration
	WhatsAppURL    string
	RabbitMQURL    string
	TelegramToken  string
	TelegramChatID int64
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		AppPort:       getEnv("APP_PORT", "8080"),
		AppEnv:        os.Getenv("APP_ENV"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		InternalKey:   os.Getenv("INTERNAL_SECRET_KEY"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	return cfg
}

func LoadKioskConfig() *KioskConfig {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()

	return &KioskConfig{
		AppEnv:         os.Getenv("APP_ENV"),
		APIBaseURL:     getEnv("KANTIN_API_URL", "http://localhost:8080"),
		DataDir:        getEnv("KANTIN_DATA_DIR", home+"/.kantin"),
		HTTPTimeout:    getDuration("KANTIN_HTTP_TIMEOUT", 15*time.Second),
		WhatsAppURL:    getEnv("WHATSAPP_URL", "https://wa.me"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: getInt64("TELEGRAM_CHAT_ID", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
