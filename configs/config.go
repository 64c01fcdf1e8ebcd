package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver           string
	DBSource           string
	Port               string
	JWTSecret          string
	JWTTTL             time.Duration
	AdminUser          string
	AdminPassHash      string
	WebhookVerifyToken string
	SessionIdleTTL     time.Duration
	SweepInterval      time.Duration
	ProviderTimeout    time.Duration
	ProviderBaseURL    string
	ProviderToken      string
	WhatsAppAPIBase    string
	WhatsAppToken      string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DBSource:           getEnv("DB_SOURCE", "orders.db"),
		Port:               getEnv("PORT", "8000"),
		JWTSecret:          getEnv("JWT_SECRET", "changeme"),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		AdminUser:          getEnv("ADMIN_USER", "admin"),
		AdminPassHash:      os.Getenv("ADMIN_PASS_HASH"),
		WebhookVerifyToken: getEnv("WEBHOOK_VERIFY_TOKEN", "verify-token"),
		SessionIdleTTL:     getDuration("SESSION_IDLE_TTL", 24*time.Hour),
		SweepInterval:      getDuration("SWEEP_INTERVAL", 10*time.Minute),
		ProviderTimeout:    getDuration("PROVIDER_TIMEOUT", 15*time.Second),
		ProviderBaseURL:    getEnv("PROVIDER_BASE_URL", "http://localhost:9000/api/v1"),
		ProviderToken:      os.Getenv("PROVIDER_TOKEN"),
		WhatsAppAPIBase:    getEnv("WHATSAPP_API_BASE", "https://graph.facebook.com/v20.0"),
		WhatsAppToken:      os.Getenv("WHATSAPP_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %v", key, err)
	}
	return d
}

func MustGetEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("missing env: %s", key)
	}
	return v
}
