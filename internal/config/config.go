package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI      string
	DBName        string
	ResendAPIKey  string
	EmailFrom     string
	InternalEmail string
	SendTimeout   time.Duration
	Seed          bool
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:      getEnvOrDefault("MONGO_URI", ""),
		DBName:        getEnvOrDefault("DB_NAME", "storefront"),
		ResendAPIKey:  getEnvOrDefault("RESEND_API_KEY", ""),
		EmailFrom:     getEnvOrDefault("EMAIL_FROM", "Yellow Tokri <no-reply@yellowtokri.com>"),
		InternalEmail: getEnvOrDefault("INTERNAL_EMAIL", "yellowtokri@gmail.com"),
		SendTimeout:   getDurationEnv("SEND_TIMEOUT", 10, time.Second),
		Seed:          getEnvOrDefault("SEED", "") == "true",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
