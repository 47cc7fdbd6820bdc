package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración del proceso, leída de variables de entorno.
type Config struct {
	Port        string
	CatalogCSV  string
	OpenAIKey   string
	OpenAIModel string
	// RedisAddr vacío usa el almacén de conversaciones en memoria.
	RedisAddr string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

// Load lee .env si existe y construye la configuración con defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "8080"),
		CatalogCSV:        getEnv("CATALOG_CSV", "sample_caso_ai_engineer.csv"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
