package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config groups the environment settings of the server process.
type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string
	UploadDir    string
	ClientDist   string
	GeminiAPIKey string
	GinMode      string
}

// Load reads .env when present, then the process environment. A missing
// MONGODB_URI is tolerated: the server still boots, collections stay unusable.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on environment variables")
	}

	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		MongoURI:     strings.TrimSpace(os.Getenv("MONGODB_URI")),
		DatabaseName: getEnv("MONGODB_DB", "transport"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ClientDist:   getEnv("CLIENT_DIST", "client/dist"),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GinMode:      strings.TrimSpace(os.Getenv("GIN_MODE")),
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}
