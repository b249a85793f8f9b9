package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Ai      AIConfig
	Study   StudyConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
	JWTSecret          string
	TracingEndpoint    string
	TracingEnabled     bool
}

// StorageConfig selects the history store backend: "memory", "redis" or
// "postgres".
type StorageConfig struct {
	Backend    string
	Connection string
}

type AIConfig struct {
	Provider      string // "ollama" or "huggingface"
	Model         string
	VisionModel   string
	OllamaBaseURL string
	APIKey        string
}

// StudyConfig carries the language defaults applied to capability calls.
type StudyConfig struct {
	InputLanguage  string
	OutputLanguage string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TracingEndpoint:    getEnv("OTLP_ENDPOINT", "localhost:4318"),
			TracingEnabled:     getEnvAsBool("TRACING_ENABLED", false),
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", "memory"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "ollama"),
			Model:         getEnv("LLM_MODEL", "llama3"),
			VisionModel:   getEnv("LLM_VISION_MODEL", "llava"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			APIKey:        getEnv("LLM_API_KEY", ""),
		},
		Study: StudyConfig{
			InputLanguage:  getEnv("STUDY_INPUT_LANGUAGE", "en"),
			OutputLanguage: getEnv("STUDY_OUTPUT_LANGUAGE", "en"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
