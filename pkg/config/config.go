package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Retrieval RetrievalConfig
	Access    AccessConfig
	Chat      ChatConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	SecretKey string
}

type AnthropicConfig struct {
	APIKey        string
	BaseURL       string
	Version       string
	FallbackModel string
}

type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	FallbackModel string
}

type RetrievalConfig struct {
	BaseURL        string
	Timeout        time.Duration
	EmbeddingModel string
}

// AccessConfig feeds the caller gate: the public anonymous API key handed
// to embedded widgets, the markers that identify widget traffic, and the
// source tags of trusted internal channels.
type AccessConfig struct {
	PublicAnonKey string
	WidgetMarkers []string
	ChannelTags   []string
}

type ChatConfig struct {
	DefaultModel      string
	MaxTokens         int
	Temperature       float64
	CompletionTimeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional; environment variables win when it is absent
	// (useful for Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	retrievalTimeout, _ := strconv.Atoi(getEnv("RETRIEVAL_TIMEOUT", "8"))
	maxTokens, _ := strconv.Atoi(getEnv("CHAT_MAX_TOKENS", "1024"))
	temperature, _ := strconv.ParseFloat(getEnv("CHAT_TEMPERATURE", "0.7"), 64)
	completionTimeout, _ := strconv.Atoi(getEnv("CHAT_COMPLETION_TIMEOUT", "15"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "chatforge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
		},
		Anthropic: AnthropicConfig{
			APIKey:        getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL:       getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Version:       getEnv("ANTHROPIC_VERSION", "2023-06-01"),
			FallbackModel: getEnv("ANTHROPIC_FALLBACK_MODEL", "claude-3-5-haiku-latest"),
		},
		OpenAI: OpenAIConfig{
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", ""),
			FallbackModel: getEnv("OPENAI_FALLBACK_MODEL", "gpt-4o-mini"),
		},
		Retrieval: RetrievalConfig{
			BaseURL:        getEnv("RETRIEVAL_BASE_URL", "http://localhost:8090"),
			Timeout:        time.Duration(retrievalTimeout) * time.Second,
			EmbeddingModel: getEnv("RETRIEVAL_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Access: AccessConfig{
			PublicAnonKey: getEnv("PUBLIC_ANON_KEY", ""),
			WidgetMarkers: getEnvList("WIDGET_MARKERS", "chatforge-widget,widget-embed"),
			ChannelTags:   getEnvList("CHANNEL_TAGS", "whatsapp"),
		},
		Chat: ChatConfig{
			DefaultModel:      getEnv("CHAT_DEFAULT_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:         maxTokens,
			Temperature:       temperature,
			CompletionTimeout: time.Duration(completionTimeout) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
