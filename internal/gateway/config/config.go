package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string
	LLM  LLMConfig
	Data DataConfig
}

type LLMConfig struct {
	// Provider selects the chat backend: "openai" (default, any
	// OpenAI-compatible endpoint) or "gemini".
	Provider string
	Model    string
	APIKey   string
	Endpoint string
}

type DataConfig struct {
	// Dir holds one <log_id>.json snapshot document per flight.
	Dir       string
	CacheSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port: *port,
		Env:  env,
		LLM:  loadLLMConfig(),
		Data: loadDataConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "openai"
	}
	return LLMConfig{
		Provider: provider,
		Model:    strings.TrimSpace(os.Getenv("LLM_MODEL")),
		APIKey: firstNonEmpty(
			strings.TrimSpace(os.Getenv("LLM_API_KEY")),
			strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		),
		Endpoint: strings.TrimSpace(os.Getenv("LLM_ENDPOINT")),
	}
}

func loadDataConfig() DataConfig {
	size := 128
	if raw := strings.TrimSpace(os.Getenv("SNAPSHOT_CACHE_SIZE")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}
	return DataConfig{
		Dir:       firstNonEmpty(strings.TrimSpace(os.Getenv("FLIGHT_DATA_DIR")), "data/flights"),
		CacheSize: size,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
