package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported generation backends.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Supported rate-limit state backends.
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Gemini     GeminiConfig
	Ollama     OllamaConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Evaluation EvaluationConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the generation backend and the model used by each endpoint.
type LLMConfig struct {
	Provider        string
	QuestionModel   string
	EvaluationModel string
	// Timeout bounds a single generation call. Zero leaves calls unbounded.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string
}

type OllamaConfig struct {
	ServerURL string
}

type RateLimitConfig struct {
	MinInterval time.Duration
	// Cooldown is the extra pause after a rate-limited evaluation.
	Cooldown      time.Duration
	Backend       string
	GateQuestions bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowOrigins string
}

type EvaluationConfig struct {
	ParseSections bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.env", "development")
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.question_model", "gemini-1.5-flash")
	v.SetDefault("llm.evaluation_model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout", "0s")
	v.SetDefault("ollama.server_url", "http://localhost:11434")
	v.SetDefault("rate_limit.min_interval", "5s")
	v.SetDefault("rate_limit.cooldown", "10s")
	v.SetDefault("rate_limit.backend", RateLimitBackendMemory)
	v.SetDefault("rate_limit.gate_questions", false)
	v.SetDefault("redis.db", 0)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("evaluation.parse_sections", false)
}

// LoadConfig reads config.yaml (optional) and environment variables, in that
// order of precedence from lowest to highest. A .env file is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)

	// PaaS platforms inject PORT; SERVER_PORT still wins when both are set.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_PORT") == "" {
		v.Set("server.port", port)
		cfg.Server.Port = v.GetInt("server.port")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("llm.provider")),
			QuestionModel:   v.GetString("llm.question_model"),
			EvaluationModel: v.GetString("llm.evaluation_model"),
			Timeout:         v.GetDuration("llm.timeout"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("gemini.api_key"),
			BaseURL: v.GetString("gemini.base_url"),
		},
		Ollama: OllamaConfig{
			ServerURL: v.GetString("ollama.server_url"),
		},
		RateLimit: RateLimitConfig{
			MinInterval:   v.GetDuration("rate_limit.min_interval"),
			Cooldown:      v.GetDuration("rate_limit.cooldown"),
			Backend:       strings.ToLower(v.GetString("rate_limit.backend")),
			GateQuestions: v.GetBool("rate_limit.gate_questions"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
		Evaluation: EvaluationConfig{
			ParseSections: v.GetBool("evaluation.parse_sections"),
		},
	}
}

// Validate checks the combinations LoadConfig cannot express as defaults.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key (GEMINI_API_KEY) is required for the %q provider", ProviderGemini)
		}
	case ProviderOllama:
		if c.Ollama.ServerURL == "" {
			return fmt.Errorf("ollama.server_url is required for the %q provider", ProviderOllama)
		}
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}

	switch c.RateLimit.Backend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the %q rate limit backend", RateLimitBackendRedis)
		}
	default:
		return fmt.Errorf("unsupported rate_limit.backend %q", c.RateLimit.Backend)
	}

	if c.RateLimit.MinInterval < 0 || c.RateLimit.Cooldown < 0 {
		return fmt.Errorf("rate_limit intervals must not be negative")
	}
	if c.LLM.QuestionModel == "" || c.LLM.EvaluationModel == "" {
		return fmt.Errorf("llm.question_model and llm.evaluation_model must be set")
	}
	return nil
}
