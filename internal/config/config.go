package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	LLM     LLMConfig
	OCR     OCRConfig
	Grading GradingConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	BodyLimit       int
	RequestDeadline time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig configures the generation backend. Sampling parameters are fixed
// here at startup and are not request-specific.
type LLMConfig struct {
	Provider        string // "googleai" or "ollama"
	Temperature     float64
	MaxOutputTokens int
	MaxAttempts     int
	AttemptTimeout  time.Duration
	GoogleAI        GoogleAIConfig
	Ollama          OllamaConfig
}

type GoogleAIConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type OCRConfig struct {
	CredentialsFile string
	MaxPDFPages     int
}

// GradingConfig selects and tunes the answer-grading strategy.
type GradingConfig struct {
	Strategy         string // "semantic" or "lexical"
	LexicalThreshold float64
	RejectNonAnswers bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("server.body_limit_mb", 25)
	viper.SetDefault("server.request_deadline", 120)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("llm.provider", "googleai")
	viper.SetDefault("llm.temperature", 0.4)
	viper.SetDefault("llm.max_output_tokens", 4096)
	viper.SetDefault("llm.max_attempts", 5)
	viper.SetDefault("llm.attempt_timeout", 30)
	viper.SetDefault("llm.googleai.model", "gemini-1.5-flash")
	viper.SetDefault("llm.ollama.model", "qwen3:0.6b")
	viper.SetDefault("ocr.max_pdf_pages", 5)
	viper.SetDefault("grading.strategy", "semantic")
	viper.SetDefault("grading.lexical_threshold", 0.5)
	viper.SetDefault("grading.reject_non_answers", false)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("server.port"),
			ReadTimeout:     viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout:    viper.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:       viper.GetInt("server.body_limit_mb") * 1024 * 1024,
			RequestDeadline: viper.GetDuration("server.request_deadline") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:        viper.GetString("llm.provider"),
			Temperature:     viper.GetFloat64("llm.temperature"),
			MaxOutputTokens: viper.GetInt("llm.max_output_tokens"),
			MaxAttempts:     viper.GetInt("llm.max_attempts"),
			AttemptTimeout:  viper.GetDuration("llm.attempt_timeout") * time.Second,
			GoogleAI: GoogleAIConfig{
				APIKey: viper.GetString("llm.googleai.api_key"),
				Model:  viper.GetString("llm.googleai.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("llm.ollama.server_url"),
				Model:     viper.GetString("llm.ollama.model"),
			},
		},
		OCR: OCRConfig{
			CredentialsFile: viper.GetString("ocr.credentials_file"),
			MaxPDFPages:     viper.GetInt("ocr.max_pdf_pages"),
		},
		Grading: GradingConfig{
			Strategy:         viper.GetString("grading.strategy"),
			LexicalThreshold: viper.GetFloat64("grading.lexical_threshold"),
			RejectNonAnswers: viper.GetBool("grading.reject_non_answers"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
	}

	// Override with environment variables if set
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLM.GoogleAI.APIKey = apiKey
	}
	if ollamaServer := os.Getenv("OLLAMA_SERVER"); ollamaServer != "" {
		config.LLM.Ollama.ServerURL = ollamaServer
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" && config.OCR.CredentialsFile == "" {
		config.OCR.CredentialsFile = creds
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}
