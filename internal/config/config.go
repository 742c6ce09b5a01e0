package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Environment string           `yaml:"environment" validate:"oneof=development production"`
	Server      ServerConfig     `yaml:"server"`
	Log         LogConfig        `yaml:"log"`
	Transcribe  TranscribeConfig `yaml:"transcribe"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// TranscribeConfig configures the external transcription provider. The API
// key is credential material and only ever comes from the environment.
type TranscribeConfig struct {
	APIKey         string `yaml:"-"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1"`
}

var validate = validator.New()

// Load reads configuration from an optional YAML file and environment
// variables. A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Log: LogConfig{
			Level: "info",
		},
		Transcribe: TranscribeConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "whisper-1",
			Language:       "nl",
			TimeoutSeconds: 60,
		},
	}

	if path := os.Getenv("GANTTVOICE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	if host := os.Getenv("GANTTVOICE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if level := os.Getenv("GANTTVOICE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	cfg.Transcribe.APIKey = os.Getenv("OPENAI_API_KEY")

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// AllowedOrigins returns the CORS origin allow-list for the environment.
// Production allows every origin; development pins the known frontends.
func (c Config) AllowedOrigins() []string {
	if c.Environment == "production" {
		return []string{"*"}
	}
	return []string{
		"http://localhost:3000",
		"https://localhost:3000",
		"https://project-gantt-frontend3.vercel.app",
		"null",
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
