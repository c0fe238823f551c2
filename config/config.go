package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config holds the server configuration. Values come from a YAML file when
// one is present; environment variables override individual fields.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database PostgresConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	LLM      LLMConfig      `yaml:"llm"`
	Food     FoodConfig     `yaml:"food"`
	Chat     ChatConfig     `yaml:"chat"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type LLMConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	ChatModel   string `yaml:"chat_model"`
	VisionModel string `yaml:"vision_model"`
}

type FoodConfig struct {
	SpoonacularKey string `yaml:"spoonacular_key"`
}

type ChatConfig struct {
	// HistoryWindow limits how many prior messages are sent to the model.
	// Zero means the full session history.
	HistoryWindow int `yaml:"history_window"`
}

// ReadConfig reads the configuration from the YAML file at filePath.
func ReadConfig(filePath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Load builds the effective configuration: the YAML file at CONFIG_PATH (or
// config/development.yaml) when it exists, then environment overrides.
func Load() *Config {
	cfg := &Config{}
	path := GetEnv("CONFIG_PATH", "config/development.yaml")
	if fileCfg, err := ReadConfig(path); err == nil {
		cfg = fileCfg
	}

	cfg.Server.Port = GetEnv("PORT", orDefault(cfg.Server.Port, "8080"))
	cfg.Database.Host = GetEnv("DB_HOST", orDefault(cfg.Database.Host, "localhost"))
	cfg.Database.User = GetEnv("DB_USER", orDefault(cfg.Database.User, "postgres"))
	cfg.Database.Password = GetEnv("DB_PASSWORD", orDefault(cfg.Database.Password, "password"))
	cfg.Database.DBName = GetEnv("DB_NAME", orDefault(cfg.Database.DBName, "myfittrack"))
	cfg.Database.Port = GetEnv("DB_PORT", orDefault(cfg.Database.Port, "5432"))
	cfg.Database.SSLMode = GetEnv("DB_SSLMODE", orDefault(cfg.Database.SSLMode, "disable"))
	cfg.JWT.Secret = GetEnv("JWT_SECRET", orDefault(cfg.JWT.Secret, "dev-secret"))
	cfg.LLM.APIKey = GetEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = GetEnv("LLM_BASE_URL", orDefault(cfg.LLM.BaseURL, "https://api.together.xyz/v1"))
	cfg.LLM.ChatModel = GetEnv("LLM_MODEL", orDefault(cfg.LLM.ChatModel, "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"))
	cfg.LLM.VisionModel = GetEnv("LLM_VISION_MODEL", orDefault(cfg.LLM.VisionModel, "meta-llama/Llama-Vision-Free"))
	cfg.Food.SpoonacularKey = GetEnv("SPOONACULAR_API_KEY", cfg.Food.SpoonacularKey)
	if v := GetEnv("CHAT_HISTORY_WINDOW", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Chat.HistoryWindow = n
		}
	}

	return cfg
}

// GetEnv returns the value of the environment variable or the fallback.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
