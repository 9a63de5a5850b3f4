package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`

	Gemini struct {
		APIKey            string `yaml:"api_key"`
		ModelName         string `yaml:"model_name"`
		DeepResearchAgent string `yaml:"deep_research_agent"`
		InteractionsURL   string `yaml:"interactions_url"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
		MediaPollSeconds  int    `yaml:"media_poll_seconds"`
		MediaPollAttempts int    `yaml:"media_poll_attempts"`
	} `yaml:"gemini"`

	Etherscan struct {
		APIKey      string `yaml:"api_key"`
		ChainID     int    `yaml:"chain_id"`
		MaxAttempts int    `yaml:"max_attempts"`
	} `yaml:"etherscan"`

	SerpAPI struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"serpapi"`

	Storage struct {
		URL    string `yaml:"url"`
		Key    string `yaml:"key"`
		Bucket string `yaml:"bucket"`
	} `yaml:"storage"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Gemini.ModelName == "" {
		config.Gemini.ModelName = "gemini-2.5-flash"
	}

	if config.Gemini.DeepResearchAgent == "" {
		config.Gemini.DeepResearchAgent = "deep-research"
	}

	if config.Gemini.InteractionsURL == "" {
		config.Gemini.InteractionsURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	if config.Gemini.RequestsPerMinute == 0 {
		config.Gemini.RequestsPerMinute = 8
	}

	if config.Gemini.MediaPollSeconds == 0 {
		config.Gemini.MediaPollSeconds = 2
	}

	if config.Gemini.MediaPollAttempts == 0 {
		config.Gemini.MediaPollAttempts = 30
	}

	if config.Etherscan.ChainID == 0 {
		config.Etherscan.ChainID = 1
	}

	if config.Etherscan.MaxAttempts == 0 {
		config.Etherscan.MaxAttempts = 3
	}

	// Expand environment variables in secrets
	config.Server.JWTSecret = os.ExpandEnv(config.Server.JWTSecret)
	config.Gemini.APIKey = os.ExpandEnv(config.Gemini.APIKey)
	config.Etherscan.APIKey = os.ExpandEnv(config.Etherscan.APIKey)
	config.SerpAPI.APIKey = os.ExpandEnv(config.SerpAPI.APIKey)
	config.Storage.Key = os.ExpandEnv(config.Storage.Key)

	return config, nil
}
