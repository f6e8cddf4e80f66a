package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Session SessionConfig `mapstructure:"session"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains the reasoning-capability provider configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains the SERP provider configuration
type SearchConfig struct {
	Provider     string        `mapstructure:"provider"` // serpapi
	APIKey       string        `mapstructure:"api_key"`
	Endpoint     string        `mapstructure:"endpoint"`
	Region       string        `mapstructure:"region"`
	Language     string        `mapstructure:"language"`
	GoogleDomain string        `mapstructure:"google_domain"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AgentConfig contains orchestration settings
type AgentConfig struct {
	FallbackMood string `mapstructure:"fallback_mood"`
}

// SessionConfig contains conversation store settings
type SessionConfig struct {
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

func (l LLMConfig) Validate() error {
	if l.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (set OPENAI_API_KEY)")
	}
	return nil
}

func (s SearchConfig) Validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("search.api_key is required (set SERP_API_KEY)")
	}
	return nil
}

// LoadConfig reads configuration from file and environment. Missing
// credentials are a configuration fault: the process refuses to start.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 1.0)
	viper.SetDefault("llm.max_tokens", 1024)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("search.provider", "serpapi")
	viper.SetDefault("search.region", "us")
	viper.SetDefault("search.language", "en")
	viper.SetDefault("search.google_domain", "google.com")
	viper.SetDefault("search.timeout", 30*time.Second)
	viper.SetDefault("agent.fallback_mood", "Neutral")
	viper.SetDefault("session.store", "inmemory")
	viper.SetDefault("session.ttl", 2*time.Hour)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		viper.AddConfigPath(filepath.Dir(exe))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSBYMOOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional; env + defaults must suffice
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// The two secrets come from the hosting environment.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("SERP_API_KEY"); v != "" {
		config.Search.APIKey = v
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Validate(); err != nil {
		panic(err)
	}

	return &config
}
