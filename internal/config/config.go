package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type SpeechConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

type SummaryConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	TempDir    string        `mapstructure:"temp_dir"`
	// MaxInflightChunks bounds concurrent transcriptions per process.
	MaxInflightChunks int64 `mapstructure:"max_inflight_chunks"`

	Speech  SpeechConfig  `mapstructure:"speech"`
	Summary SummaryConfig `mapstructure:"summary"`
	Store   StoreConfig   `mapstructure:"store"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("temp_dir", "")
	v.SetDefault("max_inflight_chunks", 16)
	v.SetDefault("speech.base_url", "https://api.assemblyai.com/v2")
	v.SetDefault("speech.poll_interval", "3s")
	v.SetDefault("speech.poll_timeout", "10m")
	v.SetDefault("summary.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("summary.model", "gemini-1.5-flash")

	// API keys come from the environment in deployments without a config file.
	v.SetDefault("speech.api_key", os.Getenv("AI_ASSEMBLY_API"))
	v.SetDefault("summary.api_key", os.Getenv("GEMINI_API_KEY"))
	v.SetDefault("store.dsn", os.Getenv("HUDDLE_STORE_DSN"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}
