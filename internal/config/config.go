package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded from the environment or an
// optional .env file. Defaults are tuned for local development.
type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	OllamaURL    string `mapstructure:"OLLAMA_URL"`
	MainModel    string `mapstructure:"MAIN_MODEL"`
	SystemPrompt string `mapstructure:"SYSTEM_PROMPT"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Reconciliation engine knobs. Pacing throttles how fast drained chunks
	// reach the view; the queue drops its oldest entry when full.
	ChunkPacingMS    int `mapstructure:"CHUNK_PACING_MS"`
	ChunkQueueSize   int `mapstructure:"CHUNK_QUEUE_SIZE"`
	UndoRetentionSec int `mapstructure:"UNDO_RETENTION_SEC"`
	UndoSweepSec     int `mapstructure:"UNDO_SWEEP_SEC"`
}

// ChunkPacing returns the inter-chunk drain delay as a duration.
func (c *Config) ChunkPacing() time.Duration {
	return time.Duration(c.ChunkPacingMS) * time.Millisecond
}

// UndoRetention returns how long tombstones stay restorable.
func (c *Config) UndoRetention() time.Duration {
	return time.Duration(c.UndoRetentionSec) * time.Second
}

// UndoSweepInterval returns how often expired tombstones are purged. It is
// deliberately independent of the retention window.
func (c *Config) UndoSweepInterval() time.Duration {
	return time.Duration(c.UndoSweepSec) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/chatloom.db")
	viper.SetDefault("OLLAMA_URL", "http://ollama:11434")
	viper.SetDefault("MAIN_MODEL", "llama3.2")
	viper.SetDefault("SYSTEM_PROMPT", "You are a helpful assistant.")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("CHUNK_PACING_MS", 100)
	viper.SetDefault("CHUNK_QUEUE_SIZE", 256)
	viper.SetDefault("UNDO_RETENTION_SEC", 30)
	viper.SetDefault("UNDO_SWEEP_SEC", 5)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
