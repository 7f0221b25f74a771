package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/ghulammurtaza27/debugmaster/internal/errors"
)

// Config holds all configuration settings
type Config struct {
	// GitHub configuration (Source Access Client)
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Relational store configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Neo4j graph index configuration (optional, degraded mode when absent)
	Neo4j Neo4jConfig `yaml:"neo4j" mapstructure:"neo4j"`

	// Redis content cache (optional)
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`

	// OpenAI-backed mention extraction
	OpenAI OpenAIConfig `yaml:"openai" mapstructure:"openai"`

	// Repository analysis pacing and retry settings
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Context assembly settings
	Context ContextConfig `yaml:"context" mapstructure:"context"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	Ref       string `yaml:"ref" mapstructure:"ref"`             // Branch or commit, empty = default branch
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "postgres", "sqlite"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

type AnalysisConfig struct {
	WalkerBatchSize int           `yaml:"walker_batch_size" mapstructure:"walker_batch_size"`
	WalkerPause     time.Duration `yaml:"walker_pause" mapstructure:"walker_pause"`
	BatchSize       int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchPause      time.Duration `yaml:"batch_pause" mapstructure:"batch_pause"`
	FetchRetries    int           `yaml:"fetch_retries" mapstructure:"fetch_retries"`
	RetryBackoff    time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
}

type ContextConfig struct {
	PreferredChunkSize int `yaml:"preferred_chunk_size" mapstructure:"preferred_chunk_size"`
	MaxChunks          int `yaml:"max_chunks" mapstructure:"max_chunks"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		GitHub: GitHubConfig{
			RateLimit: 10, // 10 requests per second
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".debugmaster", "local.db"),
		},
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Analysis: AnalysisConfig{
			WalkerBatchSize: 5,
			WalkerPause:     1 * time.Second,
			BatchSize:       10,
			BatchPause:      500 * time.Millisecond,
			FetchRetries:    3,
			RetryBackoff:    2 * time.Second,
		},
		Context: ContextConfig{
			PreferredChunkSize: 1000,
			MaxChunks:          3,
		},
	}
}

// Load reads configuration from file, environment, and defaults.
// Precedence: explicit file > env vars > config file in search path > defaults.
func Load(cfgFile string) (*Config, error) {
	// Best-effort .env loading; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".debugmaster")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".debugmaster"))
		}
	}

	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file falls back to env + defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Credentials fall back to the OS keyring when unset
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = ResolveGitHubToken()
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = ResolveOpenAIKey()
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("github.rate_limit", def.GitHub.RateLimit)
	v.SetDefault("storage.type", def.Storage.Type)
	v.SetDefault("storage.sqlite_path", def.Storage.SQLitePath)
	v.SetDefault("neo4j.uri", def.Neo4j.URI)
	v.SetDefault("neo4j.username", def.Neo4j.Username)
	v.SetDefault("neo4j.database", def.Neo4j.Database)
	v.SetDefault("redis.host", def.Redis.Host)
	v.SetDefault("redis.port", def.Redis.Port)
	v.SetDefault("openai.model", def.OpenAI.Model)
	v.SetDefault("analysis.walker_batch_size", def.Analysis.WalkerBatchSize)
	v.SetDefault("analysis.walker_pause", def.Analysis.WalkerPause)
	v.SetDefault("analysis.batch_size", def.Analysis.BatchSize)
	v.SetDefault("analysis.batch_pause", def.Analysis.BatchPause)
	v.SetDefault("analysis.fetch_retries", def.Analysis.FetchRetries)
	v.SetDefault("analysis.retry_backoff", def.Analysis.RetryBackoff)
	v.SetDefault("context.preferred_chunk_size", def.Context.PreferredChunkSize)
	v.SetDefault("context.max_chunks", def.Context.MaxChunks)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.postgres_dsn", "DATABASE_URL")
	v.BindEnv("storage.sqlite_path", "SQLITE_PATH")
	v.BindEnv("neo4j.uri", "NEO4J_URI")
	v.BindEnv("neo4j.username", "NEO4J_USERNAME")
	v.BindEnv("neo4j.password", "NEO4J_PASSWORD")
	v.BindEnv("neo4j.database", "NEO4J_DATABASE")
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.model", "OPENAI_MODEL")
}

// Validate checks that configuration required for repository analysis is present
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return apperrors.ConfigError("github token missing").
			WithDetail("set GITHUB_TOKEN, or run 'debugmaster config set-token' to store it in the OS keychain")
	}
	switch c.Storage.Type {
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return apperrors.ConfigError("postgres DSN missing").
				WithDetail("set DATABASE_URL or storage.postgres_dsn in config.yaml")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return apperrors.ConfigError("sqlite path missing").
				WithDetail("set SQLITE_PATH or storage.sqlite_path in config.yaml")
		}
	default:
		return apperrors.ConfigErrorf("unknown storage type %q", c.Storage.Type).
			WithDetail("storage.type must be \"postgres\" or \"sqlite\"")
	}
	if c.GitHub.RateLimit <= 0 {
		return apperrors.ConfigError("github rate limit must be positive")
	}
	return nil
}
