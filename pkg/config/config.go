package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Assembly AssemblyConfig
	Groq     GroqConfig
	LiveKit  LiveKitConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds Postgres configuration for the session archive
type DatabaseConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"meeting_intelligence"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RedisConfig holds Redis configuration for the shared voice profile store
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds MinIO configuration for the recording store
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-recordings"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// AssemblyConfig holds AssemblyAI configuration
type AssemblyConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
}

// GroqConfig holds Groq configuration for LLM-backed extraction
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY" default:""`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
}

// LiveKitConfig holds LiveKit server configuration
type LiveKitConfig struct {
	Host      string `envconfig:"LIVEKIT_HOST" default:""`
	APIKey    string `envconfig:"LIVEKIT_API_KEY" default:""`
	APISecret string `envconfig:"LIVEKIT_API_SECRET" default:""`
	Mock      bool   `envconfig:"LIVEKIT_MOCK" default:"true"`
}

// PipelineConfig selects pipeline implementations and sizes the per-session
// worker machinery
type PipelineConfig struct {
	Recognizer     string `envconfig:"PIPELINE_RECOGNIZER" default:"static"`
	Extractor      string `envconfig:"PIPELINE_EXTRACTOR" default:"rules"`
	ProfileScope   string `envconfig:"PIPELINE_PROFILE_SCOPE" default:"session"`
	ChunkQueueSize int    `envconfig:"PIPELINE_CHUNK_QUEUE_SIZE" default:"64"`
	MaxRetries     int    `envconfig:"PIPELINE_MAX_RETRIES" default:"3"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pipeline.Recognizer == "assemblyai" && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when PIPELINE_RECOGNIZER=assemblyai")
	}
	if c.Pipeline.Extractor == "groq" && c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required when PIPELINE_EXTRACTOR=groq")
	}
	if !c.LiveKit.Mock && (c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "") {
		return fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required when LIVEKIT_MOCK=false")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
