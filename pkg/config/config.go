package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Models   ModelsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// StoreConfig selects the knowledge-base backend
type StoreConfig struct {
	// Backend is "postgres" or "file"
	Backend string
	// DataDir is the root directory for the file backend
	DataDir string
	// Teams restricts processing to a known set when non-empty
	Teams []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// CacheTTL bounds staleness of cached knowledge bases
	CacheTTL time.Duration
}

// StorageConfig holds transcript/export storage configuration
type StorageConfig struct {
	// Type is "minio" or "local"
	Type            string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	// LocalDir is used when Type is "local"
	LocalDir string
}

// ModelsConfig holds model inference configuration
type ModelsConfig struct {
	// Transcriber is "assemblyai" or "whisper"
	Transcriber    string
	AssemblyAIKey  string
	HFAPIKey       string
	HFBaseURL      string
	WhisperModel   string
	SummaryModel   string
	ActionModel    string
	DecisionModel  string
	NERModel       string
	SummaryMinLen  int
	SummaryMaxLen  int
	EnrichWorkers  int
	RequestTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "postgres"),
			DataDir: getEnv("STORE_DATA_DIR", "output"),
			Teams:   getEnvAsSlice("TEAMS", ""),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_knowledge"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "5m"),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-knowledge"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "output"),
		},
		Models: ModelsConfig{
			Transcriber:    getEnv("TRANSCRIBER", "assemblyai"),
			AssemblyAIKey:  getEnv("ASSEMBLYAI_API_KEY", ""),
			HFAPIKey:       getEnv("HF_API_KEY", ""),
			HFBaseURL:      getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
			WhisperModel:   getEnv("WHISPER_MODEL", "openai/whisper-base"),
			SummaryModel:   getEnv("SUMMARY_MODEL", "facebook/bart-large-cnn"),
			ActionModel:    getEnv("ACTION_MODEL", "google/flan-t5-base"),
			DecisionModel:  getEnv("DECISION_MODEL", "google/flan-t5-base"),
			NERModel:       getEnv("NER_MODEL", "dbmdz/bert-large-cased-finetuned-conll03-english"),
			SummaryMinLen:  getEnvAsInt("SUMMARY_MIN_LENGTH", 40),
			SummaryMaxLen:  getEnvAsInt("SUMMARY_MAX_LENGTH", 120),
			EnrichWorkers:  getEnvAsInt("ENRICH_WORKERS", 4),
			RequestTimeout: getEnvAsDuration("MODEL_REQUEST_TIMEOUT", "120s"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "postgres", "file":
	default:
		return fmt.Errorf("STORE_BACKEND must be postgres or file, got %q", c.Store.Backend)
	}
	switch c.Models.Transcriber {
	case "assemblyai", "whisper":
	default:
		return fmt.Errorf("TRANSCRIBER must be assemblyai or whisper, got %q", c.Models.Transcriber)
	}
	if c.Models.SummaryMinLen <= 0 || c.Models.SummaryMaxLen <= c.Models.SummaryMinLen {
		return fmt.Errorf("invalid summary length bounds: min=%d max=%d", c.Models.SummaryMinLen, c.Models.SummaryMaxLen)
	}
	return nil
}

// ValidateTranscriber checks that the selected transcription provider has
// its API key set. Called only by entry points that actually transcribe,
// so export-only tooling can run without inference credentials.
func (m *ModelsConfig) ValidateTranscriber() error {
	switch m.Transcriber {
	case "assemblyai":
		if m.AssemblyAIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required when TRANSCRIBER=assemblyai")
		}
	case "whisper":
		if m.HFAPIKey == "" {
			return fmt.Errorf("HF_API_KEY is required when TRANSCRIBER=whisper")
		}
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

// KnownTeam reports whether processing is allowed for the team. An empty
// TEAMS list allows any team.
func (c *Config) KnownTeam(team string) bool {
	if len(c.Store.Teams) == 0 {
		return true
	}
	for _, t := range c.Store.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
