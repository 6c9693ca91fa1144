package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"

	RecognitionProviderPlantID = "plantid"
	RecognitionProviderMock    = "mock"
)

const (
	defaultAccessTokenTTLMinutes = 30
	defaultRefreshTokenTTLDays   = 7
	defaultEnrichmentQueueSize   = 100
	defaultNumEnrichmentWorkers  = 2
	defaultThumbnailMaxSize      = 300
)

type Config struct {
	// server
	Port          string
	PublicBaseURL string // base URL used to build publicly resolvable file URLs

	// database path
	DatabasePath string

	// token signing
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// storage configuration
	StorageBackend   string // "local" or "s3"
	LocalStoragePath string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3Region         string
	S3UseSSL         bool

	// thumbnail generation settings
	ThumbnailMaxSize int

	// recognition backend (Plant.id style API)
	RecognitionProvider string // "plantid" or "mock"
	PlantIDAPIKey       string
	PlantIDAPIURL       string

	// enrichment backend (chat-completion style API)
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	// enrichment worker settings
	EnrichmentQueueSize  int
	NumEnrichmentWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY must be set")
	}

	localStorage := getEnvOrDefault("LOCAL_STORAGE_PATH", filepath.Join(".", "storage"))
	absLocalStorage, err := filepath.Abs(localStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for local storage '%s': %w", localStorage, err)
	}

	backend := getEnvOrDefault("STORAGE_BACKEND", StorageBackendLocal)
	if backend != StorageBackendLocal && backend != StorageBackendS3 {
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND '%s': must be '%s' or '%s'", backend, StorageBackendLocal, StorageBackendS3)
	}
	if backend == StorageBackendS3 {
		if os.Getenv("S3_ENDPOINT") == "" || os.Getenv("S3_BUCKET") == "" {
			return Config{}, fmt.Errorf("S3_ENDPOINT and S3_BUCKET must be set when STORAGE_BACKEND is 's3'")
		}
	}

	provider := getEnvOrDefault("RECOGNITION_PROVIDER", RecognitionProviderMock)
	if provider != RecognitionProviderPlantID && provider != RecognitionProviderMock {
		return Config{}, fmt.Errorf("invalid RECOGNITION_PROVIDER '%s': must be '%s' or '%s'", provider, RecognitionProviderPlantID, RecognitionProviderMock)
	}
	if provider == RecognitionProviderPlantID && os.Getenv("PLANT_ID_API_KEY") == "" {
		log.Printf("Warning: RECOGNITION_PROVIDER is '%s' but PLANT_ID_API_KEY is empty; using '%s'", provider, RecognitionProviderMock)
		provider = RecognitionProviderMock
	}

	port := getEnvOrDefault("PORT", "8080")

	cfg := Config{
		Port:          port,
		PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port),
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", "plantvision.db"),

		JWTSecret:       secret,
		AccessTokenTTL:  time.Duration(getEnvIntOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", defaultAccessTokenTTLMinutes)) * time.Minute,
		RefreshTokenTTL: time.Duration(getEnvIntOrDefault("REFRESH_TOKEN_EXPIRE_DAYS", defaultRefreshTokenTTLDays)) * 24 * time.Hour,

		StorageBackend:   backend,
		LocalStoragePath: absLocalStorage,
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         getEnvOrDefault("S3_REGION", "us-east-1"),
		S3UseSSL:         getEnvBoolOrDefault("S3_USE_SSL", true),

		ThumbnailMaxSize: getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),

		RecognitionProvider: provider,
		PlantIDAPIKey:       os.Getenv("PLANT_ID_API_KEY"),
		PlantIDAPIURL:       getEnvOrDefault("PLANT_ID_API_URL", "https://plant.id/api/v3"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIURL: getEnvOrDefault("OPENAI_API_URL", "https://api.openai.com/v1"),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4-turbo-preview"),

		EnrichmentQueueSize:  getEnvIntOrDefault("ENRICHMENT_QUEUE_SIZE", defaultEnrichmentQueueSize),
		NumEnrichmentWorkers: getEnvIntOrDefault("NUM_ENRICHMENT_WORKERS", defaultNumEnrichmentWorkers),
	}

	return cfg, nil
}
