package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	ErrPanicEnvNotSet          = errors.New("environment variable not set")
	ErrPanicEnvNotInt          = errors.New("environment variable is not an integer")
	ErrPanicEnvNotBool         = errors.New("environment variable is not a boolean")
	ErrPanicEnvNotPositive     = errors.New("environment variable is not positive")
	ErrPanicInvalidBlobBackend = errors.New("invalid blob backend")
)

const (
	EnvServerPort        = "CT_SERVER_PORT"
	EnvDatabaseHost      = "CT_DB_HOST"
	EnvDatabasePort      = "CT_DB_PORT"
	EnvDatabaseUser      = "CT_DB_USER"
	EnvDatabasePassword  = "CT_DB_PASSWORD"
	EnvDatabaseName      = "CT_DB_NAME"
	EnvBlobBackend       = "CT_BLOB_BACKEND"
	EnvBlobRoot          = "CT_BLOB_ROOT"
	EnvS3Bucket          = "CT_S3_BUCKET"
	EnvS3Region          = "CT_S3_REGION"
	EnvS3Endpoint        = "CT_S3_ENDPOINT"
	EnvS3PathStyle       = "CT_S3_PATH_STYLE"
	EnvS3AccessKeyID     = "CT_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "CT_S3_SECRET_ACCESS_KEY"
	EnvScratchDir        = "CT_SCRATCH_DIR"
	EnvSegmentSeconds    = "CT_SEGMENT_SECONDS"
	EnvProfile           = "CT_PROFILE"
	EnvEncodeWorkers     = "CT_ENCODE_WORKERS"
	EnvMetricsPort       = "CT_METRICS_PORT"
	EnvLogLevel          = "CT_LOG_LEVEL"
	EnvLogFormat         = "CT_LOG_FORMAT"
)

const (
	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

const (
	DefaultSegmentSeconds = 6
	DefaultEncodeWorkers  = 4
)

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	Port     int
	Database *DatabaseConfig
	Logging  *LoggingConfig
}

// WorkerConfig contains configuration for the worker.
type WorkerConfig struct {
	Database    *DatabaseConfig
	Blob        *BlobConfig
	Pipeline    *PipelineConfig
	Logging     *LoggingConfig
	MetricsPort int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type BlobConfig struct {
	Backend string
	// Root is the directory holding every blob when Backend is local.
	Root string
	S3   *S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

// PipelineConfig holds the settings shared by the ingest, encode and mux stages.
type PipelineConfig struct {
	ScratchDir      string
	SegmentDuration time.Duration
	Profile         Profile
	EncodeWorkers   int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func mustGetenv(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrPanicEnvNotSet, key))
	}
	return value
}

func mustGetenvAtoi(key string) int {
	valueStr := mustGetenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(fmt.Errorf("%w: %q", ErrPanicEnvNotInt, key))
	}
	return value
}

func getenvDefault(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return def
}

func getenvAtoiDefault(key string, def int) int {
	if _, ok := os.LookupEnv(key); !ok {
		return def
	}
	return mustGetenvAtoi(key)
}

func getenvPositiveDefault(key string, def int) int {
	value := getenvAtoiDefault(key, def)
	if value <= 0 {
		panic(fmt.Errorf("%w: %q", ErrPanicEnvNotPositive, key))
	}
	return value
}

func getenvBoolDefault(key string, def bool) bool {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		panic(fmt.Errorf("%w: %q", ErrPanicEnvNotBool, key))
	}
	return value
}

func newDatabaseConfigFromEnv() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     mustGetenv(EnvDatabaseHost),
		Port:     mustGetenvAtoi(EnvDatabasePort),
		User:     mustGetenv(EnvDatabaseUser),
		Password: mustGetenv(EnvDatabasePassword),
		Name:     mustGetenv(EnvDatabaseName),
	}
}

func newLoggingConfigFromEnv() *LoggingConfig {
	return &LoggingConfig{
		Level:  getenvDefault(EnvLogLevel, "info"),
		Format: getenvDefault(EnvLogFormat, "json"),
	}
}

func newBlobConfigFromEnv() *BlobConfig {
	backend := getenvDefault(EnvBlobBackend, BlobBackendLocal)
	switch backend {
	case BlobBackendLocal:
		return &BlobConfig{
			Backend: backend,
			Root:    mustGetenv(EnvBlobRoot),
		}
	case BlobBackendS3:
		return &BlobConfig{
			Backend: backend,
			S3: &S3Config{
				Bucket:          mustGetenv(EnvS3Bucket),
				Region:          getenvDefault(EnvS3Region, ""),
				Endpoint:        getenvDefault(EnvS3Endpoint, ""),
				UsePathStyle:    getenvBoolDefault(EnvS3PathStyle, false),
				AccessKeyID:     getenvDefault(EnvS3AccessKeyID, ""),
				SecretAccessKey: getenvDefault(EnvS3SecretAccessKey, ""),
			},
		}
	default:
		panic(fmt.Errorf("%w: %q", ErrPanicInvalidBlobBackend, backend))
	}
}

func newPipelineConfigFromEnv() *PipelineConfig {
	profile := Profile(getenvDefault(EnvProfile, string(ProfilePreview)))
	if !profile.IsValid() {
		panic(fmt.Errorf("%w: %q", ErrPanicInvalidProfile, profile))
	}
	return &PipelineConfig{
		ScratchDir:      getenvDefault(EnvScratchDir, os.TempDir()),
		SegmentDuration: time.Duration(getenvPositiveDefault(EnvSegmentSeconds, DefaultSegmentSeconds)) * time.Second,
		Profile:         profile,
		EncodeWorkers:   getenvPositiveDefault(EnvEncodeWorkers, DefaultEncodeWorkers),
	}
}

func NewServerConfigFromEnv() *ServerConfig {
	return &ServerConfig{
		Port:     mustGetenvAtoi(EnvServerPort),
		Database: newDatabaseConfigFromEnv(),
		Logging:  newLoggingConfigFromEnv(),
	}
}

func NewWorkerConfigFromEnv() *WorkerConfig {
	return &WorkerConfig{
		Database:    newDatabaseConfigFromEnv(),
		Blob:        newBlobConfigFromEnv(),
		Pipeline:    newPipelineConfigFromEnv(),
		Logging:     newLoggingConfigFromEnv(),
		MetricsPort: getenvAtoiDefault(EnvMetricsPort, 0),
	}
}
