package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	OCR      OCRConfig
	Server   ServerConfig
	Database DatabaseConfig
	Watch    WatchConfig
}

// PipelineConfig is built once at startup and injected into every stage that
// touches the filesystem.
type PipelineConfig struct {
	ScratchRoot            string // per-run subdirectories are created below this
	TemplateDir            string
	KeepScratch            bool // keep rasters and crops after a run (debugging)
	CreateMissingTemplates bool // write an empty skeleton for regions without a template
	DPI                    int
	FieldConcurrency       int
	GrayscaleCrops         bool
}

// OCRConfig holds OCR/rasterization tool configuration
type OCRConfig struct {
	Engine      string // "cli" (tesseract binary) | "api" (in-process gosseract)
	Tesseract   string
	Pdftoppm    string
	Pdftotext   string
	Lang        string
	PSM         int
	TessdataDir string
	ToolTimeout time.Duration // per external command; 0 = no limit
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCAddr       string
	UploadDir      string
	MaxUploadBytes int64
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // "postgres" | "sqlite" | "" (no persistence)
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration // postgres only; 0 = server default
}

// WatchConfig holds directory-watch configuration for the daemon
type WatchConfig struct {
	Dirs       []string
	Debounce   time.Duration
	Workers    int
	JobTimeout time.Duration // 0 = no limit
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Pipeline: PipelineConfig{
			ScratchRoot:            getEnv("SCRATCH_DIR", "debug_text"),
			TemplateDir:            getEnv("TEMPLATE_DIR", "templates"),
			KeepScratch:            getEnvAsBool("KEEP_SCRATCH", false),
			CreateMissingTemplates: getEnvAsBool("CREATE_MISSING_TEMPLATES", false),
			DPI:                    getEnvAsInt("RASTER_DPI", 300),
			FieldConcurrency:       getEnvAsInt("FIELD_CONCURRENCY", 4),
			GrayscaleCrops:         getEnvAsBool("GRAYSCALE_CROPS", false),
		},
		OCR: OCRConfig{
			Engine:      getEnv("OCR_ENGINE", "cli"),
			Tesseract:   getEnv("TESSERACT_PATH", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM_PATH", "pdftoppm"),
			Pdftotext:   getEnv("PDFTOTEXT_PATH", "pdftotext"),
			Lang:        getEnv("OCR_LANG", "eng"),
			PSM:         getEnvAsInt("OCR_PSM", 6),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			ToolTimeout: getEnvAsDuration("TOOL_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("PORT", ":3000"),
			GRPCAddr:       getEnv("GRPC_ADDR", ""),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 32<<20),
		},
		Database: DatabaseConfig{
			Driver:           getEnv("DB_DRIVER", ""),
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Watch: WatchConfig{
			Dirs:       getEnvAsList("WATCH_DIRS"),
			Debounce:   getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
			Workers:    getEnvAsInt("WATCH_WORKERS", 2),
			JobTimeout: getEnvAsDuration("WATCH_JOB_TIMEOUT", 0),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.ScratchRoot == "" {
		return NewAppError(CodeConfig, "SCRATCH_DIR is required", ErrInvalidInput)
	}
	if c.Pipeline.TemplateDir == "" {
		return NewAppError(CodeConfig, "TEMPLATE_DIR is required", ErrInvalidInput)
	}
	if c.Pipeline.DPI < 72 || c.Pipeline.DPI > 1200 {
		return NewAppError(CodeConfig, "RASTER_DPI must be between 72 and 1200", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "cli", "api":
	default:
		return NewAppError(CodeConfig, "OCR_ENGINE must be one of: cli | api", ErrInvalidInput)
	}
	switch c.Database.Driver {
	case "":
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return NewAppError(CodeConfig, "DB_URL is required when DB_DRIVER is set", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, "DB_DRIVER must be one of: postgres | sqlite", ErrInvalidInput)
	}
	return nil
}
