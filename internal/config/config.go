package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"insightgen/internal/gemini"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Gemini    gemini.Config
	DataPath  string
	OutputDir string
	LogDir    string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	outputDir := getEnv("OUTPUT_DIR", filepath.Join(dataPath, "reports"))
	logDir := filepath.Join(dataPath, "logs")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("PLANNER_TIMEOUT_SECONDS", "30"))

	cfg := &AppConfig{
		Gemini: gemini.Config{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", ""),
			Endpoint: getEnv("GEMINI_ENDPOINT", ""),
			Timeout:  time.Duration(timeoutSecs) * time.Second,
		},
		DataPath:  dataPath,
		OutputDir: outputDir,
		LogDir:    logDir,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
