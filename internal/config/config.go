package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`
	// APIToken, when set, is required as a bearer token by the HTTP API.
	APIToken string `yaml:"api_token"`

	Generator GeneratorConfig `yaml:"generator"`
	Anomaly   AnomalyConfig   `yaml:"anomaly"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Storage   StorageConfig   `yaml:"storage"`
	OCR       OCRConfig       `yaml:"ocr"`
}

// GeneratorConfig controls the synthetic log generator.
type GeneratorConfig struct {
	OutDir   string `yaml:"out_dir"`
	Seed     int64  `yaml:"seed"`
	Count    int    `yaml:"count"`
	MaxLines int    `yaml:"max_lines"`
	FontPath string `yaml:"font_path"`
}

// AnomalyConfig controls the isolation forest.
type AnomalyConfig struct {
	Contamination float64 `yaml:"contamination"`
	Seed          int64   `yaml:"seed"`
	Trees         int     `yaml:"trees"`
}

// GeminiConfig controls the hosted language model used for bank statements.
type GeminiConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	PromptDir    string        `yaml:"prompt_dir"`
	SampleOutput string        `yaml:"sample_output"`
}

// StorageConfig controls optional Google Cloud Storage access.
type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	Endpoint        string `yaml:"endpoint"`
}

// OCRConfig points at the external OCR tools.
type OCRConfig struct {
	TesseractPath string `yaml:"tesseract_path"`
	PdftoppmPath  string `yaml:"pdftoppm_path"`
	Language      string `yaml:"language"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "console",
		Generator: GeneratorConfig{
			OutDir:   ".",
			Count:    38,
			MaxLines: 50,
		},
		Anomaly: AnomalyConfig{
			Contamination: 0.15,
			Seed:          42,
			Trees:         100,
		},
		Gemini: GeminiConfig{
			Model:        "gemini-2.5-flash",
			Timeout:      30 * time.Second,
			SampleOutput: "sample_output.json",
		},
		OCR: OCRConfig{
			TesseractPath: "tesseract",
			PdftoppmPath:  "pdftoppm",
			Language:      "eng",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment (including a .env file in the working directory).
// An empty path skips the YAML step; a missing file at a given path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("TXNSCAN_PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.APIToken = getEnv("TXNSCAN_API_TOKEN", cfg.APIToken)

	cfg.Generator.OutDir = getEnv("GENERATOR_OUT_DIR", cfg.Generator.OutDir)
	cfg.Generator.Seed = getEnvAsInt64("GENERATOR_SEED", cfg.Generator.Seed)
	cfg.Generator.FontPath = getEnv("PDF_FONT_PATH", cfg.Generator.FontPath)

	cfg.Anomaly.Contamination = getEnvAsFloat("ANOMALY_CONTAMINATION", cfg.Anomaly.Contamination)
	cfg.Anomaly.Seed = getEnvAsInt64("ANOMALY_SEED", cfg.Anomaly.Seed)

	// GOOGLE_API_KEY is what the genai SDK reads on its own
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", cfg.Gemini.APIKey))
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.Timeout = getEnvAsDuration("GEMINI_TIMEOUT", cfg.Gemini.Timeout)
	cfg.Gemini.PromptDir = getEnv("PROMPT_DIR", cfg.Gemini.PromptDir)
	cfg.Gemini.SampleOutput = getEnv("SAMPLE_OUTPUT", cfg.Gemini.SampleOutput)

	cfg.Storage.Bucket = getEnv("GCS_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", cfg.Storage.CredentialsFile)
	cfg.Storage.Endpoint = getEnv("GCS_ENDPOINT", cfg.Storage.Endpoint)

	cfg.OCR.TesseractPath = getEnv("TESSERACT_PATH", cfg.OCR.TesseractPath)
	cfg.OCR.PdftoppmPath = getEnv("PDFTOPPM_PATH", cfg.OCR.PdftoppmPath)
	cfg.OCR.Language = getEnv("OCR_LANGUAGE", cfg.OCR.Language)
}

// Validate checks that values are in range
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Generator.Count < 0 {
		errs = append(errs, fmt.Errorf("generator.count must not be negative, got %d", c.Generator.Count))
	}
	if c.Generator.MaxLines < 1 {
		errs = append(errs, fmt.Errorf("generator.max_lines must be positive, got %d", c.Generator.MaxLines))
	}
	if c.Anomaly.Contamination <= 0 || c.Anomaly.Contamination > 0.5 {
		errs = append(errs, fmt.Errorf("anomaly.contamination must be in (0, 0.5], got %v", c.Anomaly.Contamination))
	}
	if c.Anomaly.Trees < 1 {
		errs = append(errs, fmt.Errorf("anomaly.trees must be positive, got %d", c.Anomaly.Trees))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("gemini.timeout must be positive, got %v", c.Gemini.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
