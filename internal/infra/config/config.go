package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Summary  SummaryConfig  `yaml:"summary"`
	Upload   UploadConfig   `yaml:"upload"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Queue    QueueConfig    `yaml:"queue"`
	Auth     AuthConfig     `yaml:"auth"`
	Inbox    InboxConfig    `yaml:"inbox"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	MaxUploadBytes int64           `yaml:"maxUploadBytes"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// SummaryConfig defines the extractive summarizer settings.
type SummaryConfig struct {
	NumSentences      int               `yaml:"numSentences"`
	MaxSentences      int               `yaml:"maxSentences"`
	MaxKeywords       int               `yaml:"maxKeywords"`
	Budget            time.Duration     `yaml:"budget"`
	StopWordsFile     string            `yaml:"stopWordsFile"`
	ExtraStopWords    []string          `yaml:"extraStopWords"`
	LanguageStopWords map[string]string `yaml:"languageStopWords"`
	DetectLanguage    bool              `yaml:"detectLanguage"`
	Languages         []string          `yaml:"languages"`
	MaxPreviewChars   int               `yaml:"maxPreviewChars"`
	DefaultListLimit  int               `yaml:"defaultListLimit"`
}

// UploadConfig restricts accepted documents.
type UploadConfig struct {
	Folder            string   `yaml:"folder"`
	AllowedExtensions []string `yaml:"allowedExtensions"`
}

// StorageConfig picks where uploaded blobs live.
type StorageConfig struct {
	Driver string   `yaml:"driver"`
	R2     R2Config `yaml:"r2"`
}

// R2Config holds S3 compatible bucket settings.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// DatabaseConfig selects the document and record repositories.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	MaxConns   int32  `yaml:"maxConns"`
	MinConns   int32  `yaml:"minConns"`
	SQLitePath string `yaml:"sqlitePath"`
}

// QueueConfig selects the job queue.
type QueueConfig struct {
	Driver     string `yaml:"driver"`
	ValkeyAddr string `yaml:"valkeyAddr"`
	Key        string `yaml:"key"`
}

// AuthConfig controls bearer token auth on the document endpoints.
type AuthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// InboxConfig controls the watched drop directory.
type InboxConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Dir          string        `yaml:"dir"`
	NumSentences int           `yaml:"numSentences"`
	Debounce     time.Duration `yaml:"debounce"`
}

// Load reads an optional .env file, then configuration from a YAML file and
// environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	envInt64("HTTP_MAX_UPLOAD_BYTES", &cfg.HTTP.MaxUploadBytes)
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	envInt("SUMMARY_NUM_SENTENCES", &cfg.Summary.NumSentences)
	envInt("SUMMARY_MAX_SENTENCES", &cfg.Summary.MaxSentences)
	envInt("SUMMARY_MAX_KEYWORDS", &cfg.Summary.MaxKeywords)
	envDuration("SUMMARY_BUDGET", &cfg.Summary.Budget)
	if v := os.Getenv("SUMMARY_STOP_WORDS_FILE"); v != "" {
		cfg.Summary.StopWordsFile = v
	}
	envBool("SUMMARY_DETECT_LANGUAGE", &cfg.Summary.DetectLanguage)
	if v := os.Getenv("SUMMARY_LANGUAGES"); v != "" {
		cfg.Summary.Languages = splitList(v)
	}

	if v := os.Getenv("UPLOAD_FOLDER"); v != "" {
		cfg.Upload.Folder = v
	}
	if v := os.Getenv("UPLOAD_ALLOWED_EXTENSIONS"); v != "" {
		cfg.Upload.AllowedExtensions = splitList(v)
	}

	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Storage.R2.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Storage.R2.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Storage.R2.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Storage.R2.Bucket = v
	}
	if v := os.Getenv("R2_REGION"); v != "" {
		cfg.Storage.R2.Region = v
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	if v := os.Getenv("QUEUE_DRIVER"); v != "" {
		cfg.Queue.Driver = v
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Queue.ValkeyAddr = v
	}

	envBool("AUTH_ENABLED", &cfg.Auth.Enabled)
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Auth.Secret = v
	}
	envDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)

	envBool("INBOX_ENABLED", &cfg.Inbox.Enabled)
	if v := os.Getenv("INBOX_DIR"); v != "" {
		cfg.Inbox.Dir = v
		cfg.Inbox.Enabled = true
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envInt64(key string, dst *int64) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxUploadBytes: 20 << 20,
			AllowedOrigins: []string{"http://localhost:5173"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Summary: SummaryConfig{
			NumSentences:     3,
			MaxSentences:     50,
			MaxKeywords:      5,
			Budget:           10 * time.Second,
			DetectLanguage:   false,
			Languages:        []string{"en", "de", "fr", "es"},
			MaxPreviewChars:  500,
			DefaultListLimit: 50,
		},
		Upload: UploadConfig{
			Folder:            "uploads",
			AllowedExtensions: []string{"pdf", "txt", "md", "html", "htm", "docx"},
		},
		Storage: StorageConfig{
			Driver: "local",
			R2: R2Config{
				Region: "auto",
			},
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			MaxConns:   4,
			MinConns:   0,
			SQLitePath: "data/docsum.db",
		},
		Queue: QueueConfig{
			Driver: "immediate",
			Key:    "docsum:jobs",
		},
		Auth: AuthConfig{
			Enabled:  false,
			Issuer:   "docsum",
			TokenTTL: 24 * time.Hour,
		},
		Inbox: InboxConfig{
			Enabled:      false,
			Dir:          "inbox",
			NumSentences: 3,
			Debounce:     500 * time.Millisecond,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return errors.New("http.maxUploadBytes must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Summary.NumSentences <= 0 {
		return errors.New("summary.numSentences must be positive")
	}
	if c.Summary.MaxSentences < c.Summary.NumSentences {
		return errors.New("summary.maxSentences cannot be below summary.numSentences")
	}
	if c.Summary.MaxKeywords < 0 {
		return errors.New("summary.maxKeywords cannot be negative")
	}
	if c.Summary.Budget < 0 {
		return errors.New("summary.budget cannot be negative")
	}
	if c.Summary.DetectLanguage && len(c.Summary.Languages) < 2 {
		return errors.New("summary.languages needs at least two entries when detectLanguage is on")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return errors.New("upload.allowedExtensions cannot be empty")
	}
	switch c.Storage.Driver {
	case "memory":
	case "local":
		if strings.TrimSpace(c.Upload.Folder) == "" {
			return errors.New("upload.folder cannot be empty for local storage")
		}
	case "r2":
		if c.Storage.R2.Endpoint == "" || c.Storage.R2.Bucket == "" {
			return errors.New("storage.r2.endpoint and storage.r2.bucket are required for r2 storage")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Database.Driver {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return errors.New("database.sqlitePath cannot be empty for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	switch c.Queue.Driver {
	case "immediate":
	case "valkey":
		if strings.TrimSpace(c.Queue.ValkeyAddr) == "" {
			return errors.New("queue.valkeyAddr cannot be empty for valkey")
		}
	default:
		return fmt.Errorf("unknown queue.driver %q", c.Queue.Driver)
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty when auth is enabled")
	}
	if c.Inbox.Enabled && strings.TrimSpace(c.Inbox.Dir) == "" {
		return errors.New("inbox.dir cannot be empty when the inbox is enabled")
	}
	return nil
}
