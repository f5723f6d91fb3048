package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notepid/pdf24/internal/document"
)

// Config holds both the client and the reference backend settings.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ClientConfig holds the terminal client settings.
type ClientConfig struct {
	APIURL         string        `yaml:"api_url"`
	Origin         string        `yaml:"origin"`
	UploadTimeout  time.Duration `yaml:"upload_timeout"`
	ListingTimeout time.Duration `yaml:"listing_timeout"`
	QuotaLabel     string        `yaml:"quota_label"`
	DefaultOrder   string        `yaml:"default_order"`
}

// ServerConfig holds the HTTP listener and upload policy.
type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	PublicURL      string   `yaml:"public_url"`
	DailyQuota     int      `yaml:"daily_quota"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	GinMode        string   `yaml:"gin_mode"`
}

// PathsConfig holds filesystem paths for data.
type PathsConfig struct {
	Data     string `yaml:"data"`
	Database string `yaml:"database"`
}

// StorageConfig selects where uploaded PDFs are kept.
type StorageConfig struct {
	Driver   string      `yaml:"driver"`
	LocalDir string      `yaml:"local_dir"`
	MinIO    MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LogConfig controls the zap logger and its rolling file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Origin:         "http://localhost:3000",
			UploadTimeout:  2 * time.Minute,
			ListingTimeout: 30 * time.Second,
			QuotaLabel:     "2 files/day",
			DefaultOrder:   string(document.Newest),
		},
		Server: ServerConfig{
			Listen:         ":8080",
			DailyQuota:     2,
			MaxUploadBytes: 50 * 1024 * 1024,
			AllowedOrigins: []string{"*"},
			GinMode:        "release",
		},
		Paths: PathsConfig{
			Data:     "./data",
			Database: "./data/pdf24.db",
		},
		Storage: StorageConfig{
			Driver:   "local",
			LocalDir: "./data/blobs",
			MinIO: MinIOConfig{
				Bucket: "pdf24",
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads and parses a YAML config file over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Client.APIURL = getEnv("PDF24_API_URL", c.Client.APIURL)
	c.Client.Origin = getEnv("PDF24_ORIGIN", c.Client.Origin)
	c.Client.DefaultOrder = getEnv("PDF24_DEFAULT_ORDER", c.Client.DefaultOrder)
	c.Server.Listen = getEnv("PDF24_LISTEN", c.Server.Listen)
	c.Server.PublicURL = getEnv("PDF24_PUBLIC_URL", c.Server.PublicURL)
	c.Server.DailyQuota = getEnvInt("PDF24_DAILY_QUOTA", c.Server.DailyQuota)
	c.Log.Level = getEnv("PDF24_LOG_LEVEL", c.Log.Level)
	c.Log.Path = getEnv("PDF24_LOG_PATH", c.Log.Path)

	c.Storage.Driver = getEnv("PDF24_STORAGE", c.Storage.Driver)
	c.Storage.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.MinIO.Endpoint)
	c.Storage.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.MinIO.AccessKey)
	c.Storage.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.MinIO.SecretKey)
	c.Storage.MinIO.Bucket = getEnv("MINIO_BUCKET", c.Storage.MinIO.Bucket)
	c.Storage.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.Storage.MinIO.UseSSL)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.Client.UploadTimeout < 0 || c.Client.ListingTimeout < 0 {
		errs = append(errs, errors.New("client timeouts must not be negative"))
	}
	if _, err := document.ParseSortOrder(c.Client.DefaultOrder); err != nil {
		errs = append(errs, fmt.Errorf("client.default_order: %w", err))
	}
	if c.Server.DailyQuota < 1 {
		errs = append(errs, fmt.Errorf("server.daily_quota must be at least 1, got %d", c.Server.DailyQuota))
	}
	if c.Server.MaxUploadBytes < 1 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "local":
	case "minio":
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			errs = append(errs, errors.New("storage.minio needs endpoint and bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
