// Package config loads service configuration from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderVision = "vision"
	ProviderGemini = "gemini"
)

// Config is the full service configuration.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	OCR struct {
		Provider        string        `yaml:"provider"`
		CredentialsFile string        `yaml:"credentials_file"`
		GeminiAPIKey    string        `yaml:"gemini_api_key"`
		GeminiModel     string        `yaml:"gemini_model"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"ocr"`

	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	Cache struct {
		RedisURL string        `yaml:"redis_url"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	DatabaseURL string `yaml:"database_url"`

	Share struct {
		TokenSecret   string `yaml:"token_secret"`
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"share"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.HTTPAddr = ":8080"
	c.OCR.Provider = ProviderVision
	c.OCR.Timeout = 30 * time.Second
	c.MaxUploadBytes = 10 << 20
	c.Cache.TTL = 24 * time.Hour
	c.Share.PublicBaseURL = "http://localhost:8080"
	c.CORSAllowedOrigins = []string{"*"}
	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

// Load builds a Config. path may be empty, in which case only defaults and
// environment apply. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("OCR_PROVIDER", &c.OCR.Provider)
	str("GOOGLE_APPLICATION_CREDENTIALS", &c.OCR.CredentialsFile)
	str("GEMINI_API_KEY", &c.OCR.GeminiAPIKey)
	str("GEMINI_MODEL", &c.OCR.GeminiModel)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("DATABASE_URL", &c.DatabaseURL)
	str("SHARE_TOKEN_SECRET", &c.Share.TokenSecret)
	str("PUBLIC_BASE_URL", &c.Share.PublicBaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if err := dur("OCR_TIMEOUT", &c.OCR.Timeout); err != nil {
		return err
	}
	if err := dur("OCR_CACHE_TTL", &c.Cache.TTL); err != nil {
		return err
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSAllowedOrigins = origins
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.OCR.Provider {
	case ProviderVision:
	case ProviderGemini:
		if c.OCR.GeminiAPIKey == "" {
			return fmt.Errorf("OCR_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCR.Provider)
	}
	if c.OCR.Timeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
