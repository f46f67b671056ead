package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogSQL      = "sql"
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Session struct {
		SigningKey string        `yaml:"signing_key"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"session"`
	Catalog struct {
		Source string `yaml:"source"`
		Path   string `yaml:"path"`
		Strict bool   `yaml:"strict"`
	} `yaml:"catalog"`
	Listing struct {
		MinPrice     float64 `yaml:"min_price"`
		MaxPrice     float64 `yaml:"max_price"`
		DefaultSort  string  `yaml:"default_sort"`
		DefaultLimit int     `yaml:"default_limit"`
		MaxLimit     int     `yaml:"max_limit"`
	} `yaml:"listing"`
	Media struct {
		BaseURL    string        `yaml:"base_url"`
		S3Bucket   string        `yaml:"s3_bucket"`
		S3Endpoint string        `yaml:"s3_endpoint"`
		S3Region   string        `yaml:"s3_region"`
		AccessKey  string        `yaml:"access_key"`
		SecretKey  string        `yaml:"secret_key"`
		URLExpiry  time.Duration `yaml:"url_expiry"`
	} `yaml:"media"`
	Signup struct {
		RatePerMinute int           `yaml:"rate_per_minute"`
		Burst         int           `yaml:"burst"`
		DraftTTL      time.Duration `yaml:"draft_ttl"`
		BcryptCost    int           `yaml:"bcrypt_cost"`
	} `yaml:"signup"`
	Site struct {
		Brand       string `yaml:"brand"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"site"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Server.Address = ":4000"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Database.Driver = "mysql"
	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.Catalog.Source = CatalogEmbedded
	cfg.Listing.MinPrice = 0
	cfg.Listing.MaxPrice = 10000
	cfg.Listing.DefaultSort = "rating"
	cfg.Listing.MaxLimit = 50
	cfg.Media.S3Region = "us-east-1"
	cfg.Media.URLExpiry = 15 * time.Minute
	cfg.Signup.RatePerMinute = 30
	cfg.Signup.Burst = 10
	cfg.Signup.DraftTTL = time.Hour
	cfg.Site.Brand = "EngineerMarketplace"
	cfg.Site.Title = "EngineerMarketplace - Professional Engineering Services"
	cfg.Site.Description = "Find and hire verified professional engineers for your projects. Structural, mechanical, electrical, and civil engineering services."
	cfg.Site.BaseURL = "https://engineermarketplace.com"
	cfg.LogLevel = "info"
	return cfg
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	if port := getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Address = ":" + port
	}
	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	str("DATABASE_DRIVER", &c.Database.Driver)
	str("DATABASE_URL", &c.Database.URL)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("SESSION_SIGNING_KEY", &c.Session.SigningKey)
	str("CATALOG_SOURCE", &c.Catalog.Source)
	if path := getenv("CATALOG_PATH"); path != "" {
		c.Catalog.Path = path
		if getenv("CATALOG_SOURCE") == "" {
			c.Catalog.Source = CatalogFile
		}
	}
	str("MEDIA_BASE_URL", &c.Media.BaseURL)
	str("S3_BUCKET", &c.Media.S3Bucket)
	str("S3_ENDPOINT", &c.Media.S3Endpoint)
	str("S3_REGION", &c.Media.S3Region)
	str("S3_ACCESS_KEY", &c.Media.AccessKey)
	str("S3_SECRET_KEY", &c.Media.SecretKey)
	str("LOG_LEVEL", &c.LogLevel)
	return nil
}

func (c Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogEmbedded:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return errors.New("config: catalog.path is required for the file source")
		}
	case CatalogSQL:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for the sql source")
		}
	default:
		return fmt.Errorf("config: unknown catalog source %q", c.Catalog.Source)
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: session.ttl must be positive")
	}
	if c.Signup.DraftTTL <= 0 {
		return errors.New("config: signup.draft_ttl must be positive")
	}
	if c.Listing.MaxPrice < c.Listing.MinPrice {
		return errors.New("config: listing.max_price is below listing.min_price")
	}
	if c.Listing.MaxLimit < 0 || c.Listing.DefaultLimit < 0 {
		return errors.New("config: listing limits must not be negative")
	}
	if c.Signup.RatePerMinute < 0 {
		return errors.New("config: signup.rate_per_minute must not be negative")
	}
	return nil
}
