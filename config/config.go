package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	City        string
	TargetCount int
	DataDir     string
	DBPath      string
	PostgresDSN string
	ProxyURL    string
	LogPath     string
	Scheduler   SchedulerConfig
	Forecast    ForecastConfig
	S3          S3Config
	Sites       map[string]*SiteConfig
}

type SchedulerConfig struct {
	Cron     string
	Interval time.Duration
}

type ForecastConfig struct {
	HorizonDays int
	SeriesDays  int
	Seed        uint64
	Interval    time.Duration
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
}

// SiteConfig describes one target site: where to fetch and how to pull
// fields out of a listing card. Loaded from config/sites/*.yaml.
type SiteConfig struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Fetcher     string    `yaml:"fetcher"` // http (default) or browser
	BaseURL     string    `yaml:"base_url"`
	SearchURL   string    `yaml:"search_url"` // expects city and page number
	DelayMinSec int       `yaml:"delay_min_sec"`
	DelayMaxSec int       `yaml:"delay_max_sec"`
	TimeoutSec  int       `yaml:"timeout_sec"`
	Selectors   Selectors `yaml:"selectors"`
}

// Selectors holds the per-field fallback chains, tried in order;
// the first selector yielding a non-empty value wins.
type Selectors struct {
	Card         string   `yaml:"card"`
	Link         []string `yaml:"link"`
	Locality     []string `yaml:"locality"`
	Title        []string `yaml:"title"`
	Price        []string `yaml:"price"`
	Area         []string `yaml:"area"`
	PricePerSqft []string `yaml:"price_per_sqft"`
}

// PageURL builds the search URL for the configured city and a page index.
func (s *SiteConfig) PageURL(city string, page int) string {
	return fmt.Sprintf(s.SearchURL, city, page)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		City:        getEnv("CITY", "Nagpur"),
		TargetCount: getEnvInt("TARGET_COUNT", 300),
		DataDir:     getEnv("DATA_DIR", "data"),
		DBPath:      getEnv("DB_PATH", "estatewatch.db"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		ProxyURL:    os.Getenv("PROXY_URL"),
		LogPath:     getEnv("LOG_PATH", "estatewatch.log"),
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		Forecast: ForecastConfig{
			HorizonDays: getEnvInt("FORECAST_HORIZON_DAYS", 90),
			SeriesDays:  getEnvInt("SERIES_DAYS", 120),
			Seed:        uint64(getEnvInt("SERIES_SEED", 0)),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "exports"),
		},
		Sites: make(map[string]*SiteConfig),
	}

	if v := os.Getenv("SCRAPE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scheduler.Interval = d
		}
	}
	if v := os.Getenv("FORECAST_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.Interval = d
		}
	}

	// Dashboard exposes 30-180 days; keep the backend inside the same range.
	if cfg.Forecast.HorizonDays < 30 {
		cfg.Forecast.HorizonDays = 30
	}
	if cfg.Forecast.HorizonDays > 180 {
		cfg.Forecast.HorizonDays = 180
	}

	if err := cfg.loadSiteConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSiteConfigs() error {
	configDir := "config/sites"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(configDir, entry.Name()))
		if err != nil {
			return err
		}

		var site SiteConfig
		if err := yaml.Unmarshal(data, &site); err != nil {
			return fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if site.DelayMinSec == 0 {
			site.DelayMinSec = 10
		}
		if site.DelayMaxSec < site.DelayMinSec {
			site.DelayMaxSec = site.DelayMinSec + 5
		}
		if site.TimeoutSec == 0 {
			site.TimeoutSec = 25
		}

		c.Sites[site.ID] = &site
	}

	return nil
}

// Paths of the CSV artifacts under DataDir.

func (c *Config) RawListingsPath() string {
	return filepath.Join(c.DataDir, "raw_listings.csv")
}

func (c *Config) LocalitySummaryPath() string {
	return filepath.Join(c.DataDir, "locality_summary.csv")
}

func (c *Config) LocalityStatsPath() string {
	return filepath.Join(c.DataDir, "locality_stats.csv")
}

func (c *Config) ForecastSummaryPath() string {
	return filepath.Join(c.DataDir, "forecast_summary.csv")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
