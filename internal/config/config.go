package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "ASSET_RADAR_CONFIG"
	outputDirEnv     = "ASSET_RADAR_OUTPUT_DIR"
	logLevelEnv      = "ASSET_RADAR_LOG_LEVEL"
	archiveDSNEnv    = "ARCHIVE_DSN"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Output        OutputConfig       `yaml:"output"`
	Window        WindowConfig       `yaml:"window"`
	Fetch         FetchConfig        `yaml:"fetch"`
	Bounds        BoundsConfig       `yaml:"bounds"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Datasets      []DatasetConfig    `yaml:"datasets"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OutputConfig names where artifacts land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// WindowConfig sets the rolling recency window. Months are approximated
// as 30 days each when computing the cutoff.
type WindowConfig struct {
	Months int `yaml:"months"`
}

// FetchConfig tunes pagination, retries and politeness toward the shared
// public service.
type FetchConfig struct {
	PageSize      int           `yaml:"pageSize"`
	MaxRecords    int           `yaml:"maxRecords"`
	MaxRetries    int           `yaml:"maxRetries"`
	RetryDelay    time.Duration `yaml:"retryDelay"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"ratePerSecond"`
	Burst         int           `yaml:"burst"`
}

// BoundsConfig is the coarse geographic sanity rectangle; defaults cover
// roughly Ontario.
type BoundsConfig struct {
	MinLat float64 `yaml:"minLat"`
	MaxLat float64 `yaml:"maxLat"`
	MinLng float64 `yaml:"minLng"`
	MaxLng float64 `yaml:"maxLng"`
}

// ArchiveConfig describes the optional Postgres run archive.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig enables recurring runs; zero interval means one-shot.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// DatasetConfig describes one upstream theft dataset.
type DatasetConfig struct {
	Category string `yaml:"category"`
	Endpoint string `yaml:"endpoint"`
	Filename string `yaml:"filename"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Datasets) == 0 {
		cfg.Datasets = defaultConfig().Datasets
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(archiveDSNEnv); v != "" {
		c.Archive.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Output.Dir != "" {
		base.Output = override.Output
	}

	if override.Window.Months > 0 {
		base.Window = override.Window
	}

	if override.Fetch.PageSize > 0 {
		base.Fetch.PageSize = override.Fetch.PageSize
	}
	if override.Fetch.MaxRecords > 0 {
		base.Fetch.MaxRecords = override.Fetch.MaxRecords
	}
	if override.Fetch.MaxRetries > 0 {
		base.Fetch.MaxRetries = override.Fetch.MaxRetries
	}
	if override.Fetch.RetryDelay > 0 {
		base.Fetch.RetryDelay = override.Fetch.RetryDelay
	}
	if override.Fetch.Timeout > 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.RatePerSecond > 0 {
		base.Fetch.RatePerSecond = override.Fetch.RatePerSecond
	}
	if override.Fetch.Burst > 0 {
		base.Fetch.Burst = override.Fetch.Burst
	}

	if override.Bounds != (BoundsConfig{}) {
		base.Bounds = override.Bounds
	}

	if override.Archive.DSN != "" {
		base.Archive = override.Archive
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler = override.Scheduler
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Datasets) > 0 {
		base.Datasets = override.Datasets
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Output:  OutputConfig{Dir: "public/data"},
		Window:  WindowConfig{Months: 6},
		Fetch: FetchConfig{
			PageSize:      2000,
			MaxRecords:    100_000,
			MaxRetries:    3,
			RetryDelay:    5 * time.Second,
			Timeout:       60 * time.Second,
			RatePerSecond: 4,
			Burst:         2,
		},
		Bounds: BoundsConfig{MinLat: 41, MaxLat: 57, MinLng: -95, MaxLng: -73},
		Datasets: []DatasetConfig{
			{
				Category: "auto",
				Endpoint: "https://services.arcgis.com/S9th0jAJ7bqgIRjw/arcgis/rest/services/Auto_Theft_Open_Data/FeatureServer/0/query",
				Filename: "auto_thefts.json",
			},
			{
				Category: "bike",
				Endpoint: "https://services.arcgis.com/S9th0jAJ7bqgIRjw/arcgis/rest/services/Bicycle_Thefts_Open_Data/FeatureServer/0/query",
				Filename: "bike_thefts.json",
			},
		},
	}
}
