package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed source
	FeedURL    string `long:"feed-url" env:"FEED_URL" description:"URL of the remote feed (required)"`
	FeedFormat string `long:"feed-format" env:"FEED_FORMAT" default:"json" choice:"json" choice:"syndication" description:"Remote feed format: json items list or RSS/Atom/JSON Feed"`

	// Storage
	DBPath    string        `long:"db-path" env:"DB_PATH" default:"./feed-cache.db" description:"SQLite database file"`
	RedisAddr string        `long:"redis-addr" env:"REDIS_ADDR" description:"Store image data in Redis at this address instead of SQLite (optional)"`
	ImageTTL  time.Duration `long:"image-ttl" env:"IMAGE_TTL" default:"0s" description:"Expiry of image data in Redis, 0 keeps it forever"`

	// Application configuration
	Port             string        `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl          string        `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://feeds.example.com)"`
	HTTPTimeout      time.Duration `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30s" description:"Timeout for remote feed and image requests"`
	RefreshInterval  time.Duration `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"15m" description:"How often the feed is reloaded in the background, 0 disables"`
	ValidateInterval time.Duration `long:"validate-interval" env:"VALIDATE_INTERVAL" default:"1h" description:"How often the feed cache is validated, 0 disables"`
	WorkerCount      int           `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	APIAccessKey     string        `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent  string `long:"user-agent" env:"USER_AGENT" default:"Feed Cache/1.0" description:"User agent string for HTTP requests"`
	ConfigFile string `long:"config" env:"CONFIG_FILE" description:"YAML file with option values, keyed by long option name (optional)"`
	Timezone   string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load reads flags, environment and the optional YAML file, in that order of
// precedence. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	cfg, err := loadFrom(os.Args[1:])
	if err != nil || cfg == nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func loadFrom(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.ConfigFile != "" {
		if err := applyConfigFile(parser, raw.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	return &Cfg{
		FeedURL:          raw.FeedURL,
		FeedFormat:       raw.FeedFormat,
		DBPath:           raw.DBPath,
		RedisAddr:        raw.RedisAddr,
		ImageTTL:         raw.ImageTTL,
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		HTTPTimeout:      raw.HTTPTimeout,
		RefreshInterval:  raw.RefreshInterval,
		ValidateInterval: raw.ValidateInterval,
		WorkerCount:      raw.WorkerCount,
		APIAccessKey:     raw.APIAccessKey,
		UserAgent:        raw.UserAgent,
		ConfigFile:       raw.ConfigFile,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}, nil
}

// applyConfigFile sets every option found in the YAML file unless the option
// was already given on the command line or through its environment variable.
func applyConfigFile(parser *flags.Parser, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for name, value := range values {
		option := parser.FindOptionByLongName(name)
		if option == nil {
			return fmt.Errorf("unknown option %q in config file %s", name, path)
		}
		if name == "config" || isExplicit(option) {
			continue
		}

		literal := fmt.Sprint(value)
		if err := option.Set(&literal); err != nil {
			return fmt.Errorf("invalid value for %q in config file %s: %w", name, path, err)
		}
	}

	return nil
}

func isExplicit(option *flags.Option) bool {
	if option.IsSet() && !option.IsSetDefault() {
		return true
	}
	if key := option.EnvKeyWithNamespace(); key != "" {
		if _, ok := os.LookupEnv(key); ok {
			return true
		}
	}
	return false
}

func validate(raw *rawCfg) error {
	if raw.FeedURL == "" {
		return errors.New("feed URL is required (--feed-url or FEED_URL)")
	}

	u, err := url.Parse(raw.FeedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid feed URL %q", raw.FeedURL)
	}

	if raw.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", raw.HTTPTimeout)
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}
