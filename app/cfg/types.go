package cfg

import "time"

type Cfg struct {
	// Feed source
	FeedURL    string
	FeedFormat string

	// Storage
	DBPath    string
	RedisAddr string
	ImageTTL  time.Duration

	// Application configuration
	Port             string
	BaseUrl          string
	HTTPTimeout      time.Duration
	RefreshInterval  time.Duration
	ValidateInterval time.Duration
	WorkerCount      int
	APIAccessKey     string

	// Application metadata
	UserAgent  string
	ConfigFile string
	Timezone   string
	Debug      bool
	Version    string
}

const (
	FeedFormatJSON        = "json"
	FeedFormatSyndication = "syndication"
)
