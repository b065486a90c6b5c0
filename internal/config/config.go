package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Resolver  ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Breaker   BreakerConfig   `yaml:"breaker" mapstructure:"breaker"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SerperConfig configures the Serper.dev search and places API.
type SerperConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
	Country   string  `yaml:"country" mapstructure:"country"`
}

// GoogleConfig configures the Google Places Text Search API.
type GoogleConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// AnthropicConfig configures the verification model.
type AnthropicConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Model        string `yaml:"model" mapstructure:"model"`
	MaxTokens    int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxPageChars int    `yaml:"max_page_chars" mapstructure:"max_page_chars"`
}

// JinaConfig configures the Jina Reader API used to fetch page text.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FirecrawlConfig configures the Firecrawl scrape API, the last fallback
// for pages that block direct fetches.
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig selects the places backend: "serper" or "google".
type SearchConfig struct {
	PlacesProvider string `yaml:"places_provider" mapstructure:"places_provider"`
}

// ResolverConfig holds waterfall thresholds and limits.
type ResolverConfig struct {
	AutoAcceptThreshold float64 `yaml:"auto_accept_threshold" mapstructure:"auto_accept_threshold"`
	NameMatchThreshold  float64 `yaml:"name_match_threshold" mapstructure:"name_match_threshold"`
	PhoneVerifiedScore  float64 `yaml:"phone_verified_score" mapstructure:"phone_verified_score"`
	KnowledgeGraphScore float64 `yaml:"knowledge_graph_score" mapstructure:"knowledge_graph_score"`
	MaxPlaces           int     `yaml:"max_places" mapstructure:"max_places"`
	MaxOrganic          int     `yaml:"max_organic" mapstructure:"max_organic"`
	SearchNum           int     `yaml:"search_num" mapstructure:"search_num"`
	PhoneDigits         int     `yaml:"phone_digits" mapstructure:"phone_digits"`
	StageTimeoutSecs    int     `yaml:"stage_timeout_secs" mapstructure:"stage_timeout_secs"`
	ListsFile           string  `yaml:"lists_file" mapstructure:"lists_file"`
}

// StageTimeout returns the per-stage deadline.
func (r ResolverConfig) StageTimeout() time.Duration {
	return time.Duration(r.StageTimeoutSecs) * time.Second
}

// ScorerConfig overrides scorer weights. Zero values keep the built-in weight.
type ScorerConfig struct {
	Domain           float64 `yaml:"domain" mapstructure:"domain"`
	Title            float64 `yaml:"title" mapstructure:"title"`
	Phone            float64 `yaml:"phone" mapstructure:"phone"`
	Context          float64 `yaml:"context" mapstructure:"context"`
	SnippetName      float64 `yaml:"snippet_name" mapstructure:"snippet_name"`
	NameOnlyCeiling  float64 `yaml:"name_only_ceiling" mapstructure:"name_only_ceiling"`
	MaxScore         float64 `yaml:"max_score" mapstructure:"max_score"`
	StrongSimilarity float64 `yaml:"strong_similarity" mapstructure:"strong_similarity"`
}

// RetryConfig configures retries of provider HTTP calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// BreakerConfig configures the per-provider circuit breaker.
type BreakerConfig struct {
	Threshold    int `yaml:"threshold" mapstructure:"threshold"`
	CooldownSecs int `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// BatchConfig configures batch resolution.
type BatchConfig struct {
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
}

// StoreConfig configures the result store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("serper.key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.rate_limit", 5.0)
	v.SetDefault("serper.burst", 5)
	v.SetDefault("serper.country", "us")
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.max_results", 5)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.max_page_chars", 12000)
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("firecrawl.key", "")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("search.places_provider", "serper")
	v.SetDefault("resolver.auto_accept_threshold", 85.0)
	v.SetDefault("resolver.name_match_threshold", 85.0)
	v.SetDefault("resolver.phone_verified_score", 75.0)
	v.SetDefault("resolver.knowledge_graph_score", 98.0)
	v.SetDefault("resolver.max_places", 3)
	v.SetDefault("resolver.max_organic", 5)
	v.SetDefault("resolver.search_num", 10)
	v.SetDefault("resolver.phone_digits", 4)
	v.SetDefault("resolver.stage_timeout_secs", 20)
	v.SetDefault("resolver.lists_file", "")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10000)
	v.SetDefault("breaker.threshold", 5)
	v.SetDefault("breaker.cooldown_secs", 30)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("batch.output_dir", ".")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "resolver.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the keys a command needs are present. Commands that
// only classify domains need nothing.
func (c *Config) Validate(command string) error {
	var missing []string
	needSearch := func() {
		if c.Serper.Key == "" {
			missing = append(missing, "serper.key")
		}
		if c.Search.PlacesProvider == "google" && c.Google.Key == "" {
			missing = append(missing, "google.key")
		}
	}

	switch command {
	case "resolve", "batch", "deeplink":
		needSearch()
	case "verify":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key")
		}
	case "serve":
		needSearch()
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key")
		}
	}

	switch c.Search.PlacesProvider {
	case "", "serper", "google":
	default:
		return eris.Errorf("config: unknown places provider %q", c.Search.PlacesProvider)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" && command == "batch" {
		missing = append(missing, "store.database_url")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: missing required keys for %s: %s", command, strings.Join(missing, ", "))
	}
	return nil
}

// Lists holds the injectable domain and word lists. A nil slice means the
// built-in default applies.
type Lists struct {
	Blacklist        []string `yaml:"blacklist"`
	StopWords        []string `yaml:"stop_words"`
	OversightDomains []string `yaml:"oversight_domains"`
	ParkingPhrases   []string `yaml:"parking_phrases"`
	ParkingHosts     []string `yaml:"parking_hosts"`
}

// LoadLists reads a YAML list file. An empty path yields empty Lists.
func LoadLists(path string) (*Lists, error) {
	if path == "" {
		return &Lists{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read lists file %s", path)
	}
	var l Lists
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, eris.Wrapf(err, "config: parse lists file %s", path)
	}
	return &l, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
