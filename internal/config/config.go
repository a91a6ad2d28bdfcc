package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config drives the whole site: HTTP serving, the record-store client,
// the configuration-driven UI (navigation, footer, pricing, FAQ), feeds,
// job alerts, and the optional Redis rate limiter.
type Config struct {
	Addr            string        `yaml:"addr"`
	APITimeout      time.Duration `yaml:"timeout"`
	RevalidateEvery time.Duration `yaml:"revalidate_every"`

	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Badge       string `yaml:"badge"`
	URL         string `yaml:"url"`

	Nav       NavConfig       `yaml:"nav"`
	Footer    FooterConfig    `yaml:"footer"`
	Pricing   PricingConfig   `yaml:"pricing"`
	FAQ       FAQConfig       `yaml:"faq"`
	Feeds     FeedConfig      `yaml:"feeds"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Store     StoreConfig     `yaml:"store"`
}

type NavItem struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type NavConfig struct {
	Title   string    `yaml:"title"`
	Items   []NavItem `yaml:"items"`
	Socials []NavItem `yaml:"socials"`
}

type FooterColumn struct {
	Title string    `yaml:"title"`
	Links []NavItem `yaml:"links"`
}

type FooterConfig struct {
	Columns   []FooterColumn `yaml:"columns"`
	Copyright string         `yaml:"copyright"`
}

type Plan struct {
	Name        string   `yaml:"name"`
	Price       float64  `yaml:"price"`
	BillingTerm string   `yaml:"billing_term"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	CTALabel    string   `yaml:"cta_label"`
	CTAURL      string   `yaml:"cta_url"`
	Badge       string   `yaml:"badge,omitempty"`
	Highlighted bool     `yaml:"highlighted"`
}

type PricingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Plans       []Plan `yaml:"plans"`
}

type FAQItem struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	// Markdown answers are rendered as rich text.
	RichText bool `yaml:"rich_text"`
}

type FAQCategory struct {
	Title string    `yaml:"title"`
	Items []FAQItem `yaml:"items"`
}

type FAQConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Categories  []FAQCategory `yaml:"categories"`
}

type FeedConfig struct {
	Enabled           bool   `yaml:"enabled"`
	RSS               bool   `yaml:"rss"`
	Atom              bool   `yaml:"atom"`
	JSON              bool   `yaml:"json"`
	Title             string `yaml:"title"`
	DescriptionLength int    `yaml:"description_length"`
}

type AlertsConfig struct {
	Enabled     bool          `yaml:"enabled"`
	ProviderURL string        `yaml:"provider_url"`
	APIKey      string        `yaml:"api_key"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

type RateLimitConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	Limit     int           `yaml:"limit"`
	Window    time.Duration `yaml:"window"`
}

// StoreConfig configures the external record-store client.
type StoreConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Token                   string        `yaml:"token"`
	BaseID                  string        `yaml:"base_id"`
	Table                   string        `yaml:"table"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

// Configured reports whether the store client has enough to talk to the
// external service. An unconfigured store is not an error; the site
// serves with empty data.
func (s StoreConfig) Configured() bool {
	return s.Token != "" && s.BaseID != ""
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:            getEnv("WORKDECK_ADDR", ":8080"),
		APITimeout:      15 * time.Second,
		RevalidateEvery: 5 * time.Minute,
		Title:           "Workdeck",
		Description:     "Discover and apply to your dream jobs today.",
		URL:             getEnv("WORKDECK_URL", "http://localhost:8080"),
		Feeds: FeedConfig{
			Enabled:           true,
			RSS:               true,
			Atom:              true,
			JSON:              true,
			DescriptionLength: 500,
		},
		Alerts: AlertsConfig{
			JWTSecret: getEnv("WORKDECK_ALERTS_SECRET", "supersecretkey"),
			TokenTTL:  30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RedisAddr: getEnv("WORKDECK_REDIS_ADDR", ""),
			Limit:     10,
			Window:    time.Minute,
		},
		Store: StoreConfig{
			BaseURL:                 getEnv("WORKDECK_STORE_URL", "https://api.airtable.com"),
			Token:                   getEnv("WORKDECK_STORE_TOKEN", ""),
			BaseID:                  getEnv("WORKDECK_STORE_BASE", ""),
			Table:                   getEnv("WORKDECK_STORE_TABLE", "Jobs"),
			Timeout:                 10 * time.Second,
			Retries:                 2,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that are unsafe to serve with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RevalidateEvery <= 0 {
		return fmt.Errorf("revalidate_every must be positive")
	}
	if c.Feeds.DescriptionLength < 0 {
		return fmt.Errorf("feeds.description_length must not be negative")
	}
	if c.Alerts.Enabled {
		if c.Alerts.ProviderURL == "" {
			return fmt.Errorf("alerts.provider_url is required when alerts are enabled")
		}
		if c.Alerts.JWTSecret == "supersecretkey" && os.Getenv("WORKDECK_ENV") != "development" {
			return fmt.Errorf("alerts.jwt_secret must be changed outside development")
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
