package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "LEADGEN_CONFIG"
	databaseURLEnv  = "DATABASE_URL"
	amqpURLEnv      = "AMQP_URL"
	serpAPIKeyEnv   = "SERPAPI_KEY"
	smtpHostEnv     = "SMTP_HOST"
	smtpPortEnv     = "SMTP_PORT"
	smtpUserEnv     = "SMTP_USER"
	smtpPassEnv     = "SMTP_PASS"
	smtpFromEnv     = "SMTP_FROM"
	smtpRateEnv     = "SMTP_RATE_PER_MIN"
	listenAddrEnv   = "LISTEN_ADDR"
)

// Config holds all settings required across the application.
type Config struct {
	ListenAddr string         `yaml:"listenAddr"`
	Database   DatabaseConfig `yaml:"database"`
	AMQP       AMQPConfig     `yaml:"amqp"`
	SMTP       SMTPConfig     `yaml:"smtp"`
	Places     PlacesConfig   `yaml:"places"`
	Dispatch   DispatchConfig `yaml:"dispatch"`
	Filters    FilterConfig   `yaml:"filters"`
	Scoring    Scoring        `yaml:"scoring"`
	Outreach   OutreachConfig `yaml:"outreach"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AMQPConfig struct {
	URL string `yaml:"url"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

// Configured reports whether an SMTP transport can be built at all.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != "" && s.From != ""
}

type PlacesConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

type DispatchConfig struct {
	RatePerMinute  int           `yaml:"ratePerMinute"`
	SendTimeout    time.Duration `yaml:"sendTimeout"`
}

// FilterConfig restricts ingestion; an empty list admits everything.
type FilterConfig struct {
	Niches    []string `yaml:"niches"`
	Platforms []string `yaml:"platforms"`
}

// Scoring is the explicit configuration value passed into the scorer and
// the qualification pass. No process-wide mutable state.
type Scoring struct {
	NicheWeights    map[string]int `yaml:"nicheWeights"`
	PlatformWeights map[string]int `yaml:"platformWeights"`

	// Bonus when the contact string matches the expected shape for the
	// lead's platform. Exactly one entry applies per lead.
	ContactBonuses map[string]int `yaml:"contactBonuses"`

	VisualNiches     []string `yaml:"visualNiches"`
	VisualNicheBonus int      `yaml:"visualNicheBonus"`

	MinRating   float64 `yaml:"minRating"`
	MinReviews  int     `yaml:"minReviews"`
	RatingBonus int     `yaml:"ratingBonus"`
	ReviewBonus int     `yaml:"reviewBonus"`

	WebsiteBonus int `yaml:"websiteBonus"`
	EmailBonus   int `yaml:"emailBonus"`

	MinScore int `yaml:"minScore"`
}

// OutreachConfig feeds the template renderer.
type OutreachConfig struct {
	Brand        string            `yaml:"brand"`
	City         string            `yaml:"city"`
	Offer        string            `yaml:"offer"`
	Fallback     string            `yaml:"fallback"`
	Observations map[string]string `yaml:"observations"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(amqpURLEnv); v != "" {
		c.AMQP.URL = v
	}
	if v := os.Getenv(serpAPIKeyEnv); v != "" {
		c.Places.APIKey = v
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv(smtpPassEnv); v != "" {
		c.SMTP.Pass = v
	}
	if v := os.Getenv(smtpFromEnv); v != "" {
		c.SMTP.From = v
	}
	if v := os.Getenv(smtpRateEnv); v != "" {
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			c.Dispatch.RatePerMinute = rate
		}
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.ListenAddr = v
	}
}

// applyDefaults backfills only the structural settings that must never be
// empty. Scoring and outreach values are presence-based: the YAML document
// is decoded over defaultConfig(), so an explicit zero in the file stays a
// zero and only absent keys keep their defaults.
func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = def.SMTP.Port
	}
	if c.Places.BaseURL == "" {
		c.Places.BaseURL = def.Places.BaseURL
	}
	if c.Dispatch.RatePerMinute <= 0 {
		c.Dispatch.RatePerMinute = def.Dispatch.RatePerMinute
	}
	if c.Dispatch.SendTimeout <= 0 {
		c.Dispatch.SendTimeout = def.Dispatch.SendTimeout
	}
}

func defaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		SMTP: SMTPConfig{
			Port: 587,
		},
		Places: PlacesConfig{
			BaseURL: "https://serpapi.com",
		},
		Dispatch: DispatchConfig{
			RatePerMinute: 20,
			SendTimeout:   30 * time.Second,
		},
		Scoring: Scoring{
			NicheWeights: map[string]int{
				"real estate": 3,
				"restaurant":  2,
				"gym":         2,
				"clinic":      3,
				"auto":        2,
				"salon":       2,
				"cafe":        2,
			},
			PlatformWeights: map[string]int{
				"email":     3,
				"whatsapp":  3,
				"instagram": 2,
				"linkedin":  2,
			},
			ContactBonuses: map[string]int{
				"email":     2,
				"whatsapp":  2,
				"instagram": 1,
				"linkedin":  1,
			},
			VisualNiches: []string{
				"real estate", "restaurant", "clinic", "auto", "salon", "gym", "cafe",
			},
			VisualNicheBonus: 1,
			MinRating:        3.8,
			MinReviews:       5,
			RatingBonus:      2,
			ReviewBonus:      1,
			WebsiteBonus:     1,
			EmailBonus:       2,
			MinScore:         5,
		},
		Outreach: OutreachConfig{
			Brand:    "DXB Edits",
			City:     "Dubai, UAE",
			Offer:    "Short-form edits + captions in 48h, 3x hooks per video, and platform-native formats (Reels/TikTok/Shorts).",
			Fallback: "there",
			Observations: map[string]string{
				"real estate": "property reels are exploding: agents winning use 4-7s hooks and subtitles",
				"restaurant":  "food reels perform best with overhead shots and on-screen prices",
				"gym":         "fitness content with timer overlays and form tips drives saves",
				"clinic":      "before/after edits with compliant captions convert for clinics",
				"auto":        "showroom walkarounds with spec popups perform well",
			},
		},
	}
}
