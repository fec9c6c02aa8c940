package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Cfg holds the configuration loaded by Load.
var Cfg Config

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8000"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, production

	DBDriver      string `env:"DB_DRIVER" envDefault:"mysql"` // mysql, postgres
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"3306"`
	DBDatabase    string `env:"DB_DATABASE" envDefault:"energy_center"`
	DBUsername    string `env:"DB_USERNAME" envDefault:"root"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	DebugSQL      bool   `env:"DEBUG_SQL" envDefault:"false"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text, json
	LogFile   string `env:"LOG_FILE" envDefault:"logs/energy-center.log"`

	// Brasília has no daylight saving; the facility clock is a fixed offset.
	FacilityUTCOffsetHours int    `env:"FACILITY_UTC_OFFSET_HOURS" envDefault:"-3"`
	DefaultStatusType      string `env:"DEFAULT_STATUS_TYPE" envDefault:"Todos"`
	HistoryPageSize        int    `env:"HISTORY_PAGE_SIZE" envDefault:"50"`

	SMTPHost          string   `env:"SMTP_HOST"`
	SMTPPort          int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser          string   `env:"SMTP_USER"`
	SMTPPass          string   `env:"SMTP_PASS"`
	SMTPFrom          string   `env:"SMTP_FROM"` // e.g. "Central de Energia <no-reply@your.org>"
	SMTPSkipTLSVerify bool     `env:"SMTP_SKIP_TLS_VERIFY" envDefault:"false"`
	AlertRecipients   []string `env:"ALERT_RECIPIENTS" envSeparator:","`

	ReportLinkSecret   string `env:"REPORT_LINK_SECRET"`
	ReportLinkTTLHours int    `env:"REPORT_LINK_TTL_HOURS" envDefault:"72"`

	LogsTokenHash string `env:"LOGS_TOKEN_HASH"`
}

// Load reads .env (when present) and the process environment into Cfg.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}
	cfg.normalize()

	Cfg = cfg
	return &Cfg
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.HistoryPageSize <= 0 {
		c.HistoryPageSize = 50
	}
	if c.ReportLinkTTLHours <= 0 {
		c.ReportLinkTTLHours = 72
	}

	recipients := make([]string, 0, len(c.AlertRecipients))
	for _, r := range c.AlertRecipients {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	c.AlertRecipients = recipients
}

// FacilityLocation is the fixed-offset zone every timestamp is stamped and shown in.
func (c *Config) FacilityLocation() *time.Location {
	return time.FixedZone("BRT", c.FacilityUTCOffsetHours*3600)
}

// ReportLinkTTL is how long a shared report link stays valid.
func (c *Config) ReportLinkTTL() time.Duration {
	return time.Duration(c.ReportLinkTTLHours) * time.Hour
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
