package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SCREENER"

type Config struct {
	Debug    bool           `mapstructure:"debug"`
	JSON     bool           `mapstructure:"json"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	AI       AIConfig       `mapstructure:"ai"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ScraperConfig struct {
	UserAgent            string        `mapstructure:"user_agent"`
	Attempts             int           `mapstructure:"attempts"`
	RetryDelay           time.Duration `mapstructure:"retry_delay"`
	MinDescriptionLength int           `mapstructure:"min_description_length"`
	RespectRobots        bool          `mapstructure:"respect_robots"`
	// HostInterval paces requests to one host; zero disables pacing.
	HostInterval         time.Duration `mapstructure:"host_interval"`
}

type AIConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

type BatchConfig struct {
	// Interval is the pause between two job URLs.
	Interval time.Duration `mapstructure:"interval"`
	Output   string        `mapstructure:"output"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	// Retention is how long screenings are kept; zero keeps them forever.
	Retention         time.Duration `mapstructure:"retention"`
	RetentionInterval time.Duration `mapstructure:"retention_interval"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.attempts", 2)
	v.SetDefault("scraper.retry_delay", time.Second)
	v.SetDefault("scraper.min_description_length", 200)
	v.SetDefault("scraper.respect_robots", false)
	v.SetDefault("scraper.host_interval", time.Second)
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("batch.interval", time.Second)
	v.SetDefault("batch.output", "screening_results.csv")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.url", "")
	v.SetDefault("database.retention", 30*24*time.Hour)
	v.SetDefault("database.retention_interval", 24*time.Hour)
}

// Load reads configuration from, in increasing priority: defaults, the YAML
// file at path (optional), a .env file in the working directory and the
// environment. SCREENER_SCRAPER_ATTEMPTS overrides scraper.attempts; the
// conventional GEMINI_API_KEY, DATABASE_URL and PORT are honoured too.
func Load(v *viper.Viper, path string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"ai.api_key":   "GEMINI_API_KEY",
		"database.url": "DATABASE_URL",
		"server.port":  "PORT",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Scraper.Attempts < 1 {
		errs = append(errs, errors.New("scraper.attempts must be at least 1"))
	}
	if c.Scraper.RetryDelay < 0 {
		errs = append(errs, errors.New("scraper.retry_delay must not be negative"))
	}
	if c.Scraper.MinDescriptionLength < 0 {
		errs = append(errs, errors.New("scraper.min_description_length must not be negative"))
	}
	if c.Scraper.HostInterval < 0 {
		errs = append(errs, errors.New("scraper.host_interval must not be negative"))
	}
	if c.Batch.Interval < 0 {
		errs = append(errs, errors.New("batch.interval must not be negative"))
	}
	if c.Database.Retention < 0 {
		errs = append(errs, errors.New("database.retention must not be negative"))
	}
	if c.Database.Retention > 0 && c.Database.RetentionInterval <= 0 {
		errs = append(errs, errors.New("database.retention_interval must be positive when retention is enabled"))
	}
	return errors.Join(errs...)
}
