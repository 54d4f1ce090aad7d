package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv       = "PH_IDEATOR_CONFIG"
	phClientIDEnv       = "PRODUCTHUNT_CLIENT_ID"
	phClientSecretEnv   = "PRODUCTHUNT_CLIENT_SECRET"
	openAIAPIKeyEnv     = "OPENAI_API_KEY"
	openAIModelEnv      = "OPENAI_MODEL"
	wordpressURLEnv     = "WORDPRESS_URL"
	wordpressUserEnv    = "WORDPRESS_USER"
	wordpressPassEnv    = "WORDPRESS_PASSWORD"
	databaseDSNEnv      = "DATABASE_DSN"
)

// Structured-output modes for the analysis stage.
const (
	OutputModeSchema = "schema"
	OutputModePrompt = "prompt"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	ProductHunt ProductHuntConfig `yaml:"producthunt"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	WordPress   WordPressConfig   `yaml:"wordpress"`
	Database    DatabaseConfig    `yaml:"database"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr assembles the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PipelineConfig tunes the daily workflow.
type PipelineConfig struct {
	// PostLimit is both the batch size and the per-stage worker count.
	PostLimit      int    `yaml:"postLimit"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	DataDir        string `yaml:"dataDir"`
	// StructuredOutput selects how the analysis stage obtains its shape:
	// "schema" for schema-constrained generation, "prompt" for prompted
	// JSON that gets parsed afterwards.
	StructuredOutput string `yaml:"structuredOutput"`
}

// Timeout resolves the configured run timeout; zero disables it.
func (p PipelineConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ProductHuntConfig wires the catalog API credentials and endpoints.
type ProductHuntConfig struct {
	TokenURL     string `yaml:"tokenUrl"`
	APIURL       string `yaml:"apiUrl"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// OpenAIConfig defines how to contact the chat-completions API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// WordPressConfig carries CMS publish settings.
type WordPressConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	CategoryID int    `yaml:"categoryId"`
}

// DatabaseConfig describes the optional Postgres run-history store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines the optional automatic daily trigger.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
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
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(phClientIDEnv); v != "" {
		c.ProductHunt.ClientID = v
	}
	if v := os.Getenv(phClientSecretEnv); v != "" {
		c.ProductHunt.ClientSecret = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(wordpressURLEnv); v != "" {
		c.WordPress.BaseURL = v
	}
	if v := os.Getenv(wordpressUserEnv); v != "" {
		c.WordPress.Username = v
	}
	if v := os.Getenv(wordpressPassEnv); v != "" {
		c.WordPress.Password = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Server.Host != "" {
		base.Server.Host = override.Server.Host
	}
	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}

	if override.Pipeline.PostLimit != 0 {
		base.Pipeline.PostLimit = override.Pipeline.PostLimit
	}
	if override.Pipeline.TimeoutSeconds != 0 {
		base.Pipeline.TimeoutSeconds = override.Pipeline.TimeoutSeconds
	}
	if override.Pipeline.DataDir != "" {
		base.Pipeline.DataDir = override.Pipeline.DataDir
	}
	if override.Pipeline.StructuredOutput != "" {
		base.Pipeline.StructuredOutput = override.Pipeline.StructuredOutput
	}

	if override.ProductHunt.TokenURL != "" {
		base.ProductHunt.TokenURL = override.ProductHunt.TokenURL
	}
	if override.ProductHunt.APIURL != "" {
		base.ProductHunt.APIURL = override.ProductHunt.APIURL
	}
	if override.ProductHunt.ClientID != "" {
		base.ProductHunt.ClientID = override.ProductHunt.ClientID
	}
	if override.ProductHunt.ClientSecret != "" {
		base.ProductHunt.ClientSecret = override.ProductHunt.ClientSecret
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.WordPress.BaseURL != "" {
		base.WordPress.BaseURL = override.WordPress.BaseURL
	}
	if override.WordPress.Username != "" {
		base.WordPress.Username = override.WordPress.Username
	}
	if override.WordPress.Password != "" {
		base.WordPress.Password = override.WordPress.Password
	}
	if override.WordPress.CategoryID != 0 {
		base.WordPress.CategoryID = override.WordPress.CategoryID
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8000},
		Pipeline: PipelineConfig{
			PostLimit:        3,
			TimeoutSeconds:   600,
			DataDir:          "data",
			StructuredOutput: OutputModeSchema,
		},
		ProductHunt: ProductHuntConfig{
			TokenURL: "https://api.producthunt.com/v2/oauth/token",
			APIURL:   "https://api.producthunt.com/v2/api/graphql",
		},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		WordPress: WordPressConfig{CategoryID: 337},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
