package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Pipeline.PostLimit != 3 {
		t.Fatalf("unexpected default post limit: %d", cfg.Pipeline.PostLimit)
	}
	if cfg.Pipeline.StructuredOutput != OutputModeSchema {
		t.Fatalf("unexpected default output mode: %q", cfg.Pipeline.StructuredOutput)
	}
	if cfg.Server.Addr() != "127.0.0.1:8000" {
		t.Fatalf("unexpected default listen address: %q", cfg.Server.Addr())
	}
	if cfg.WordPress.CategoryID != 337 {
		t.Fatalf("unexpected default category: %d", cfg.WordPress.CategoryID)
	}
	if cfg.Pipeline.Timeout().Seconds() != 600 {
		t.Fatalf("unexpected default timeout: %v", cfg.Pipeline.Timeout())
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected default timezone: %v", cfg.Scheduler.Location())
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("PRODUCTHUNT_CLIENT_ID", "id-from-env")
	t.Setenv("PRODUCTHUNT_CLIENT_SECRET", "secret-from-env")
	t.Setenv("OPENAI_API_KEY", "key-from-env")
	t.Setenv("WORDPRESS_URL", "https://cms.test")
	t.Setenv("DATABASE_DSN", "postgres://run-history")

	cfg := Load()

	if cfg.ProductHunt.ClientID != "id-from-env" || cfg.ProductHunt.ClientSecret != "secret-from-env" {
		t.Fatalf("catalog credentials not overridden: %+v", cfg.ProductHunt)
	}
	if cfg.OpenAI.APIKey != "key-from-env" {
		t.Fatalf("api key not overridden: %q", cfg.OpenAI.APIKey)
	}
	if cfg.WordPress.BaseURL != "https://cms.test" {
		t.Fatalf("cms url not overridden: %q", cfg.WordPress.BaseURL)
	}
	if cfg.Database.DSN != "postgres://run-history" {
		t.Fatalf("dsn not overridden: %q", cfg.Database.DSN)
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
logging:
  level: debug
pipeline:
  postLimit: 5
  structuredOutput: prompt
scheduler:
  cronExpression: "0 9 * * *"
  timezone: "Europe/Budapest"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("PH_IDEATOR_CONFIG", path)

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level not merged: %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.PostLimit != 5 {
		t.Fatalf("post limit not merged: %d", cfg.Pipeline.PostLimit)
	}
	if cfg.Pipeline.StructuredOutput != OutputModePrompt {
		t.Fatalf("output mode not merged: %q", cfg.Pipeline.StructuredOutput)
	}
	if cfg.Scheduler.CronExpression != "0 9 * * *" {
		t.Fatalf("cron expression not merged: %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "Europe/Budapest" {
		t.Fatalf("timezone not bound: %v", cfg.Scheduler.Location())
	}

	// Unset keys keep their defaults.
	if cfg.Server.Port != 8000 {
		t.Fatalf("server port lost its default: %d", cfg.Server.Port)
	}
	if cfg.WordPress.CategoryID != 337 {
		t.Fatalf("category lost its default: %d", cfg.WordPress.CategoryID)
	}
}

func TestLoadSurvivesBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml at all ["), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("PH_IDEATOR_CONFIG", path)

	cfg := Load()

	if cfg.Pipeline.PostLimit != 3 {
		t.Fatalf("expected defaults after a parse failure, got %+v", cfg.Pipeline)
	}
}
