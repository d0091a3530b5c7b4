package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("RATE_LIMIT_SEARCH_RPS", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local object store, got %q", cfg.ObjectStoreType)
	}
	if cfg.SearchRateLimit != 5 {
		t.Fatalf("expected default search rate 5, got %v", cfg.SearchRateLimit)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev to be dev-like")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_SEARCH_BURST", "not-a-number")
	t.Setenv("CATALOG_SEED_FILE", "catalog.yaml")

	cfg := Load()
	if cfg.Env != "production" || cfg.IsDevLike() {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.SearchRateBurst != 20 {
		t.Fatalf("expected invalid burst to fall back to 20, got %d", cfg.SearchRateBurst)
	}
	if cfg.CatalogSeedFile != "catalog.yaml" {
		t.Fatalf("expected catalog seed file, got %q", cfg.CatalogSeedFile)
	}
}

func TestLoadEnvFilesSetsValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTREATMENT_TEST_KEY=\"hello\"\nBROKEN_LINE\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TREATMENT_TEST_KEY", "")

	loadEnvFiles(path)
	if got := os.Getenv("TREATMENT_TEST_KEY"); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestLoadEnvFilesKeepsProcessValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "export TREATMENT_TEST_REGION='eu-west-1'\nTREATMENT_TEST_PORT=9090\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TREATMENT_TEST_REGION", "")
	t.Setenv("TREATMENT_TEST_PORT", "8081")

	loadEnvFiles(path)
	if got := os.Getenv("TREATMENT_TEST_REGION"); got != "eu-west-1" {
		t.Fatalf("expected exported single-quoted value, got %q", got)
	}
	if got := os.Getenv("TREATMENT_TEST_PORT"); got != "8081" {
		t.Fatalf("expected process value to win, got %q", got)
	}
}
