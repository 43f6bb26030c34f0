package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tnav_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %q", cfg.Env)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.QuestionsFile != "data/questions.json" {
		t.Errorf("unexpected questions file: %q", cfg.QuestionsFile)
	}
	if cfg.CentersFile != "data/transplant_centers.json" {
		t.Errorf("unexpected centers file: %q", cfg.CentersFile)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("unexpected default model: %q", cfg.OpenAIModel)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tnav_test")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://app.example.com" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestResolvedAuthMode(t *testing.T) {
	cases := []struct {
		name string
		env  string
		mode string
		want string
	}{
		{"dev inferred", "development", "", "development"},
		{"prod inferred", "production", "", "jwt"},
		{"explicit wins", "development", "jwt", "jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Config{Env: tc.env, AuthMode: tc.mode}
			if got := c.ResolvedAuthMode(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dev := &Config{Env: "development"}
	if err := dev.Validate(); err != nil {
		t.Errorf("development mode should not require a secret: %v", err)
	}

	noSecret := &Config{Env: "production"}
	if err := noSecret.Validate(); err == nil {
		t.Error("jwt mode without JWT_SECRET should fail")
	}

	short := &Config{Env: "production", JWTSecret: "short"}
	err := short.Validate()
	if err == nil {
		t.Fatal("short production secret should fail")
	}
	if !strings.Contains(err.Error(), "32 bytes") {
		t.Errorf("unexpected error: %v", err)
	}

	ok := &Config{Env: "production", JWTSecret: strings.Repeat("s", 32)}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid production config rejected: %v", err)
	}

	bad := &Config{Env: "production", AuthMode: "none"}
	if err := bad.Validate(); err == nil {
		t.Error("unknown auth mode should fail")
	}
}

func TestAIEnabled(t *testing.T) {
	if (&Config{}).AIEnabled() {
		t.Error("AI should be disabled without an API key")
	}
	if !(&Config{OpenAIAPIKey: "sk-test"}).AIEnabled() {
		t.Error("AI should be enabled with an API key")
	}
}
