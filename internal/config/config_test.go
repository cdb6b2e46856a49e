// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import "testing"

// clearEnv blanks every variable Load reads. envOrDefault treats empty
// the same as unset, so this yields pure defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"BLOG_API_URL", "BLOG_AUTH_URL", "AI_SERVICE_URL",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "3000")
	check("Env", cfg.Env, "development")
	check("APIBaseURL", cfg.APIBaseURL, "http://localhost:8080/api")
	check("AIBaseURL", cfg.AIBaseURL, "http://localhost:8000")
	check("RedisHost", cfg.RedisHost, "localhost")
	check("RedisPort", cfg.RedisPort, "6379")

	if !cfg.IsDev() {
		t.Error("default environment should be development")
	}
	if cfg.Addr() != "0.0.0.0:3000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadDerivesAuthBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOG_API_URL", "https://blog.example.com/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.AuthBaseURL != "https://blog.example.com/auth" {
		t.Errorf("AuthBaseURL = %q, want derived /auth sibling", cfg.AuthBaseURL)
	}
}

func TestLoadExplicitAuthBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOG_API_URL", "https://blog.example.com/api")
	t.Setenv("BLOG_AUTH_URL", "https://auth.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.AuthBaseURL != "https://auth.example.com" {
		t.Errorf("AuthBaseURL = %q, want the explicit value", cfg.AuthBaseURL)
	}
}

func TestLoadProductionRequiresAPIURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("expected an error when BLOG_API_URL is unset in production")
	}
}

func TestLoadProductionWithAPIURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("BLOG_API_URL", "https://blog.example.com/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production must not report development mode")
	}
}
