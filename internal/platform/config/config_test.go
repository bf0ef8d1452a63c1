package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Server.Port)
	}
	if cfg.RemoteStore.Timeout != defaultStoreTimeout {
		t.Fatalf("expected default store timeout, got %v", cfg.RemoteStore.Timeout)
	}
	if cfg.Locale.Default != "en" {
		t.Fatalf("expected default locale en, got %s", cfg.Locale.Default)
	}
	if len(cfg.Locale.Supported) != len(defaultSupportedLocales) {
		t.Fatalf("expected %d supported locales, got %d", len(defaultSupportedLocales), len(cfg.Locale.Supported))
	}
	if cfg.Idempotency.Header != defaultIdempotencyHeader {
		t.Fatalf("expected default idempotency header, got %s", cfg.Idempotency.Header)
	}
}

func TestLoadReadsEnvMapWithHighestPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "API_PORT=9000\nAPI_STORE_ENDPOINT=https://dotenv.example.com\nAPI_STORE_KEY=dotenv-key\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(envFile),
		WithEnvMap(map[string]string{
			"API_PORT":              "9100",
			"API_ADMIN_PINS":        "sokha=4821,dara=9377",
			"API_ADMIN_SESSION_TTL": "30m",
			// Session secret required once PINs are configured.
			"API_ADMIN_SESSION_SECRET": "s3cret",
			"API_LOCALE_SUPPORTED":     "en, km ,fr",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9100" {
		t.Fatalf("expected env map to win, got port %s", cfg.Server.Port)
	}
	if cfg.RemoteStore.EndpointURL != "https://dotenv.example.com" {
		t.Fatalf("expected dotenv endpoint, got %s", cfg.RemoteStore.EndpointURL)
	}
	if cfg.Admin.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %v", cfg.Admin.SessionTTL)
	}
	if len(cfg.Admin.PINs) != 2 || cfg.Admin.PINs["sokha"] != "4821" {
		t.Fatalf("unexpected pins %v", cfg.Admin.PINs)
	}
	if len(cfg.Locale.Supported) != 3 || cfg.Locale.Supported[2] != "fr" {
		t.Fatalf("unexpected supported locales %v", cfg.Locale.Supported)
	}
}

func TestLoadValidatesDependentFields(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "store endpoint without key",
			env:  map[string]string{"API_STORE_ENDPOINT": "https://db.example.com"},
			want: "RemoteStore.APIKey",
		},
		{
			name: "pins without session secret",
			env:  map[string]string{"API_ADMIN_PINS": "sokha=4821"},
			want: "Admin.SessionSecret",
		},
		{
			name: "default locale outside allow-list",
			env:  map[string]string{"API_LOCALE_DEFAULT": "de"},
			want: "Locale.Default",
		},
		{
			name: "publish token without repo",
			env:  map[string]string{"API_PUBLISH_TOKEN": "ghp_x"},
			want: "Publish.Repo",
		},
		{
			name: "relay token without chat id",
			env:  map[string]string{"API_RELAY_BOT_TOKEN": "12345:abc"},
			want: "Relay.ChatID",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(tc.env))
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, field := range validation.Fields() {
				if field == tc.want {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected field %s in %v", tc.want, validation.Fields())
			}
		})
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != defaultPort {
		t.Fatalf("expected defaults when env file missing, got %s", cfg.Server.Port)
	}
}
