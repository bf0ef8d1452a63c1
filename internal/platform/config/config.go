package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile             = ".env"
	defaultPort                = "8080"
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 120 * time.Second
	defaultStoreTimeout        = 10 * time.Second
	defaultRefreshInterval     = 5 * time.Minute
	defaultPublishBranch       = "main"
	defaultPublishPath         = "content/snapshot.json"
	defaultRelayEndpoint       = "https://api.telegram.org"
	defaultSessionTTL          = 12 * time.Hour
	defaultDefaultLocale       = "en"
	defaultIdempotencyHeader   = "Idempotency-Key"
	defaultIdempotencyTTL      = 24 * time.Hour
	defaultIdempotencyInterval = time.Hour
	defaultIdempotencyBatch    = 200
)

// defaultSupportedLocales is the allow-list of locale codes the site serves.
// The first two are authored; the rest go through the external page translator.
var defaultSupportedLocales = []string{"en", "km", "fr", "zh", "ja", "ko", "th", "vi"}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	RemoteStore RemoteStoreConfig
	Publish     PublishConfig
	Relay       RelayConfig
	Admin       AdminConfig
	Locale      LocaleConfig
	Idempotency IdempotencyConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RemoteStoreConfig holds the object-store endpoint and credentials. Both may
// be replaced at runtime through the admin settings surface; these are the
// boot-time values. An empty endpoint means the site runs on bundled content.
type RemoteStoreConfig struct {
	EndpointURL     string
	APIKey          string
	Timeout         time.Duration
	RefreshInterval time.Duration
}

// PublishConfig identifies the repository receiving content snapshots.
type PublishConfig struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
	Path   string
}

// RelayConfig configures the outbound contact-form relay.
type RelayConfig struct {
	Endpoint string
	BotToken string
	ChatID   string
}

// AdminConfig groups editor authentication settings. PINs maps editor name to
// PIN; SessionSecret signs the session tokens issued after a PIN match.
type AdminConfig struct {
	PINs          map[string]string
	SessionSecret string
	SessionTTL    time.Duration
}

// LocaleConfig lists the locales the site recognises.
type LocaleConfig struct {
	Default   string
	Supported []string
}

// IdempotencyConfig controls idempotency middleware behaviour on admin writes.
type IdempotencyConfig struct {
	Header           string
	TTL              time.Duration
	CleanupInterval  time.Duration
	CleanupBatchSize int
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile points the loader at a dotenv file other than ./.env.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = strings.TrimSpace(path)
	}
}

// WithEnvMap overlays explicit key/value pairs with the highest precedence.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment; useful in tests.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from dotenv file, process environment, and
// explicit overrides, in that order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	values, err := environmentValues(options)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		value, ok := values[key]
		return strings.TrimSpace(value), ok
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "API_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "API_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "API_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "API_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		RemoteStore: RemoteStoreConfig{
			EndpointURL:     stringWithDefault(lookup, "API_STORE_ENDPOINT", ""),
			APIKey:          stringWithDefault(lookup, "API_STORE_KEY", ""),
			Timeout:         durationWithDefault(lookup, "API_STORE_TIMEOUT", defaultStoreTimeout),
			RefreshInterval: durationWithDefault(lookup, "API_STORE_REFRESH_INTERVAL", defaultRefreshInterval),
		},
		Publish: PublishConfig{
			Owner:  stringWithDefault(lookup, "API_PUBLISH_OWNER", ""),
			Repo:   stringWithDefault(lookup, "API_PUBLISH_REPO", ""),
			Branch: stringWithDefault(lookup, "API_PUBLISH_BRANCH", defaultPublishBranch),
			Token:  stringWithDefault(lookup, "API_PUBLISH_TOKEN", ""),
			Path:   stringWithDefault(lookup, "API_PUBLISH_PATH", defaultPublishPath),
		},
		Relay: RelayConfig{
			Endpoint: stringWithDefault(lookup, "API_RELAY_ENDPOINT", defaultRelayEndpoint),
			BotToken: stringWithDefault(lookup, "API_RELAY_BOT_TOKEN", ""),
			ChatID:   stringWithDefault(lookup, "API_RELAY_CHAT_ID", ""),
		},
		Admin: AdminConfig{
			PINs:          mapWithDefault(lookup, "API_ADMIN_PINS"),
			SessionSecret: stringWithDefault(lookup, "API_ADMIN_SESSION_SECRET", ""),
			SessionTTL:    durationWithDefault(lookup, "API_ADMIN_SESSION_TTL", defaultSessionTTL),
		},
		Locale: LocaleConfig{
			Default:   strings.ToLower(stringWithDefault(lookup, "API_LOCALE_DEFAULT", defaultDefaultLocale)),
			Supported: csvWithDefault(lookup, "API_LOCALE_SUPPORTED", defaultSupportedLocales),
		},
		Idempotency: IdempotencyConfig{
			Header:           stringWithDefault(lookup, "API_IDEMPOTENCY_HEADER", defaultIdempotencyHeader),
			TTL:              durationWithDefault(lookup, "API_IDEMPOTENCY_TTL", defaultIdempotencyTTL),
			CleanupInterval:  durationWithDefault(lookup, "API_IDEMPOTENCY_CLEANUP_INTERVAL", defaultIdempotencyInterval),
			CleanupBatchSize: intWithDefault(lookup, "API_IDEMPOTENCY_CLEANUP_BATCH", defaultIdempotencyBatch),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func environmentValues(options loaderOptions) (map[string]string, error) {
	values := make(map[string]string)

	dotenv, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}
	for key, value := range dotenv {
		values[key] = value
	}

	if options.useSystemEnv {
		for _, entry := range os.Environ() {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 {
				continue
			}
			values[parts[0]] = parts[1]
		}
	}

	for key, value := range options.envMap {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = value
	}

	return values, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.RemoteStore.EndpointURL != "" && cfg.RemoteStore.APIKey == "" {
		invalid = append(invalid, "RemoteStore.APIKey")
	}
	if cfg.RemoteStore.Timeout <= 0 {
		invalid = append(invalid, "RemoteStore.Timeout")
	}
	if len(cfg.Admin.PINs) > 0 && cfg.Admin.SessionSecret == "" {
		invalid = append(invalid, "Admin.SessionSecret")
	}
	if cfg.Locale.Default == "" || !containsLocale(cfg.Locale.Supported, cfg.Locale.Default) {
		invalid = append(invalid, "Locale.Default")
	}
	if cfg.Publish.Token != "" && (cfg.Publish.Owner == "" || cfg.Publish.Repo == "") {
		invalid = append(invalid, "Publish.Owner", "Publish.Repo")
	}
	if cfg.Relay.BotToken != "" && cfg.Relay.ChatID == "" {
		invalid = append(invalid, "Relay.ChatID")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func containsLocale(list []string, locale string) bool {
	for _, candidate := range list {
		if strings.EqualFold(candidate, locale) {
			return true
		}
	}
	return false
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	value, ok := lookup(key)
	if !ok || value == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	entries := strings.Split(value, ",")
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		out = append(out, fallback...)
	}
	return out
}

// mapWithDefault parses "key=value,key=value" lists into a map.
func mapWithDefault(lookup func(string) (string, bool), key string) map[string]string {
	value, ok := lookup(key)
	if !ok || value == "" {
		return nil
	}
	entries := strings.Split(value, ",")
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		pin := strings.TrimSpace(parts[1])
		if name == "" || pin == "" {
			continue
		}
		result[name] = pin
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
