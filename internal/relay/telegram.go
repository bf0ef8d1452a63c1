// Package relay forwards contact messages to a Telegram chat through the bot
// sendMessage API.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	defaultTimeout    = 10 * time.Second
)

var (
	// ErrNotConfigured indicates the bot token or chat id is missing.
	ErrNotConfigured = errors.New("relay: not configured")
	// ErrSendRejected indicates the messaging API refused the message.
	ErrSendRejected = errors.New("relay: send rejected")
)

// Config identifies the bot and the chat that receives relayed messages.
type Config struct {
	BotToken string
	ChatID   string
}

// TelegramRelay delivers plain-text messages to one chat.
type TelegramRelay struct {
	mu      sync.RWMutex
	cfg     Config
	baseURL string
	http    *http.Client
}

// Option customises relay construction.
type Option func(*TelegramRelay)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(r *TelegramRelay) {
		if hc != nil {
			r.http = hc
		}
	}
}

// WithBaseURL points the relay at a different API host, primarily for tests.
func WithBaseURL(base string) Option {
	return func(r *TelegramRelay) {
		if strings.TrimSpace(base) != "" {
			r.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
		}
	}
}

// NewTelegramRelay constructs a relay. Empty settings are allowed; Send then
// fails with ErrNotConfigured.
func NewTelegramRelay(cfg Config, opts ...Option) *TelegramRelay {
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.ChatID = strings.TrimSpace(cfg.ChatID)

	relay := &TelegramRelay{
		cfg:     cfg,
		baseURL: defaultAPIBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(relay)
	}
	return relay
}

// SetConfig swaps the bot token and chat id at runtime.
func (r *TelegramRelay) SetConfig(cfg Config) {
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.ChatID = strings.TrimSpace(cfg.ChatID)

	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *TelegramRelay) config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Configured reports whether the relay can deliver messages.
func (r *TelegramRelay) Configured() bool {
	cfg := r.config()
	return cfg.BotToken != "" && cfg.ChatID != ""
}

// Send delivers one plain-text message to the configured chat.
func (r *TelegramRelay) Send(ctx context.Context, text string) error {
	cfg := r.config()
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("relay: message text is required")
	}

	body := struct {
		ChatID                string `json:"chat_id"`
		Text                  string `json:"text"`
		DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	}{
		ChatID:                cfg.ChatID,
		Text:                  text,
		DisableWebPagePreview: true,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("relay: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", r.baseURL, cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrSendRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("relay: decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("%w: %s", ErrSendRejected, result.Description)
	}
	return nil
}
