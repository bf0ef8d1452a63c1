// Package publish commits exported content to the site repository through the
// GitHub contents API.
package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultBranch     = "main"
	defaultTimeout    = 15 * time.Second
)

// ErrCommitRejected indicates GitHub refused the contents request.
var ErrCommitRejected = errors.New("publish: github rejected request")

// Config identifies the repository that receives published content.
type Config struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
}

// GitHubCommitter writes single files to a repository branch. Each CommitFile
// call reads the current blob SHA first so updates never clobber a file that
// moved underneath them.
type GitHubCommitter struct {
	mu      sync.RWMutex
	cfg     Config
	baseURL string
	http    *http.Client
}

// Option customises committer construction.
type Option func(*GitHubCommitter)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GitHubCommitter) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL points the committer at a different API host (tests, GitHub Enterprise).
func WithBaseURL(base string) Option {
	return func(c *GitHubCommitter) {
		if strings.TrimSpace(base) != "" {
			c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
		}
	}
}

// NewGitHubCommitter constructs a committer. Empty settings are allowed; the
// committer then reports itself unconfigured and refuses to commit.
func NewGitHubCommitter(cfg Config, opts ...Option) *GitHubCommitter {
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.Repo = strings.TrimSpace(cfg.Repo)
	cfg.Branch = strings.TrimSpace(cfg.Branch)
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}

	committer := &GitHubCommitter{
		cfg:     cfg,
		baseURL: defaultAPIBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(committer)
	}
	return committer
}

// SetConfig swaps the target repository at runtime. An omitted branch keeps
// the default.
func (c *GitHubCommitter) SetConfig(cfg Config) {
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.Repo = strings.TrimSpace(cfg.Repo)
	cfg.Branch = strings.TrimSpace(cfg.Branch)
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}

	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *GitHubCommitter) config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Configured reports whether the committer can reach a repository.
func (c *GitHubCommitter) Configured() bool {
	cfg := c.config()
	return cfg.Owner != "" && cfg.Repo != "" && cfg.Token != ""
}

// Branch names the branch commits land on.
func (c *GitHubCommitter) Branch() string {
	return c.config().Branch
}

// CommitFile creates or updates one file and returns the new commit SHA.
func (c *GitHubCommitter) CommitFile(ctx context.Context, path string, content []byte, message string) (string, error) {
	cfg := c.config()
	if cfg.Owner == "" || cfg.Repo == "" || cfg.Token == "" {
		return "", errors.New("publish: repository settings are missing")
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", errors.New("publish: file path is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("publish: commit message is required")
	}

	currentSHA, err := c.currentFileSHA(ctx, cfg, path)
	if err != nil {
		return "", err
	}

	body := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha,omitempty"`
	}{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  cfg.Branch,
		SHA:     currentSHA,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("publish: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(cfg, path, ""), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.decorate(req, cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish: contents request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrCommitRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("publish: decode response: %w", err)
	}
	return result.Commit.SHA, nil
}

// currentFileSHA fetches the blob SHA of an existing file; a missing file
// yields an empty SHA, which tells the contents API to create it.
func (c *GitHubCommitter) currentFileSHA(ctx context.Context, cfg Config, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(cfg, path, cfg.Branch), nil)
	if err != nil {
		return "", err
	}
	c.decorate(req, cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish: lookup current file: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var current struct {
			SHA string `json:"sha"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
			return "", fmt.Errorf("publish: decode current file: %w", err)
		}
		return current.SHA, nil
	case http.StatusNotFound:
		return "", nil
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrCommitRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
}

func (c *GitHubCommitter) contentsURL(cfg Config, path, ref string) string {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL,
		url.PathEscape(cfg.Owner),
		url.PathEscape(cfg.Repo),
		path,
	)
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}
	return endpoint
}

func (c *GitHubCommitter) decorate(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
