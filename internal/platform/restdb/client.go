package restdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	restPathPrefix = "/rest/v1/"
)

// Credentials identify the remote store. They are supplied at runtime (the
// original site kept them in browser storage) and may be swapped without a
// restart.
type Credentials struct {
	EndpointURL string
	APIKey      string
}

func (c Credentials) normalized() Credentials {
	c.EndpointURL = strings.TrimRight(strings.TrimSpace(c.EndpointURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	return c
}

func (c Credentials) valid() bool {
	return c.EndpointURL != "" && c.APIKey != ""
}

// Order describes a single order-by clause for Select.
type Order struct {
	Column string
	Desc   bool
}

// Filter restricts Select/Update/Delete to rows where Column equals Value.
type Filter struct {
	Column string
	Value  string
}

// SelectOptions shape a read query.
type SelectOptions struct {
	Filters []Filter
	Orders  []Order
	Limit   int
}

// Client speaks the generic object-store REST protocol: select, insert,
// update, upsert, and delete against named tables.
type Client struct {
	mu    sync.RWMutex
	creds Credentials
	http  *http.Client
}

// ClientOption customises client construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient constructs a store client. Empty credentials are allowed; every
// call fails with ErrNotConfigured until SetCredentials provides them.
func NewClient(creds Credentials, opts ...ClientOption) *Client {
	client := &Client{
		creds: creds.normalized(),
		http:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SetCredentials swaps the endpoint and key used for subsequent requests.
func (c *Client) SetCredentials(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds.normalized()
}

// Configured reports whether the client can reach a store at all.
func (c *Client) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.valid()
}

func (c *Client) credentials() (Credentials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.creds.valid() {
		return Credentials{}, ErrNotConfigured
	}
	return c.creds, nil
}

// Select reads rows from the table into dest (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, opts SelectOptions, dest any) error {
	query := url.Values{}
	query.Set("select", "*")
	for _, filter := range opts.Filters {
		if strings.TrimSpace(filter.Column) == "" {
			continue
		}
		query.Set(filter.Column, "eq."+filter.Value)
	}
	if len(opts.Orders) > 0 {
		clauses := make([]string, 0, len(opts.Orders))
		for _, order := range opts.Orders {
			if strings.TrimSpace(order.Column) == "" {
				continue
			}
			direction := "asc"
			if order.Desc {
				direction = "desc"
			}
			clauses = append(clauses, order.Column+"."+direction)
		}
		if len(clauses) > 0 {
			query.Set("order", strings.Join(clauses, ","))
		}
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	return c.do(ctx, http.MethodGet, table, query, nil, nil, dest)
}

// Insert appends a row. When dest is non-nil the created representation is
// decoded into it.
func (c *Client) Insert(ctx context.Context, table string, record any, dest any) error {
	headers := http.Header{}
	if dest != nil {
		headers.Set("Prefer", "return=representation")
	}
	return c.do(ctx, http.MethodPost, table, nil, headers, record, dest)
}

// Update patches every row matching the filter.
func (c *Client) Update(ctx context.Context, table string, filter Filter, patch any) error {
	if strings.TrimSpace(filter.Column) == "" {
		return &Error{Table: table, Err: errors.New("update filter column is required")}
	}
	query := url.Values{}
	query.Set(filter.Column, "eq."+filter.Value)
	return c.do(ctx, http.MethodPatch, table, query, nil, patch, nil)
}

// Upsert inserts the row, merging into an existing row when onConflict
// already holds the same value. This is what makes bundled-content migration
// idempotent: two concurrent migrations of the same slug land on one row.
func (c *Client) Upsert(ctx context.Context, table string, onConflict string, record any) error {
	onConflict = strings.TrimSpace(onConflict)
	if onConflict == "" {
		return &Error{Table: table, Err: errors.New("upsert conflict column is required")}
	}
	query := url.Values{}
	query.Set("on_conflict", onConflict)
	headers := http.Header{}
	headers.Set("Prefer", "resolution=merge-duplicates")
	return c.do(ctx, http.MethodPost, table, query, headers, record, nil)
}

// Delete removes every row matching the filter.
func (c *Client) Delete(ctx context.Context, table string, filter Filter) error {
	if strings.TrimSpace(filter.Column) == "" {
		return &Error{Table: table, Err: errors.New("delete filter column is required")}
	}
	query := url.Values{}
	query.Set(filter.Column, "eq."+filter.Value)
	return c.do(ctx, http.MethodDelete, table, query, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, headers http.Header, body any, dest any) error {
	table = strings.TrimSpace(table)
	if table == "" {
		return &Error{Table: table, Err: errors.New("table name is required")}
	}

	creds, err := c.credentials()
	if err != nil {
		return err
	}

	endpoint := creds.EndpointURL + restPathPrefix + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Table: table, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Table: table, Err: err}
	}
	req.Header.Set("apikey", creds.APIKey)
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Table: table, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Table:  table,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("store rejected request: %s", strings.TrimSpace(string(detail))),
		}
	}

	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return &Error{Table: table, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
