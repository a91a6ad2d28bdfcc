// Package airtable is a minimal client for the Airtable-compatible
// tabular record service the job board reads from. It adds timeouts,
// retries, and a circuit breaker on top of net/http.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/workdeck/workdeck/internal/config"
)

var (
	ErrCircuitOpen = errors.New("record store circuit open")
	ErrNotFound    = errors.New("record not found")
)

// Record is one untyped row from the store. Fields carries whatever the
// table holds; normalization happens downstream.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// ListParams shape a table listing request.
type ListParams struct {
	FilterByFormula string
	SortField       string
	SortDirection   string
	MaxRecords      int
	PageSize        int
}

// Client talks to one base/table of the record store.
type Client struct {
	cfg    config.StoreConfig
	client *http.Client

	// simple circuit breaker state
	failures  int32
	openUntil int64 // unix nano
	closed    int32 // atomic flag for Close()
}

// package-level logger for pkg/airtable; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/airtable. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// NewClient creates a store client. A nil httpClient gets a default with
// the configured timeout.
func NewClient(cfg config.StoreConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{cfg: cfg, client: httpClient}
	logger.Info("airtable: client created",
		slog.String("base_url", cfg.BaseURL),
		slog.String("table", cfg.Table),
		slog.Duration("timeout", cfg.Timeout),
	)
	return c, nil
}

func NewDefaultClient(cfg config.StoreConfig) (*Client, error) {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient)
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// half-open: reset failures and allow a request through
	atomic.StoreInt32(&c.failures, 0)
	return false
}

func (c *Client) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

// Close releases idle connections on the underlying transport. It is
// idempotent and safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

func (c *Client) tableURL() string {
	return c.cfg.BaseURL + "/v0/" + url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(c.cfg.Table)
}

func (c *Client) do(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store returned status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListRecords fetches every page of the table matching params. It
// retries transient failures with backoff and honors the circuit
// breaker.
func (c *Client) ListRecords(ctx context.Context, params ListParams) ([]Record, error) {
	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		records, err := c.listOnce(ctx, params)
		if err == nil {
			atomic.StoreInt32(&c.failures, 0)
			return records, nil
		}

		lastErr = err
		c.recordFailure()
		if c.isCircuitOpen() {
			return nil, ErrCircuitOpen
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.Backoff * time.Duration(attempt+1)):
		}
	}

	return nil, fmt.Errorf("list records failed after retries: %w", lastErr)
}

func (c *Client) listOnce(ctx context.Context, params ListParams) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var all []Record
	offset := ""
	for {
		q := url.Values{}
		if params.FilterByFormula != "" {
			q.Set("filterByFormula", params.FilterByFormula)
		}
		if params.SortField != "" {
			q.Set("sort[0][field]", params.SortField)
			dir := params.SortDirection
			if dir == "" {
				dir = "asc"
			}
			q.Set("sort[0][direction]", dir)
		}
		if params.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(params.MaxRecords))
		}
		if params.PageSize > 0 {
			q.Set("pageSize", strconv.Itoa(params.PageSize))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, c.tableURL()+"?"+q.Encode(), &page); err != nil {
			return nil, err
		}

		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// GetRecord fetches a single record by its store-assigned identifier.
func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var rec Record
	err := c.do(ctx, c.tableURL()+"/"+url.PathEscape(id), &rec)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		c.recordFailure()
		return nil, err
	}

	atomic.StoreInt32(&c.failures, 0)
	return &rec, nil
}

// Health issues a one-record listing to verify the store is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c.isCircuitOpen() {
		return ErrCircuitOpen
	}

	if _, err := c.listOnce(ctx, ListParams{MaxRecords: 1}); err != nil {
		c.recordFailure()
		return fmt.Errorf("health check failed: %w", err)
	}

	atomic.StoreInt32(&c.failures, 0)
	return nil
}
