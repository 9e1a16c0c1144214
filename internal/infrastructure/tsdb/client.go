package tsdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
)

// Default timeouts for VictoriaMetrics operations.
const (
	defaultHealthTimeout  = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

// Client is a minimal VictoriaMetrics client speaking InfluxDB line protocol.
//
// VictoriaMetrics exposes an InfluxDB-compatible /write endpoint, so the
// relay's serialized lines are submitted as-is. Writes are synchronous and
// unbatched: one HTTP request per line, outcome returned to the caller.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Connect creates a VictoriaMetrics client and verifies the endpoint.
//
// Parameters:
//   - ctx: Context for cancellation (bounds the health probe)
//   - cfg: Store configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: Wrapping ErrConfiguration if the URL is malformed or the
//     endpoint is unreachable
func Connect(ctx context.Context, cfg config.StoreConfig) (*Client, error) {
	base := strings.TrimRight(cfg.URL, "/")
	if _, err := url.Parse(base); err != nil || base == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrConfiguration, cfg.URL)
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}

	if err := c.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return c, nil
}

// Write submits one line of line-protocol text to the given database.
//
// The line is posted to /write?db=<database> and the HTTP status decides the
// outcome. VictoriaMetrics answers 204 on success.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - database: Target database name, carried as the db query parameter
//   - line: A single line-protocol record
//
// Returns:
//   - error: Wrapping ErrWriteFailed if the request fails or the server
//     answers a non-2xx status
func (c *Client) Write(ctx context.Context, database, line string) error {
	endpoint := c.baseURL + "/write?db=" + url.QueryEscape(database)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(line))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrWriteFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// HealthCheck probes the VictoriaMetrics /health endpoint.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, defaultHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("tsdb health check failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tsdb health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tsdb health check failed: status %d", resp.StatusCode)
	}

	return nil
}

// Close releases idle connections held by the HTTP client.
//
// Returns:
//   - error: always nil, kept for interface symmetry with other backends
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
