package trailhead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FetchError describes why a profile could not be fetched. Reason is the
// short human readable text reported per username.
type FetchError struct {
	Username   string
	Reason     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.Username, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

// Client posts the certifications query to the profile GraphQL API.
type Client struct {
	cfg    Config
	op     operation
	client *http.Client
	logger *zap.Logger

	closed int32
}

// NewClient validates cfg and the query document and returns a client.
// A nil httpClient gets a default transport.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid graphql url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	op, err := parseOperation(CertificationsQuery, "slug", "hasSlug")
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 15 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug("trailhead client created", zap.String("url", cfg.URL), zap.Duration("timeout", cfg.Timeout), zap.String("operation", op.name))
	return &Client{cfg: cfg, op: op, client: httpClient, logger: logger}, nil
}

// OperationName is the GraphQL operation sent with each request.
func (c *Client) OperationName() string { return c.op.name }

// FetchProfile returns the raw JSON body for username. Transport failures,
// non-200 responses and bodies that are not JSON come back as *FetchError.
func (c *Client) FetchProfile(ctx context.Context, username string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(graphQLRequest{
		OperationName: c.op.name,
		Variables:     map[string]any{"hasSlug": true, "slug": username},
		Query:         c.op.query,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &FetchError{Username: username, Reason: "request failed: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Username: username, Reason: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("profile fetched",
		zap.String("username", username),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Username: username, Reason: fmt.Sprintf("HTTP %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Username: username, Reason: "request failed: " + err.Error(), StatusCode: resp.StatusCode, Err: err}
	}

	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &FetchError{Username: username, Reason: "invalid JSON: " + err.Error(), StatusCode: resp.StatusCode, Err: err}
	}

	return body, nil
}

// Close releases idle connections. It is idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.client.CloseIdleConnections()
	return nil
}
