package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Config holds connection parameters for the OpenSearch index service.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Insecure selects plain HTTP. With HTTPS, CACert optionally points at a
	// PEM bundle for the cluster's certificate authority.
	Insecure bool
	CACert   string
	Index    string
	Timeout  time.Duration
}

// Client issues JSON queries against a single OpenSearch index over HTTP.
type Client struct {
	httpClient *http.Client
	searchURL  string
	countURL   string
	username   string
	password   string
	logger     *zap.Logger
}

// NewClient creates an index service client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("opensearch host is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("opensearch index is required")
	}

	scheme := "https"
	var transport http.RoundTripper
	if cfg.Insecure {
		scheme = "http"
	} else if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read ca cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca cert %s contains no certificates", cfg.CACert)
		}
		transport = &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := fmt.Sprintf("%s://%s:%d/%s", scheme, cfg.Host, cfg.Port, cfg.Index)
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		searchURL:  base + "/_search",
		countURL:   base + "/_count",
		username:   cfg.Username,
		password:   cfg.Password,
		logger:     logger,
	}, nil
}

// SearchResponse is the decoded index query response.
type SearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []HitDTO `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]AggregationDTO `json:"aggregations"`
}

// HitDTO is one raw hit in the index response.
type HitDTO struct {
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}

// AggregationDTO is a terms aggregation result.
type AggregationDTO struct {
	Buckets []struct {
		Key any `json:"key"`
	} `json:"buckets"`
}

// Search posts a query body to the index _search endpoint.
func (c *Client) Search(ctx context.Context, body map[string]any) (*SearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var decoded SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("index query",
		zap.Int("status", resp.StatusCode),
		zap.Int("took_ms", decoded.Took),
		zap.Int("hits", decoded.Hits.Total.Value),
		zap.Duration("latency", time.Since(start)),
	)
	return &decoded, nil
}

// Ping checks index reachability via the _count endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.countURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("index unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	return nil
}
