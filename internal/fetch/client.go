// Package fetch implements the HTTP client used for listing and detail pages.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"legacyfetch/internal/config"

	"go.uber.org/zap"
)

// FetchError describes a failed page fetch. Status is non-zero for
// HTTP-level failures and zero for network or timeout failures.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client performs GET requests with a fixed header set
type Client struct {
	http   *http.Client
	cfg    config.HTTPConfig
	logger *zap.Logger
}

// NewClient creates a client with a tuned transport shared by all workers
func NewClient(cfg config.HTTPConfig, logger *zap.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		DisableKeepAlives:     cfg.DisableKeepAlives,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Get fetches a single page and returns its body. A non-2xx status is
// an error.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", c.cfg.Accept)
	req.Header.Set("Accept-Language", c.cfg.AcceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	return string(body), nil
}

// GetWithRetry fetches a page with the given retry policy
func (c *Client) GetWithRetry(ctx context.Context, url string, policy Policy) (string, error) {
	var body string

	err := WithRetry(ctx, c.logger, policy, func() error {
		var fetchErr error
		body, fetchErr = c.Get(ctx, url)
		return fetchErr
	})
	if err != nil {
		return "", err
	}

	return body, nil
}
