package cmsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"legal-file-auditor/internal/shared/metrics"
	"legal-file-auditor/internal/shared/telemetry"
)

const (
	// maxPages bounds every pagination loop.
	maxPages = 50
	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// httpCore is the JSON transport shared by all adapters.
type httpCore struct {
	provider  Provider
	baseURL   string
	client    *http.Client
	headers   http.Header
	pageDelay time.Duration
	now       func() time.Time
}

func newHTTPCore(provider Provider, cfg Config, client *http.Client, pageDelay time.Duration, now func() time.Time) *httpCore {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	for k, v := range cfg.CustomHeaders {
		headers.Set(k, v)
	}
	if now == nil {
		now = time.Now
	}
	return &httpCore{
		provider:  provider,
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"),
		client:    client,
		headers:   headers,
		pageDelay: pageDelay,
		now:       now,
	}
}

// setAuth applies provider auth headers; custom headers set earlier win.
func (c *httpCore) setAuth(key, value string) {
	if value == "" || c.headers.Get(key) != "" {
		return
	}
	c.headers.Set(key, value)
}

// get issues a GET against the provider and decodes the JSON body. target
// may be a path relative to the configured API URL or an absolute URL on the
// same host.
func (c *httpCore) get(ctx context.Context, target string) (any, error) {
	endpoint, err := c.resolve(target)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, values := range c.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncCMSRequest(string(c.provider), "error")
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("%s request timeout: %w", c.provider, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		outcome := "error"
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		metrics.IncCMSRequest(string(c.provider), outcome)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		metrics.IncCMSRequest(string(c.provider), "error")
		return nil, fmt.Errorf("%s response parse: %w", c.provider, err)
	}
	metrics.IncCMSRequest(string(c.provider), "ok")
	return payload, nil
}

func (c *httpCore) resolve(target string) (string, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		return c.baseURL + target, nil
	}
	next, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if next.Host != base.Host {
		return "", fmt.Errorf("refusing to follow %s link to foreign host %q", c.provider, next.Host)
	}
	return target, nil
}

// pause waits the courtesy delay between pages.
func (c *httpCore) pause(ctx context.Context) error {
	if c.pageDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.pageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// degrade turns a strict list failure into an empty, logged result.
func degrade[T any](c *httpCore, op string, items []T, err error, fields map[string]any) []T {
	if err == nil {
		return items
	}
	logFields := map[string]any{"provider": string(c.provider), "op": op, "err": err}
	for k, v := range fields {
		logFields[k] = v
	}
	telemetry.Warn("cms fetch failed", logFields)
	return []T{}
}

// warnCapped reports a listing cut short by maxPages while the provider
// still had more pages.
func (c *httpCore) warnCapped(path string, fetched int) {
	telemetry.Warn("cms pagination capped", map[string]any{
		"provider":  string(c.provider),
		"path":      path,
		"max_pages": maxPages,
		"fetched":   fetched,
	})
}

func connectionFailed(err error) ConnectionResult {
	return ConnectionResult{
		Success: false,
		Message: "Connection failed: " + err.Error(),
	}
}
