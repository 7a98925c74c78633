package cmsadapter

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageDelay      = 500 * time.Millisecond
)

// Factory builds adapters. It performs no network I/O.
type Factory struct {
	// HTTPClient is shared by every adapter; nil means a client with Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
	PageDelay  time.Duration
	Now        func() time.Time
}

// NewFactory returns a factory with its own HTTP client.
func NewFactory(timeout, pageDelay time.Duration) *Factory {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Factory{
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
		PageDelay:  pageDelay,
	}
}

var defaultFactory = NewFactory(DefaultRequestTimeout, DefaultPageDelay)

// CreateAdapter builds an adapter with the package defaults.
func CreateAdapter(cfg Config) Adapter {
	return defaultFactory.Create(cfg)
}

// Create dispatches on the provider id. Providers without a dedicated
// adapter get the generic one seeded with their registry endpoints; unknown
// ids use the caller's endpoints over the standard /cases templates.
func (f *Factory) Create(cfg Config) Adapter {
	cfg.Provider = normalizeProvider(cfg.Provider)
	client := f.client()

	switch cfg.Provider {
	case ProviderCasePeer:
		return newCasePeer(cfg, client, f.PageDelay, f.Now)
	case ProviderFilevine:
		return newFilevine(cfg, client, f.PageDelay, f.Now)
	case ProviderClio:
		return newClio(cfg, client, f.PageDelay, f.Now)
	}

	provider, name, base := cfg.Provider, "API", defaultEndpoints
	if info, ok := Lookup(cfg.Provider); ok {
		if info.ID != ProviderCustom {
			name = info.Name
		}
		if info.Endpoints != nil {
			base = mergeEndpoints(info.Endpoints, defaultEndpoints)
		}
	} else {
		provider = ProviderCustom
	}
	return newGeneric(provider, name, mergeEndpoints(cfg.Endpoints, base), cfg, client, f.PageDelay, f.Now)
}

func (f *Factory) client() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Creator builds adapters from connection settings. *Factory implements it.
type Creator interface {
	Create(cfg Config) Adapter
}

// Test validates cfg and runs the adapter's connection test. It never
// returns an error; failures are reported in the result. A nil creator uses
// the package defaults.
func Test(ctx context.Context, f Creator, cfg Config) ConnectionResult {
	if f == nil {
		f = defaultFactory
	}
	cfg.Provider = normalizeProvider(cfg.Provider)
	if err := Validate(cfg); err != nil {
		return ConnectionResult{Success: false, Message: "Invalid configuration: " + err.Error()}
	}
	return f.Create(cfg).TestConnection(ctx)
}

func normalizeProvider(p Provider) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(string(p))))
}
