package cmsadapter

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var providersYAML []byte

// Field describes one connection setting a provider needs.
type Field struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText"`
}

// ProviderInfo is a registry entry.
type ProviderInfo struct {
	ID          Provider   `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	DocsURL     string     `json:"docsUrl" yaml:"docsUrl"`
	Fields      []Field    `json:"fields" yaml:"fields"`
	Endpoints   *Endpoints `json:"endpoints,omitempty" yaml:"endpoints"`
}

var (
	registryOnce sync.Once
	registry     []ProviderInfo
	registryErr  error
)

func loadRegistry() ([]ProviderInfo, error) {
	registryOnce.Do(func() {
		var items []ProviderInfo
		if err := yaml.Unmarshal(providersYAML, &items); err != nil {
			registryErr = fmt.Errorf("parse providers.yaml: %w", err)
			return
		}
		registry = items
	})
	return registry, registryErr
}

// Providers lists the supported providers in display order.
func Providers() []ProviderInfo {
	items, err := loadRegistry()
	if err != nil {
		panic(err)
	}
	out := make([]ProviderInfo, len(items))
	for i, item := range items {
		item.Fields = append([]Field(nil), item.Fields...)
		if item.Endpoints != nil {
			ep := *item.Endpoints
			item.Endpoints = &ep
		}
		out[i] = item
	}
	return out
}

// Lookup returns the registry entry for id.
func Lookup(id Provider) (ProviderInfo, bool) {
	for _, info := range Providers() {
		if info.ID == id {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// ParseProvider validates a provider id. Matching ignores case and surrounding space.
func ParseProvider(raw string) (Provider, error) {
	id := normalizeProvider(Provider(raw))
	if _, ok := Lookup(id); !ok {
		return "", fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, raw)
	}
	return id, nil
}

// Validate checks cfg against the provider's required fields. Unknown
// providers only need an API URL and key.
func Validate(cfg Config) error {
	required := []string{"apiUrl", "apiKey"}
	if info, ok := Lookup(cfg.Provider); ok {
		required = required[:0]
		for _, f := range info.Fields {
			if f.Required {
				required = append(required, f.Key)
			}
		}
	}
	var missing []string
	for _, key := range required {
		if strings.TrimSpace(configValue(cfg, key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

func configValue(cfg Config, key string) string {
	switch key {
	case "apiUrl":
		return cfg.APIURL
	case "apiKey":
		return cfg.APIKey
	case "apiSecret":
		return cfg.APISecret
	case "orgId":
		return cfg.OrgID
	}
	if cfg.Endpoints == nil {
		return ""
	}
	switch key {
	case "endpoints.cases":
		return cfg.Endpoints.Cases
	case "endpoints.caseById":
		return cfg.Endpoints.CaseByID
	case "endpoints.documents":
		return cfg.Endpoints.Documents
	}
	return ""
}
