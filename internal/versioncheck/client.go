package versioncheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/createkit/createkit/internal/branding"
)

// DefaultRegistry is used when neither the option nor the environment names
// a registry.
const DefaultRegistry = "https://registry.npmjs.org"

// RegistryEnvVar is npm's own registry override, honored here as well.
const RegistryEnvVar = "npm_config_registry"

// packageInfo is the subset of a registry "latest" document we read.
type packageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Client queries an npm-compatible registry.
type Client struct {
	httpClient *http.Client
	registry   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRegistry sets the registry base URL.
func WithRegistry(url string) Option {
	return func(cl *Client) {
		cl.registry = url
	}
}

// NewClient creates a Client. The registry defaults to $npm_config_registry,
// then DefaultRegistry.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		registry:   os.Getenv(RegistryEnvVar),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == "" {
		c.registry = DefaultRegistry
	}
	return c
}

// LatestVersion returns the version the registry's "latest" dist-tag points
// to for pkg.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	url := fmt.Sprintf("%s/%s/latest", strings.TrimRight(c.registry, "/"), pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName()+"-versioncheck")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("package %q not found in %s", pkg, c.registry)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned status %d for %s", resp.StatusCode, pkg)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var info packageInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("parsing registry JSON: %w", err)
	}
	if info.Version == "" {
		return "", fmt.Errorf("registry response for %s has no version", pkg)
	}
	return info.Version, nil
}
