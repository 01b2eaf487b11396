package nookipedia

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

	"thibou/internal/services"
)

const (
	defaultBaseURL       = "https://api.nookipedia.com"
	defaultAcceptVersion = "1.0.0"
	defaultUserAgent     = "thibou-populate/dev"
	defaultHTTPTimeout   = 60 * time.Second
)

// Config describes the Nookipedia client configuration.
type Config struct {
	APIKey        string
	BaseURL       string
	AcceptVersion string
	UserAgent     string
	HTTPClient    *http.Client
}

// Client fetches raw catalog listings from the Nookipedia API.
type Client struct {
	apiKey        string
	acceptVersion string
	userAgent     string
	baseURL       *url.URL
	http          *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("nookipedia: parse base url: %w", err)
	}
	acceptVersion := strings.TrimSpace(cfg.AcceptVersion)
	if acceptVersion == "" {
		acceptVersion = defaultAcceptVersion
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:        strings.TrimSpace(cfg.APIKey),
		acceptVersion: acceptVersion,
		userAgent:     userAgent,
		baseURL:       baseURL,
		http:          client,
	}, nil
}

// Villagers returns every villager known to the API.
func (c *Client) Villagers(ctx context.Context) ([]RawVillager, error) {
	var out []RawVillager
	if err := c.get(ctx, "villagers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fish returns every New Horizons fish.
func (c *Client) Fish(ctx context.Context) ([]RawFish, error) {
	var out []RawFish
	if err := c.get(ctx, "nh/fish", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bugs returns every New Horizons bug.
func (c *Client) Bugs(ctx context.Context) ([]RawBug, error) {
	var out []RawBug
	if err := c.get(ctx, "nh/bugs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fossils returns every New Horizons fossil group with its parts.
func (c *Client) Fossils(ctx context.Context) ([]RawFossil, error) {
	var out []RawFossil
	if err := c.get(ctx, "nh/fossils/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	if c == nil {
		return errors.New("nookipedia: client is nil")
	}
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrExternal, "nookipedia", "build request", path, err)
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternal, "nookipedia", "fetch", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return services.Wrap(
			services.ErrExternal,
			"nookipedia",
			"fetch",
			fmt.Sprintf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(body))),
			nil,
		)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrExternal, "nookipedia", "decode", path, err)
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}
	req.Header.Set("Accept-Version", c.acceptVersion)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
}
