package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"thibou/internal/logging"
	"thibou/internal/services"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	component          = "contentapi"
	snippetLimit       = 4096
)

// Config describes the content API client configuration.
type Config struct {
	BaseURL    string
	SystemKey  string
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Now overrides the clock used for token expiry checks (tests).
	Now func() time.Time
}

// Client talks to the Thibou content API with a system token.
type Client struct {
	baseURL   *url.URL
	systemKey string
	http      *http.Client
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	token systemToken
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "base url is required", nil)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "parse base url", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL:   baseURL,
		systemKey: strings.TrimSpace(cfg.SystemKey),
		http:      client,
		logger:    logging.NewComponentLogger(cfg.Logger, component),
		now:       now,
	}, nil
}

// send issues a JSON request and returns the response when its status is
// one of accepted. The caller closes the body.
func (c *Client) send(ctx context.Context, method, operation string, payload any, authorized bool, accepted []int, segments ...string) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(segments...)
	path := "/" + strings.Join(segments, "/")

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, component, operation, "encode payload", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		bearer, err := c.bearer(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, component, operation, method+" "+path, err)
	}
	for _, status := range accepted {
		if resp.StatusCode == status {
			return resp, nil
		}
	}
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
	marker := services.ErrExternal
	switch resp.StatusCode {
	case http.StatusNotFound:
		marker = services.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		marker = services.ErrValidation
	}
	return nil, services.Wrap(
		marker,
		component,
		operation,
		fmt.Sprintf("%s %s returned %s: %s", method, path, resp.Status, strings.TrimSpace(string(snippet))),
		nil,
	)
}

func decodeBody(resp *http.Response, operation string, target any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrExternal, component, operation, "decode response", err)
	}
	return nil
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, snippetLimit))
	resp.Body.Close()
}

var errNotAuthenticated = errors.New("no system token; call Authenticate first")
