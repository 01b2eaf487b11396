package wiki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"thibou/internal/logging"
	"thibou/internal/services"
)

const (
	defaultBaseURL      = "https://nookipedia.com"
	defaultImageBaseURL = "https://dodo.ac"
	defaultHTTPTimeout  = 30 * time.Second
	component           = "wiki"
)

// Config describes the wiki scraper configuration.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	UserAgent    string
	// RequestsPerSecond paces page fetches; zero or less disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client fetches and parses wiki pages.
type Client struct {
	baseURL   *url.URL
	imageBase string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("wiki: parse base url: %w", err)
	}
	imageBase := strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/")
	if imageBase == "" {
		imageBase = defaultImageBaseURL
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:   baseURL,
		imageBase: imageBase,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		http:      client,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logging.NewComponentLogger(cfg.Logger, component),
	}, nil
}

// Document fetches ref (a path under the base URL or an absolute URL) and
// parses it as HTML.
func (c *Client) Document(ctx context.Context, ref string) (*goquery.Document, error) {
	target := c.Resolve(ref)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, services.Wrap(services.ErrExternal, component, "fetch", target, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, component, "fetch", target, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, component, "fetch", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrExternal, component, "fetch", fmt.Sprintf("%s returned %s", target, resp.Status), nil)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, component, "parse", target, err)
	}
	return doc, nil
}

// Resolve turns a wiki href into an absolute URL under the base URL.
func (c *Client) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	parsed, err := url.Parse(ref)
	if err != nil {
		return c.baseURL.JoinPath(ref).String()
	}
	return c.baseURL.ResolveReference(parsed).String()
}

// ImageURL normalizes an image src: protocol-relative URLs get https and
// root-relative paths are placed under the image host.
func (c *Client) ImageURL(src string) string {
	return normalizeImageURL(src, c.imageBase)
}

func normalizeImageURL(src, imageBase string) string {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return imageBase + src
	default:
		return src
	}
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
