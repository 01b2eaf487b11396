package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"thibou/internal/services"
)

// Validate ensures the configuration is usable. Every failure carries the
// services.ErrConfiguration marker so callers can treat it as run-fatal.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateAPI,
		c.validateSource,
		c.validateWiki,
		c.validateImages,
		c.validateLogging,
		c.validateNotifications,
	} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.SystemKey == "" {
		return fmt.Errorf("api.system_key is required. Set SYSTEM_KEY env var or edit %s (create with 'populate config init')", defaultConfigPathHint())
	}
	return validateURL("api.base_url", c.API.BaseURL)
}

func (c *Config) validateSource() error {
	if c.Source.APIKey == "" {
		return fmt.Errorf("source.api_key is required. Set NOOKIPEDIA_API_KEY env var or edit %s", defaultConfigPathHint())
	}
	return validateURL("source.base_url", c.Source.BaseURL)
}

func (c *Config) validateWiki() error {
	if err := validateURL("wiki.base_url", c.Wiki.BaseURL); err != nil {
		return err
	}
	if err := validateURL("wiki.image_base_url", c.Wiki.ImageBaseURL); err != nil {
		return err
	}
	if c.Wiki.RequestsPerSecond < 0 {
		return errors.New("wiki.requests_per_second must be >= 0")
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.MaxSize < 16 {
		return errors.New("images.max_size must be at least 16")
	}
	if c.Images.TimeoutSeconds <= 0 {
		return errors.New("images.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic != "" {
		if err := validateURL("notifications.ntfy_topic", c.Notifications.NtfyTopic); err != nil {
			return err
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}

func defaultConfigPathHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}
