package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	c.normalizeSource()
	c.normalizeWiki()
	c.normalizeImages()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	c.API.SystemKey = strings.TrimSpace(c.API.SystemKey)
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
}

func (c *Config) normalizeSource() {
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = defaultSourceBaseURL
	}
	c.Source.APIKey = strings.TrimSpace(c.Source.APIKey)
	c.Source.AcceptVersion = strings.TrimSpace(c.Source.AcceptVersion)
}

func (c *Config) normalizeWiki() {
	c.Wiki.BaseURL = strings.TrimRight(strings.TrimSpace(c.Wiki.BaseURL), "/")
	if c.Wiki.BaseURL == "" {
		c.Wiki.BaseURL = defaultWikiBaseURL
	}
	c.Wiki.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.Wiki.ImageBaseURL), "/")
	if c.Wiki.ImageBaseURL == "" {
		c.Wiki.ImageBaseURL = defaultWikiImageBaseURL
	}
	c.Wiki.UserAgent = strings.TrimSpace(c.Wiki.UserAgent)
	if c.Wiki.UserAgent == "" {
		c.Wiki.UserAgent = defaultWikiUserAgent
	}
}

func (c *Config) normalizeImages() {
	if c.Images.MaxSize <= 0 {
		c.Images.MaxSize = defaultImageMaxSize
	}
	if c.Images.TimeoutSeconds <= 0 {
		c.Images.TimeoutSeconds = defaultImageTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Ranks.Path) == "" {
		c.Ranks.Path = defaultRanksPath
	}
	if c.Ranks.Path, err = expandPath(strings.TrimSpace(c.Ranks.Path)); err != nil {
		return fmt.Errorf("ranks.path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = defaultLockPath
	}
	if c.Paths.LockPath, err = expandPath(strings.TrimSpace(c.Paths.LockPath)); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
