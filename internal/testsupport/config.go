package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"thibou/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a valid config whose local paths live under a unique
// temp directory. It defaults the API keys and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.API.SystemKey = "test-system-key"
	cfgVal.Source.APIKey = "test-api-key"
	cfgVal.Ranks.Path = filepath.Join(base, "villagerRanks.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockPath = filepath.Join(base, "populate.lock")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPI points the content API at baseURL.
func WithAPI(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = baseURL
	}
}

// WithSource points the Nookipedia client at baseURL.
func WithSource(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.BaseURL = baseURL
	}
}

// WithWiki points the scraper and its image host at baseURL and disables
// request pacing.
func WithWiki(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Wiki.BaseURL = baseURL
		b.cfg.Wiki.ImageBaseURL = baseURL
		b.cfg.Wiki.RequestsPerSecond = 0
	}
}

// WithRanks writes body as the rank table and points the config at it.
func WithRanks(body string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Ranks.Path, body)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
