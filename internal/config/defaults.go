package config

const (
	defaultConfigPath         = "~/.config/thibou/populate.toml"
	projectConfigName         = "populate.toml"
	defaultAPIBaseURL         = "https://api.thibou.valentinp.fr"
	defaultAPITimeoutSeconds  = 60
	defaultSourceBaseURL      = "https://api.nookipedia.com"
	defaultWikiBaseURL        = "https://nookipedia.com"
	defaultWikiImageBaseURL   = "https://dodo.ac"
	defaultWikiUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultWikiRequestsPerSec = 2.0
	defaultImageMaxSize       = 512
	defaultImageTimeout       = 30
	defaultRanksPath          = "villagerRanks.json"
	defaultLogDir             = "~/.local/share/thibou/logs"
	defaultLockPath           = "~/.local/share/thibou/populate.lock"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Source: Source{
			BaseURL: defaultSourceBaseURL,
		},
		Wiki: Wiki{
			BaseURL:           defaultWikiBaseURL,
			ImageBaseURL:      defaultWikiImageBaseURL,
			UserAgent:         defaultWikiUserAgent,
			RequestsPerSecond: defaultWikiRequestsPerSec,
		},
		Images: Images{
			MaxSize:        defaultImageMaxSize,
			TimeoutSeconds: defaultImageTimeout,
		},
		Ranks: Ranks{
			Path: defaultRanksPath,
		},
		Paths: Paths{
			LogDir:   defaultLogDir,
			LockPath: defaultLockPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}
