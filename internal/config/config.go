// File: backend/internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

const (
	DefaultSystemAPIKeyPlaceholder = "SET_A_REAL_KEY_IN_CONFIG_OR_ENV_7c2ab91e4d56f0"
	DefaultRequestDelayMs          = 2000
	DefaultSearchDelayMs           = 1000
	DefaultProbeDelayMs            = 500
)

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Server    ServerConfig
	Fetcher   FetcherConfig
	Robots    RobotsConfig
	Renderer  RendererConfig
	Discovery DiscoveryConfig
	Verifier  VerifierConfig
	Logging   LoggingConfig

	loadedFromPath string
}

func (ac *AppConfig) GetLoadedFromPath() string { return ac.loadedFromPath }

type ServerConfig struct {
	Port   string `json:"port"`
	APIKey string `json:"apiKey"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

// FetcherConfig controls the lightweight fetch engine.
type FetcherConfig struct {
	UserAgents     []string
	DefaultHeaders map[string]string
	RequestTimeout time.Duration
	MaxRedirects   int
	RequestDelay   time.Duration
	MaxBodyBytes   int64
}

// RobotsConfig controls the politeness guard.
type RobotsConfig struct {
	FetchTimeout time.Duration
	UserAgent    string
	// CacheTTL of zero keeps entries for the process lifetime.
	CacheTTL time.Duration
}

// RendererConfig controls the headless browser engine.
type RendererConfig struct {
	Enabled            bool
	NavigationTimeout  time.Duration
	SelectorWait       time.Duration
	MaxBrowserContexts int
	NoSandbox          bool
}

// DiscoveryConfig controls candidate generation.
type DiscoveryConfig struct {
	SearchDelay  time.Duration
	ProbeDelay   time.Duration
	ProbeTimeout time.Duration
	TLDs         []string
	Resolvers    []string
}

// VerifierConfig controls verification thresholds and marker sets. The marker
// lists ship with built-in defaults but remain editable via config.json.
type VerifierConfig struct {
	MinConfidence      float64
	MinContentLength   int
	ParkedMarkers      []string
	UnrelatedPlatforms []string
}

// --- JSON shapes (durations expressed as seconds / milliseconds) ---

type AppConfigJSON struct {
	Server    ServerConfig        `json:"server"`
	Fetcher   FetcherConfigJSON   `json:"fetcher"`
	Robots    RobotsConfigJSON    `json:"robots"`
	Renderer  RendererConfigJSON  `json:"renderer"`
	Discovery DiscoveryConfigJSON `json:"discovery"`
	Verifier  VerifierConfigJSON  `json:"verifier"`
	Logging   LoggingConfig       `json:"logging"`
}

type FetcherConfigJSON struct {
	UserAgents            []string          `json:"userAgents"`
	DefaultHeaders        map[string]string `json:"defaultHeaders"`
	RequestTimeoutSeconds int               `json:"requestTimeoutSeconds"`
	MaxRedirects          int               `json:"maxRedirects"`
	RequestDelayMs        int               `json:"requestDelayMs"`
	MaxBodyBytes          int64             `json:"maxBodyBytes,omitempty"`
}

type RobotsConfigJSON struct {
	FetchTimeoutSeconds int    `json:"fetchTimeoutSeconds"`
	UserAgent           string `json:"userAgent"`
	CacheTTLSeconds     int    `json:"cacheTtlSeconds"`
}

type RendererConfigJSON struct {
	Enabled                  bool `json:"enabled"`
	NavigationTimeoutSeconds int  `json:"navigationTimeoutSeconds"`
	SelectorWaitSeconds      int  `json:"selectorWaitSeconds"`
	MaxBrowserContexts       int  `json:"maxBrowserContexts"`
	NoSandbox                bool `json:"noSandbox"`
}

type DiscoveryConfigJSON struct {
	SearchDelayMs       int      `json:"searchDelayMs"`
	ProbeDelayMs        int      `json:"probeDelayMs"`
	ProbeTimeoutSeconds int      `json:"probeTimeoutSeconds"`
	TLDs                []string `json:"tlds"`
	Resolvers           []string `json:"resolvers,omitempty"`
}

type VerifierConfigJSON struct {
	MinConfidence      float64  `json:"minConfidence"`
	MinContentLength   int      `json:"minContentLength"`
	ParkedMarkers      []string `json:"parkedMarkers,omitempty"`
	UnrelatedPlatforms []string `json:"unrelatedPlatforms,omitempty"`
}

// Load reads the configuration from mainConfigPath, falling back to (and
// persisting) built-in defaults when the file does not exist.
func Load(mainConfigPath string) (*AppConfig, error) {
	if mainConfigPath == "" {
		mainConfigPath = "config.json"
		log.Printf("Config: Main config path empty, using default: %s", mainConfigPath)
	}

	appCfgJSON := DefaultAppConfigJSON()
	var originalLoadError error

	data, err := os.ReadFile(mainConfigPath)
	if err != nil {
		originalLoadError = err
		if os.IsNotExist(err) {
			log.Printf("Config: Main config file '%s' not found. Using defaults and attempting to save.", mainConfigPath)
			defaultAppCfg := convert(appCfgJSON)
			defaultAppCfg.loadedFromPath = mainConfigPath
			if saveErr := Save(defaultAppCfg, mainConfigPath); saveErr != nil {
				log.Printf("Config: Failed to save default config file '%s': %v", mainConfigPath, saveErr)
			}
		} else {
			log.Printf("Config: Error reading main config '%s': %v. Using defaults.", mainConfigPath, err)
		}
	} else {
		if errUnmarshal := json.Unmarshal(data, &appCfgJSON); errUnmarshal != nil {
			log.Printf("Config: Error unmarshalling main config '%s': %v. Using defaults for unparsed fields.", mainConfigPath, errUnmarshal)
			originalLoadError = errUnmarshal
		}
	}

	appConfig := convert(appCfgJSON)
	applyFallbacks(appConfig)
	applyEnvOverrides(appConfig)
	appConfig.loadedFromPath = mainConfigPath
	return appConfig, originalLoadError
}

// Save writes the configuration back to disk in its JSON shape.
func Save(cfg *AppConfig, filePath string) error {
	if filePath == "" {
		return fmt.Errorf("cannot save config, file path is empty")
	}
	data, err := json.MarshalIndent(ConvertAppConfigToJSON(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app config to JSON: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write app config to file '%s': %w", filePath, err)
	}
	log.Printf("Config: Successfully saved main configuration to '%s'", filePath)
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if port := os.Getenv("DOMAINSCOUT_PORT"); port != "" {
		log.Printf("Config: Overriding server port from DOMAINSCOUT_PORT env var.")
		cfg.Server.Port = port
	}
	if apiKey := os.Getenv("DOMAINSCOUT_API_KEY"); apiKey != "" {
		log.Printf("Config: Overriding API key from DOMAINSCOUT_API_KEY env var.")
		cfg.Server.APIKey = apiKey
	}
}

func convert(jsonCfg AppConfigJSON) *AppConfig {
	return &AppConfig{
		Server: jsonCfg.Server,
		Fetcher: FetcherConfig{
			UserAgents:     jsonCfg.Fetcher.UserAgents,
			DefaultHeaders: jsonCfg.Fetcher.DefaultHeaders,
			RequestTimeout: time.Duration(jsonCfg.Fetcher.RequestTimeoutSeconds) * time.Second,
			MaxRedirects:   jsonCfg.Fetcher.MaxRedirects,
			RequestDelay:   time.Duration(jsonCfg.Fetcher.RequestDelayMs) * time.Millisecond,
			MaxBodyBytes:   jsonCfg.Fetcher.MaxBodyBytes,
		},
		Robots: RobotsConfig{
			FetchTimeout: time.Duration(jsonCfg.Robots.FetchTimeoutSeconds) * time.Second,
			UserAgent:    jsonCfg.Robots.UserAgent,
			CacheTTL:     time.Duration(jsonCfg.Robots.CacheTTLSeconds) * time.Second,
		},
		Renderer: RendererConfig{
			Enabled:            jsonCfg.Renderer.Enabled,
			NavigationTimeout:  time.Duration(jsonCfg.Renderer.NavigationTimeoutSeconds) * time.Second,
			SelectorWait:       time.Duration(jsonCfg.Renderer.SelectorWaitSeconds) * time.Second,
			MaxBrowserContexts: jsonCfg.Renderer.MaxBrowserContexts,
			NoSandbox:          jsonCfg.Renderer.NoSandbox,
		},
		Discovery: DiscoveryConfig{
			SearchDelay:  time.Duration(jsonCfg.Discovery.SearchDelayMs) * time.Millisecond,
			ProbeDelay:   time.Duration(jsonCfg.Discovery.ProbeDelayMs) * time.Millisecond,
			ProbeTimeout: time.Duration(jsonCfg.Discovery.ProbeTimeoutSeconds) * time.Second,
			TLDs:         jsonCfg.Discovery.TLDs,
			Resolvers:    jsonCfg.Discovery.Resolvers,
		},
		Verifier: VerifierConfig{
			MinConfidence:      jsonCfg.Verifier.MinConfidence,
			MinContentLength:   jsonCfg.Verifier.MinContentLength,
			ParkedMarkers:      jsonCfg.Verifier.ParkedMarkers,
			UnrelatedPlatforms: jsonCfg.Verifier.UnrelatedPlatforms,
		},
		Logging: jsonCfg.Logging,
	}
}

func ConvertAppConfigToJSON(cfg *AppConfig) AppConfigJSON {
	return AppConfigJSON{
		Server: cfg.Server,
		Fetcher: FetcherConfigJSON{
			UserAgents:            cfg.Fetcher.UserAgents,
			DefaultHeaders:        cfg.Fetcher.DefaultHeaders,
			RequestTimeoutSeconds: int(cfg.Fetcher.RequestTimeout / time.Second),
			MaxRedirects:          cfg.Fetcher.MaxRedirects,
			RequestDelayMs:        int(cfg.Fetcher.RequestDelay / time.Millisecond),
			MaxBodyBytes:          cfg.Fetcher.MaxBodyBytes,
		},
		Robots: RobotsConfigJSON{
			FetchTimeoutSeconds: int(cfg.Robots.FetchTimeout / time.Second),
			UserAgent:           cfg.Robots.UserAgent,
			CacheTTLSeconds:     int(cfg.Robots.CacheTTL / time.Second),
		},
		Renderer: RendererConfigJSON{
			Enabled:                  cfg.Renderer.Enabled,
			NavigationTimeoutSeconds: int(cfg.Renderer.NavigationTimeout / time.Second),
			SelectorWaitSeconds:      int(cfg.Renderer.SelectorWait / time.Second),
			MaxBrowserContexts:       cfg.Renderer.MaxBrowserContexts,
			NoSandbox:                cfg.Renderer.NoSandbox,
		},
		Discovery: DiscoveryConfigJSON{
			SearchDelayMs:       int(cfg.Discovery.SearchDelay / time.Millisecond),
			ProbeDelayMs:        int(cfg.Discovery.ProbeDelay / time.Millisecond),
			ProbeTimeoutSeconds: int(cfg.Discovery.ProbeTimeout / time.Second),
			TLDs:                cfg.Discovery.TLDs,
			Resolvers:           cfg.Discovery.Resolvers,
		},
		Verifier: VerifierConfigJSON{
			MinConfidence:      cfg.Verifier.MinConfidence,
			MinContentLength:   cfg.Verifier.MinContentLength,
			ParkedMarkers:      cfg.Verifier.ParkedMarkers,
			UnrelatedPlatforms: cfg.Verifier.UnrelatedPlatforms,
		},
		Logging: cfg.Logging,
	}
}

// applyFallbacks fills any zero values with defaults so a partial config.json
// cannot disable a timeout entirely.
func applyFallbacks(cfg *AppConfig) {
	def := convert(DefaultAppConfigJSON())
	if cfg.Server.Port == "" {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Fetcher.UserAgents) == 0 {
		cfg.Fetcher.UserAgents = def.Fetcher.UserAgents
	}
	if len(cfg.Fetcher.DefaultHeaders) == 0 {
		cfg.Fetcher.DefaultHeaders = def.Fetcher.DefaultHeaders
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		cfg.Fetcher.RequestTimeout = def.Fetcher.RequestTimeout
	}
	if cfg.Fetcher.MaxRedirects <= 0 {
		cfg.Fetcher.MaxRedirects = def.Fetcher.MaxRedirects
	}
	if cfg.Fetcher.MaxBodyBytes <= 0 {
		cfg.Fetcher.MaxBodyBytes = def.Fetcher.MaxBodyBytes
	}
	if cfg.Robots.FetchTimeout <= 0 {
		cfg.Robots.FetchTimeout = def.Robots.FetchTimeout
	}
	if cfg.Robots.UserAgent == "" {
		cfg.Robots.UserAgent = def.Robots.UserAgent
	}
	if cfg.Renderer.NavigationTimeout <= 0 {
		cfg.Renderer.NavigationTimeout = def.Renderer.NavigationTimeout
	}
	if cfg.Renderer.SelectorWait <= 0 {
		cfg.Renderer.SelectorWait = def.Renderer.SelectorWait
	}
	if cfg.Renderer.MaxBrowserContexts <= 0 {
		cfg.Renderer.MaxBrowserContexts = def.Renderer.MaxBrowserContexts
	}
	if cfg.Discovery.ProbeTimeout <= 0 {
		cfg.Discovery.ProbeTimeout = def.Discovery.ProbeTimeout
	}
	if len(cfg.Discovery.TLDs) == 0 {
		cfg.Discovery.TLDs = def.Discovery.TLDs
	}
	if cfg.Verifier.MinConfidence <= 0 {
		cfg.Verifier.MinConfidence = def.Verifier.MinConfidence
	}
	if cfg.Verifier.MinContentLength <= 0 {
		cfg.Verifier.MinContentLength = def.Verifier.MinContentLength
	}
	if len(cfg.Verifier.ParkedMarkers) == 0 {
		cfg.Verifier.ParkedMarkers = def.Verifier.ParkedMarkers
	}
	if len(cfg.Verifier.UnrelatedPlatforms) == 0 {
		cfg.Verifier.UnrelatedPlatforms = def.Verifier.UnrelatedPlatforms
	}
}

// DefaultAppConfigJSON returns the built-in defaults, including the marker
// sets observed on parked and placeholder pages.
func DefaultAppConfigJSON() AppConfigJSON {
	return AppConfigJSON{
		Server: ServerConfig{
			Port:   "8080",
			APIKey: DefaultSystemAPIKeyPlaceholder,
		},
		Fetcher: FetcherConfigJSON{
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			},
			DefaultHeaders: map[string]string{
				"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
				"Accept-Language":           "en-US,en;q=0.5",
				"Connection":                "keep-alive",
				"Upgrade-Insecure-Requests": "1",
				"Cache-Control":             "max-age=0",
			},
			RequestTimeoutSeconds: 30,
			MaxRedirects:          5,
			RequestDelayMs:        DefaultRequestDelayMs,
			MaxBodyBytes:          10 * 1024 * 1024,
		},
		Robots: RobotsConfigJSON{
			FetchTimeoutSeconds: 10,
			UserAgent:           "FlexOfficeBot",
			CacheTTLSeconds:     0,
		},
		Renderer: RendererConfigJSON{
			Enabled:                  true,
			NavigationTimeoutSeconds: 30,
			SelectorWaitSeconds:      10,
			MaxBrowserContexts:       4,
			NoSandbox:                false,
		},
		Discovery: DiscoveryConfigJSON{
			SearchDelayMs:       DefaultSearchDelayMs,
			ProbeDelayMs:        DefaultProbeDelayMs,
			ProbeTimeoutSeconds: 5,
			TLDs:                []string{".com", ".co", ".io", ".co.uk", ".org"},
			Resolvers:           []string{"1.1.1.1:53", "8.8.8.8:53"},
		},
		Verifier: VerifierConfigJSON{
			MinConfidence:    0.6,
			MinContentLength: 1000,
			ParkedMarkers: []string{
				"this domain is for sale",
				"domain parking",
				"buy this domain",
				"parked domain",
				"coming soon",
				"under construction",
				"godaddy.com",
				"domain.com",
				"sedo.com",
			},
			UnrelatedPlatforms: []string{
				"facebook.com",
				"twitter.com",
				"linkedin.com",
				"instagram.com",
				"youtube.com",
				"google.com",
				"wordpress.com",
				"blogspot.com",
				"wix.com",
				"squarespace.com",
			},
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

// DefaultConfig materializes the defaults as a runtime AppConfig. Tests and
// library consumers use this instead of going through Load.
func DefaultConfig() *AppConfig {
	cfg := convert(DefaultAppConfigJSON())
	applyFallbacks(cfg)
	return cfg
}
