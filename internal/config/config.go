package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all subwatch configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	TUI        TUIConfig        `toml:"tui"`
	Prices     PriceOverrides   `toml:"prices"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	UpcomingDays    int    `toml:"upcoming_days"`
	IncludeInactive bool   `toml:"include_inactive"`
	DataDir         string `toml:"data_dir,omitempty"`
	DatabaseURL     string `toml:"database_url,omitempty"`
}

// DaemonConfig holds local daemon settings.
type DaemonConfig struct {
	ListenAddr       string `toml:"listen_addr"`
	PollIntervalSecs int    `toml:"poll_interval_secs"`
	RefreshCron      string `toml:"refresh_cron"`
}

// BudgetConfig holds budget tracking settings.
type BudgetConfig struct {
	MonthlyUSD *float64 `toml:"monthly_usd,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// AdvisorConfig holds AI advisor settings.
type AdvisorConfig struct {
	APIKey       string `toml:"api_key,omitempty"`
	Model        string `toml:"model,omitempty"`
	CacheTTLMins int    `toml:"cache_ttl_mins"`
}

// TUIConfig holds dashboard behavior settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// PriceOverrides allows user-defined annual plan prices by provider name.
type PriceOverrides struct {
	Overrides map[string]AnnualPriceOverride `toml:"overrides,omitempty"`
}

// AnnualPriceOverride holds a per-provider annual price override.
type AnnualPriceOverride struct {
	AnnualUSD *float64 `toml:"annual_usd,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			UpcomingDays: 7,
		},
		Daemon: DaemonConfig{
			ListenAddr:       "127.0.0.1:7600",
			PollIntervalSecs: 300,
			RefreshCron:      "0 9 * * *",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Advisor: AdvisorConfig{
			Model:        "claude-sonnet-4-5",
			CacheTTLMins: 30,
		},
		TUI: TUIConfig{
			RefreshIntervalSec: 30,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "subwatch")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding subscription exports and the local
// database, honoring the config value and SUBWATCH_DATA_DIR.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if env := os.Getenv("SUBWATCH_DATA_DIR"); env != "" {
		return env
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "subwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "subwatch")
}

// DatabaseDSN returns the store DSN: SUBWATCH_DB, then the config value,
// then the default sqlite file under the data dir.
func DatabaseDSN(cfg Config) string {
	if env := os.Getenv("SUBWATCH_DB"); env != "" {
		return env
	}
	if cfg.General.DatabaseURL != "" {
		return cfg.General.DatabaseURL
	}
	return filepath.Join(DataDir(cfg), "subwatch.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetAdvisorAPIKey returns the API key from env var or config, in that order.
func GetAdvisorAPIKey(cfg Config) string {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key
	}
	return cfg.Advisor.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
