// ABOUTME: healthopt configuration management with backend selection.
// ABOUTME: Handles settings, analysis policy overrides, and the storage backend factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harperreed/healthopt/internal/analysis"
	"github.com/harperreed/healthopt/internal/storage"
)

// Backend names accepted in the config file.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config stores healthopt configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts healthopt.db here. Badger keeps its files under kv/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/healthopt.
	DataDir string `json:"data_dir,omitempty"`

	// Analysis overrides individual analysis thresholds. Unset fields keep their defaults.
	Analysis *AnalysisOverrides `json:"analysis,omitempty"`
}

// AnalysisOverrides mirrors analysis.Policy with optional fields.
type AnalysisOverrides struct {
	WeakBelow           *float64 `json:"weak_below,omitempty"`
	ModerateBelow       *float64 `json:"moderate_below,omitempty"`
	MinAlignedPairs     *int     `json:"min_aligned_pairs,omitempty"`
	MinWeeklyPairs      *int     `json:"min_weekly_pairs,omitempty"`
	MinCalorieDays      *int     `json:"min_calorie_days,omitempty"`
	MinWeeklyBuckets    *int     `json:"min_weekly_buckets,omitempty"`
	NormalSystolicBelow *float64 `json:"normal_systolic_below,omitempty"`
	WeightLossMargin    *float64 `json:"weight_loss_margin,omitempty"`
	WeightTrendMargin   *float64 `json:"weight_trend_margin,omitempty"`
	StrengthGainOutlier *float64 `json:"strength_gain_outlier,omitempty"`
	RecentWindowDays    *int     `json:"recent_window_days,omitempty"`
	PriorWindowDays     *int     `json:"prior_window_days,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// Policy returns the default analysis policy with any configured overrides applied.
func (c *Config) Policy() (analysis.Policy, error) {
	p := analysis.DefaultPolicy()
	o := c.Analysis
	if o == nil {
		return p, nil
	}

	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&p.WeakBelow, o.WeakBelow)
	setFloat(&p.ModerateBelow, o.ModerateBelow)
	setInt(&p.MinAlignedPairs, o.MinAlignedPairs)
	setInt(&p.MinWeeklyPairs, o.MinWeeklyPairs)
	setInt(&p.MinCalorieDays, o.MinCalorieDays)
	setInt(&p.MinWeeklyBuckets, o.MinWeeklyBuckets)
	setFloat(&p.NormalSystolicBelow, o.NormalSystolicBelow)
	setFloat(&p.WeightLossMargin, o.WeightLossMargin)
	setFloat(&p.WeightTrendMargin, o.WeightTrendMargin)
	setFloat(&p.StrengthGainOutlier, o.StrengthGainOutlier)
	setInt(&p.RecentWindowDays, o.RecentWindowDays)
	setInt(&p.PriorWindowDays, o.PriorWindowDays)

	if err := p.Validate(); err != nil {
		return analysis.DefaultPolicy(), fmt.Errorf("analysis settings in %s: %w", GetConfigPath(), err)
	}
	return p, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, storage.DefaultDBName))
	case BackendBadger:
		return storage.OpenKV(filepath.Join(dataDir, storage.KVDirName))
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthopt", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("no config file, using defaults", "path", path)
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug("loaded config", "path", path, "backend", cfg.GetBackend())
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
