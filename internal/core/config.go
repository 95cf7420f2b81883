// Package core contains the services that consume work item declarations:
// configuration, manifest loading, link rendering, checks and queries.
package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
	"github.com/valter-silva-au/witag/pkg/models"
)

// ConfigFileName is the name of the configuration file, without extension.
const ConfigFileName = ".witagrc"

// DefaultManifest is loaded when no manifests are configured.
const DefaultManifest = "workitems.yaml"

// ConfigurationManager defines the interface for loading and validating the
// .witagrc configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	basePath string
	file     string
}

// NewConfigurationManager creates a ConfigurationManager that reads .witagrc
// from basePath. A non-empty file overrides the lookup with an explicit path.
func NewConfigurationManager(basePath, file string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath, file: file}
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Manifests: []string{DefaultManifest},
		Log:       models.LogConfig{Level: "warn"},
	}
}

// LoadConfig reads the configuration file. If it does not exist, defaults
// are returned.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if cm.file != "" {
		v.SetConfigFile(cm.file)
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(cm.basePath)
	}
	v.SetEnvPrefix("WITAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("manifests", cfg.Manifests)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("check.require_url", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Manifests = v.GetStringSlice("manifests")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Check.RequireURL = v.GetBool("check.require_url")

	links := v.GetStringMapString("links")
	if len(links) > 0 {
		cfg.Links = make(map[models.WorkItemType]string, len(links))
		for k, tmpl := range links {
			cfg.Links[models.WorkItemType(strings.ToUpper(k))] = tmpl
		}
	}

	return cfg, nil
}

// ValidateConfig checks cfg for invalid values and reports all of them.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if len(cfg.Manifests) == 0 {
		errs = append(errs, "manifests must list at least one pattern")
	}
	for _, pattern := range cfg.Manifests {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Sprintf("manifests: invalid pattern %q", pattern))
		}
	}

	for t := range cfg.Links {
		if !t.Valid() {
			errs = append(errs, fmt.Sprintf("links: unknown work item type %q", t))
		}
	}

	if _, err := ParseLogLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseLogLevel maps a configured level name to a slog.Level. An empty name
// means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log.level: unknown level %q (use debug, info, warn or error)", s)
	}
}
