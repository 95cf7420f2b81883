package models

// CheckConfig controls the consumer-side checks run by `witag check`.
type CheckConfig struct {
	RequireURL bool `yaml:"require_url" mapstructure:"require_url"`
}

// LogConfig controls the slog handler built at startup.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
}

// Config holds the settings read from .witagrc via Viper.
type Config struct {
	// Manifests are glob patterns, relative to the base path, of the
	// manifest files to load.
	Manifests []string `yaml:"manifests" mapstructure:"manifests"`

	// Links maps a work item type to a URL template used when a tag carries
	// no URL of its own. Templates may use {id} and {type}.
	Links map[WorkItemType]string `yaml:"links,omitempty" mapstructure:"links"`

	Check CheckConfig `yaml:"check" mapstructure:"check"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}
