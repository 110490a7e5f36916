package config

import (
	"time"

	"github.com/aleister1102/urlstripper/internal/options"
)

// OptionsConfig selects where the rule strings come from. With the static
// backend the two pattern fields are the rules; the file and sqlite backends
// read them from FilePath or SQLitePath instead.
type OptionsConfig struct {
	Backend          string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,optionsbackend"`
	RemovePatterns   string `json:"remove_patterns" yaml:"remove_patterns"`
	FragmentPatterns string `json:"fragment_patterns" yaml:"fragment_patterns"`
	FilePath         string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	WatchFile        bool   `json:"watch_file,omitempty" yaml:"watch_file,omitempty"`
	ReloadDelayMs    int    `json:"reload_delay_ms,omitempty" yaml:"reload_delay_ms,omitempty" validate:"min=0"`
	SQLitePath       string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
}

// NewDefaultOptionsConfig creates default options configuration
func NewDefaultOptionsConfig() OptionsConfig {
	return OptionsConfig{
		Backend:          DefaultOptionsBackend,
		RemovePatterns:   options.DefaultQueryRules,
		FragmentPatterns: options.DefaultFragmentRules,
		FilePath:         DefaultOptionsFilePath,
		ReloadDelayMs:    DefaultOptionsReloadDelay,
		SQLitePath:       DefaultOptionsSQLitePath,
	}
}

// ReloadDelay returns the debounce delay for file watching.
func (c OptionsConfig) ReloadDelay() time.Duration {
	if c.ReloadDelayMs <= 0 {
		return DefaultOptionsReloadDelay * time.Millisecond
	}
	return time.Duration(c.ReloadDelayMs) * time.Millisecond
}
