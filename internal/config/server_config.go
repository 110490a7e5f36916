package config

import "time"

// ServerConfig defines the HTTP API listener
type ServerConfig struct {
	ListenAddress    string `json:"listen_address,omitempty" yaml:"listen_address,omitempty" validate:"required,hostname_port"`
	ReadTimeoutSecs  int    `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"min=1"`
	WriteTimeoutSecs int    `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"min=1"`
	MaxBodyBytes     int64  `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=1"`
	EnableMetrics    bool   `json:"enable_metrics" yaml:"enable_metrics"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddress:    DefaultServerListenAddress,
		ReadTimeoutSecs:  DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs: DefaultServerWriteTimeoutSecs,
		MaxBodyBytes:     DefaultServerMaxBodyBytes,
		EnableMetrics:    true,
	}
}

// ReadTimeout returns the read timeout as a duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

// CLIConfig holds settings for batch command-line runs
type CLIConfig struct {
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"min=1,max=256"`
}

// NewDefaultCLIConfig creates default CLI configuration
func NewDefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Concurrency: DefaultCLIConcurrency,
	}
}
