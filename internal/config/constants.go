package config

const (
	// ConfigPathEnv names the environment variable consulted by GetConfigPath.
	ConfigPathEnv = "URLSTRIPPER_CONFIG_PATH"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Options Defaults
	BackendStatic             = "static"
	BackendFile               = "file"
	BackendSQLite             = "sqlite"
	DefaultOptionsBackend     = BackendStatic
	DefaultOptionsFilePath    = "options.yaml"
	DefaultOptionsReloadDelay = 500
	DefaultOptionsSQLitePath  = "database/options.db"

	// Server Defaults
	DefaultServerListenAddress    = "127.0.0.1:8080"
	DefaultServerReadTimeoutSecs  = 10
	DefaultServerWriteTimeoutSecs = 10
	DefaultServerMaxBodyBytes     = 4 << 20

	// CLI Defaults
	DefaultCLIConcurrency = 4
)
