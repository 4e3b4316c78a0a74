package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

// EnvPrefix is the prefix of environment variables that override file settings,
// e.g. K8STOOLS_PORT or K8STOOLS_ENABLED_TOOLS=get_namespaces,get_pod_spec.
const EnvPrefix = "K8STOOLS"

// Transport names
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// StaticConfig represents the static configuration for the k8stools MCP server
type StaticConfig struct {
	// Server configuration
	Port       int    `yaml:"port" mapstructure:"port"`
	Transport  string `yaml:"transport" mapstructure:"transport"`
	SSEBaseURL string `yaml:"sse_base_url" mapstructure:"sse_base_url"`

	// Logging configuration
	LogLevel      int    `yaml:"log_level" mapstructure:"log_level"`
	LogFile       string `yaml:"log_file" mapstructure:"log_file"`
	LogFormat     string `yaml:"log_format" mapstructure:"log_format"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb" mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups" mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days" mapstructure:"log_max_age_days"`

	// Cluster configuration
	Kubeconfig string `yaml:"kubeconfig" mapstructure:"kubeconfig"`
	Context    string `yaml:"context" mapstructure:"context"`

	// Output configuration
	Output string `yaml:"output" mapstructure:"output"`

	// Tool configuration
	EnabledTools  []string `yaml:"enabled_tools" mapstructure:"enabled_tools"`
	DisabledTools []string `yaml:"disabled_tools" mapstructure:"disabled_tools"`

	// HTTP configuration
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *StaticConfig {
	return &StaticConfig{
		Port:           0, // 0 means stdio mode
		Transport:      TransportStdio,
		LogLevel:       0,
		LogFormat:      LogFormatConsole,
		Output:         paramutil.FormatJSON,
		AllowedOrigins: []string{"*"},
	}
}

// keys maps configuration keys to the command-line flags that set them. An
// empty flag name means the key is set from the file or environment only.
var keys = map[string]string{
	"port":             "port",
	"transport":        "transport",
	"sse_base_url":     "sse-base-url",
	"log_level":        "log-level",
	"log_file":         "log-file",
	"log_format":       "log-format",
	"log_max_size_mb":  "",
	"log_max_backups":  "",
	"log_max_age_days": "",
	"kubeconfig":       "kubeconfig",
	"context":          "context",
	"output":           "output",
	"enabled_tools":    "enabled-tools",
	"disabled_tools":   "disabled-tools",
	"allowed_origins":  "allowed-origins",
}

// Load merges, from lowest to highest precedence, the defaults, the YAML file at
// configPath (optional), K8STOOLS_* environment variables and the changed flags
// in flags (may be nil). The result is validated.
func Load(configPath string, flags *pflag.FlagSet) (*StaticConfig, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("port", defaults.Port)
	v.SetDefault("sse_base_url", defaults.SSEBaseURL)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("log_max_size_mb", defaults.LogMaxSizeMB)
	v.SetDefault("log_max_backups", defaults.LogMaxBackups)
	v.SetDefault("log_max_age_days", defaults.LogMaxAgeDays)
	v.SetDefault("kubeconfig", defaults.Kubeconfig)
	v.SetDefault("context", defaults.Context)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("enabled_tools", defaults.EnabledTools)
	v.SetDefault("disabled_tools", defaults.DisabledTools)
	v.SetDefault("allowed_origins", defaults.AllowedOrigins)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// transport has no default, and list settings default to nil, so every key
	// is bound explicitly to stay visible to Unmarshal.
	for key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if flags != nil {
		for key, name := range keys {
			if name == "" {
				continue
			}
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &StaticConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.Output = strings.ToLower(cfg.Output)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
		if cfg.Port > 0 {
			cfg.Transport = TransportHTTP
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *StaticConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}

	if c.LogLevel < 0 || c.LogLevel > 9 {
		return fmt.Errorf("log_level must be between 0 and 9, got %d", c.LogLevel)
	}

	switch c.Transport {
	case "", TransportStdio:
	case TransportHTTP:
		if c.Port == 0 {
			return fmt.Errorf("transport %q requires a port", c.Transport)
		}
	default:
		return fmt.Errorf("transport must be one of: stdio, http, got %s", c.Transport)
	}

	if err := paramutil.ValidateFormat(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	switch c.LogFormat {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("log_format must be one of: console, json, got %s", c.LogFormat)
	}

	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}

	for _, tool := range c.EnabledTools {
		for _, disabled := range c.DisabledTools {
			if tool == disabled {
				return fmt.Errorf("tool %s is both enabled and disabled", tool)
			}
		}
	}

	return nil
}

// IsHTTP reports whether the server should listen on HTTP rather than stdio
func (c *StaticConfig) IsHTTP() bool {
	return c.Transport == TransportHTTP
}

// GetPortString returns the listen address for HTTP mode
func (c *StaticConfig) GetPortString() string {
	return fmt.Sprintf(":%d", c.Port)
}
