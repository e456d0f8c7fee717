// Package config loads relctx settings from .relctx.yaml and RELCTX_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vd09-projects/relctx/internal/source"
)

const (
	FileName  = ".relctx"
	EnvPrefix = "RELCTX"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Lang            string             `mapstructure:"lang"`
	Exclude         []string           `mapstructure:"exclude"`
	IgnorePrefixes  []string           `mapstructure:"ignore_prefixes"`
	MaxLines        int                `mapstructure:"max_lines"`
	MinLines        int                `mapstructure:"min_lines"`
	RelatedMaxLines int                `mapstructure:"related_max_lines"`
	RelatedMaxRefs  int                `mapstructure:"related_max_refs"`
	Tests           bool               `mapstructure:"tests"`
	Neighbors       NeighborsConfig    `mapstructure:"neighbors"`
	CallGraph       CallGraphConfig    `mapstructure:"callgraph"`
	Selection       bool               `mapstructure:"selection"`
	Notification    NotificationConfig `mapstructure:"notification"`
	Gateway         GatewayConfig      `mapstructure:"gateway"`
	Update          UpdateConfig       `mapstructure:"update"`
	Log             LogConfig          `mapstructure:"log"`
}

type NotificationConfig struct {
	Group   string `mapstructure:"group"`
	History string `mapstructure:"history"` // JSONL file; empty disables history
	Browser string `mapstructure:"browser"` // system|print
	Workers int    `mapstructure:"workers"`
}

// NeighborsConfig sets how many lines around a declaration are attached;
// zero on both sides disables it.
type NeighborsConfig struct {
	Before int `mapstructure:"before"`
	After  int `mapstructure:"after"`
}

type CallGraphConfig struct {
	MaxCallers int `mapstructure:"max_callers"`
	MaxCallees int `mapstructure:"max_callees"`
}

type GatewayConfig struct {
	Host string `mapstructure:"host"`
}

type UpdateConfig struct {
	Module string `mapstructure:"module"`
	Latest string `mapstructure:"latest"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig is the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Exclude:         []string{source.DefaultExclude},
		MaxLines:        120,
		MinLines:        3,
		RelatedMaxLines: 60,
		RelatedMaxRefs:  16,
		Neighbors:       NeighborsConfig{Before: 3, After: 0},
		CallGraph:       CallGraphConfig{MaxCallers: 8, MaxCallees: 8},
		Selection:       true,
		Notification: NotificationConfig{
			Group:   "relctx",
			History: filepath.Join(".relctx", "notifications.jsonl"),
			Browser: "system",
			Workers: 4,
		},
		Update: UpdateConfig{
			Module: "github.com/vd09-projects/relctx/cmd/relctx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("lang", d.Lang)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("ignore_prefixes", d.IgnorePrefixes)
	v.SetDefault("max_lines", d.MaxLines)
	v.SetDefault("min_lines", d.MinLines)
	v.SetDefault("related_max_lines", d.RelatedMaxLines)
	v.SetDefault("related_max_refs", d.RelatedMaxRefs)
	v.SetDefault("tests", d.Tests)
	v.SetDefault("neighbors.before", d.Neighbors.Before)
	v.SetDefault("neighbors.after", d.Neighbors.After)
	v.SetDefault("callgraph.max_callers", d.CallGraph.MaxCallers)
	v.SetDefault("callgraph.max_callees", d.CallGraph.MaxCallees)
	v.SetDefault("selection", d.Selection)
	v.SetDefault("notification.group", d.Notification.Group)
	v.SetDefault("notification.history", d.Notification.History)
	v.SetDefault("notification.browser", d.Notification.Browser)
	v.SetDefault("notification.workers", d.Notification.Workers)
	v.SetDefault("gateway.host", d.Gateway.Host)
	v.SetDefault("update.module", d.Update.Module)
	v.SetDefault("update.latest", d.Update.Latest)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads configFile when given, otherwise .relctx.{yaml,yml,json,toml}
// in repoRoot. A missing file is not an error. Environment variables such
// as RELCTX_GATEWAY_HOST override both.
func Load(repoRoot, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(repoRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Lang) {
	case "", "go", "java":
	default:
		return &FieldError{Field: "lang", Message: fmt.Sprintf("unsupported language %q", c.Lang)}
	}
	// first negative field in declaration order
	for _, f := range []struct {
		name string
		n    int
	}{
		{"max_lines", c.MaxLines},
		{"min_lines", c.MinLines},
		{"related_max_lines", c.RelatedMaxLines},
		{"related_max_refs", c.RelatedMaxRefs},
		{"neighbors.before", c.Neighbors.Before},
		{"neighbors.after", c.Neighbors.After},
		{"callgraph.max_callers", c.CallGraph.MaxCallers},
		{"callgraph.max_callees", c.CallGraph.MaxCallees},
		{"notification.workers", c.Notification.Workers},
	} {
		if f.n < 0 {
			return &FieldError{Field: f.name, Message: "must not be negative"}
		}
	}
	switch c.Notification.Browser {
	case "", "system", "print":
	default:
		return &FieldError{Field: "notification.browser", Message: fmt.Sprintf("unknown browser %q", c.Notification.Browser)}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &FieldError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &FieldError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if _, err := source.CompileExcludes(c.Exclude); err != nil {
		return &FieldError{Field: "exclude", Message: err.Error()}
	}
	return nil
}

// FieldError names the offending key; it matches ErrInvalid.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalid }
