// Package config resolves the run-tests configuration from CLI flags, CI inputs,
// environment variables and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mablhq/github-run-tests-action/pkg/duration"
)

// InputSource supplies pipeline inputs by name. An empty string means the input is unset.
type InputSource interface {
	Input(name string) string
}

// ConfigOptions defines options for adding a configuration parameter.
type ConfigOptions struct {
	Key          string   // Key of the value, also the default flag name
	FlagName     string   // Custom flag name (optional)
	Input        string   // CI input name; empty when the pipeline does not expose it
	EnvVars      []string // Environment variables, first match wins
	Description  string   // Flag description
	DefaultValue any      // Default value, also selects the flag type
}

// ConfigHandler binds configuration parameters to cobra flags and viper.
type ConfigHandler struct {
	v       *viper.Viper
	options map[string]ConfigOptions
	flags   map[string]*pflag.Flag
	now     func() time.Time
}

// New creates a ConfigHandler with its own viper instance.
func New() *ConfigHandler {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	return &ConfigHandler{
		v:       v,
		options: make(map[string]ConfigOptions),
		flags:   make(map[string]*pflag.Flag),
		now:     time.Now,
	}
}

// AddConfig adds a configuration parameter to both cobra and viper.
func (c *ConfigHandler) AddConfig(cmd *cobra.Command, opts ConfigOptions) error {
	key := opts.Key
	defaultValue := opts.DefaultValue
	c.v.SetDefault(key, defaultValue)

	flagName := opts.FlagName
	if flagName == "" {
		flagName = key
	}

	flagSet := cmd.Flags()
	switch value := defaultValue.(type) {
	case string:
		flagSet.String(flagName, value, opts.Description)
	case bool:
		flagSet.Bool(flagName, value, opts.Description)
	case time.Duration:
		flagSet.Duration(flagName, value, opts.Description)
	default:
		return fmt.Errorf("unsupported type for key %s", key)
	}

	flag := flagSet.Lookup(flagName)
	if err := c.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind %s: %w", key, err)
	}

	if len(opts.EnvVars) > 0 {
		if err := c.v.BindEnv(append([]string{key}, opts.EnvVars...)...); err != nil {
			return fmt.Errorf("failed to bind env vars %v for %s: %w", opts.EnvVars, key, err)
		}
	}

	c.options[key] = opts
	c.flags[key] = flag
	return nil
}

// AddConfigs registers every option in order.
func (c *ConfigHandler) AddConfigs(cmd *cobra.Command, opts []ConfigOptions) error {
	for _, opt := range opts {
		if err := c.AddConfig(cmd, opt); err != nil {
			return err
		}
	}
	return nil
}

// GetString resolves key with the precedence: changed flag, CI input, environment, default.
// inputs may be nil.
func (c *ConfigHandler) GetString(key string, inputs InputSource) string {
	if flag, ok := c.flags[key]; ok && flag.Changed {
		return c.v.GetString(key)
	}

	if opts, ok := c.options[key]; ok && opts.Input != "" && inputs != nil {
		if value := inputs.Input(opts.Input); value != "" {
			return value
		}
	}

	return c.v.GetString(key)
}

// GetBool resolves key like GetString. Only a case-insensitive "true" is true.
func (c *ConfigHandler) GetBool(key string, inputs InputSource) bool {
	return strings.EqualFold(strings.TrimSpace(c.GetString(key, inputs)), "true")
}

// GetDuration resolves key like GetString and parses it with duration.Parse.
func (c *ConfigHandler) GetDuration(key string, inputs InputSource) (time.Duration, error) {
	return duration.Parse(c.GetString(key, inputs))
}

// GetList resolves key like GetString and splits it into a list.
func (c *ConfigHandler) GetList(key string, inputs InputSource) []string {
	return ParseList(c.GetString(key, inputs))
}

// GetLines resolves key like GetString and splits it on newlines.
func (c *ConfigHandler) GetLines(key string, inputs InputSource) []string {
	return ParseLines(c.GetString(key, inputs))
}
