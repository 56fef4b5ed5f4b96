package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/docskema/docimport"
	"github.com/reoring/docskema/docschema"
)

// Config is the merged CLI configuration. Precedence: flags, environment
// (DOCSKEMA_*), config file, defaults.
type Config struct {
	Lang          string `mapstructure:"lang"`
	Strict        bool   `mapstructure:"strict"`
	FailFast      bool   `mapstructure:"fail_fast"`
	TypeKey       string `mapstructure:"type_key"`
	ApplyDefaults bool   `mapstructure:"apply_defaults"`
}

// config keys and the persistent flags bound to them
var flagKeys = map[string]string{
	"lang":           "lang",
	"strict":         "strict",
	"fail_fast":      "fail-fast",
	"type_key":       "type-key",
	"apply_defaults": "defaults",
}

// loadConfig reads docskema.yaml from the working directory, or path when set.
// A missing default file is not an error; a missing explicit file is.
func loadConfig(cmd *cobra.Command, path string) (Config, error) {
	v := viper.New()
	v.SetDefault("lang", "en")
	v.SetDefault("type_key", docschema.DefaultTypeKey)

	v.SetEnvPrefix("DOCSKEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docskema")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.TypeKey == "" {
		cfg.TypeKey = docschema.DefaultTypeKey
	}
	return cfg, nil
}

// importOptions maps the configuration onto translator options.
func (c Config) importOptions() docimport.Options {
	opts := docimport.Options{TypeKey: c.TypeKey, ApplyDefaults: c.ApplyDefaults}
	if c.Strict {
		opts.Unknown = docimport.UnknownStrict
	}
	return opts
}
