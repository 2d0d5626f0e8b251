// Package settings loads process settings for the configen command from
// struct defaults, CONFIGEN_* environment variables and explicitly set
// command-line flags, in that order of precedence.
package settings

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CONFIGEN_"

// Settings controls a configen run. Manifest content is configured
// separately.
type Settings struct {
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON   bool   `koanf:"log_json"`
	Strict    bool   `koanf:"strict"`
	Check     bool   `koanf:"check"`
	OutputDir string `koanf:"output_dir"`
	Parallel  int    `koanf:"parallel" validate:"min=1,max=64"`
	Dump      bool   `koanf:"dump"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		LogLevel: "info",
		Parallel: 4,
	}
}

// FlagKeys maps command-line flag names onto settings keys.
var FlagKeys = map[string]string{
	"log-level": "log_level",
	"log-json":  "log_json",
	"strict":    "strict",
	"check":     "check",
	"out":       "output_dir",
	"parallel":  "parallel",
	"dump":      "dump",
}

// Load layers defaults, environment and the flags in fs that were set
// explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if fs != nil {
		var setErr error

		fs.Visit(func(f *pflag.Flag) {
			key, ok := FlagKeys[f.Name]
			if !ok || setErr != nil {
				return
			}

			setErr = k.Set(key, f.Value.String())
		})

		if setErr != nil {
			return nil, fmt.Errorf("failed to apply flags: %w", setErr)
		}
	}

	var s Settings

	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &s,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	s.LogLevel = strings.ToLower(s.LogLevel)

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

// transformEnvKey maps CONFIGEN_LOG_LEVEL to log_level. Unknown
// variables are dropped.
func transformEnvKey(key, value string) (string, any) {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, known := range FlagKeys {
		if known == k {
			return k, value
		}
	}

	return "", nil
}
