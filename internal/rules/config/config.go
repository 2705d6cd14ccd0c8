package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable the tool reads.
const EnvPrefix = "QLR_"

// ConfigFileEnv names a YAML config file when --config is not given.
const ConfigFileEnv = EnvPrefix + "CONFIG"

// AppConfig holds the settings for one extraction run.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	// It selects console or JSON log encoding.
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// LogFiles are the query logs to read, in order.
	LogFiles []string `koanf:"log_files" validate:"required,min=1,dive,required"`

	// Output is the rule file to write. Empty means stdout.
	Output string `koanf:"output" validate:"omitempty,file_target"`

	// Unique drops duplicate rules when true.
	Unique bool `koanf:"unique"`

	// Apex folds each blocked host to its registrable domain.
	Apex bool `koanf:"apex"`

	// MetricsFile, when set, receives run counters in Prometheus text format.
	MetricsFile string `koanf:"metrics_file" validate:"omitempty,file_target"`
}

// DEFAULT_APP_CONFIG holds the values used when no other layer sets a key.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:      "dev",
	LogLevel: "info",
	Unique:   true,
}

// LoadOptions carries the inputs that do not come from the environment.
type LoadOptions struct {
	// ConfigFile is an optional YAML file; empty falls back to QLR_CONFIG.
	ConfigFile string
	// Overrides are applied last, keyed like the koanf tags above.
	// The CLI passes only the flags the user actually set.
	Overrides map[string]any
}

// validFileTarget rejects paths that can only name a directory.
func validFileTarget(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "" {
		return false
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return false
	}
	base := filepath.Base(p)
	return base != "." && base != ".."
}

// envLoader loads environment variables with the prefix "QLR_".
// Keys are lowercased with the prefix removed; list values may be separated
// by commas or whitespace. It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			value = strings.TrimSpace(value)

			if key == "log_files" && value != "" {
				return key, strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
			}
			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// fileLoader loads a YAML config file.
var fileLoader = func(k *koanf.Koanf, path string) error {
	return k.Load(file.Provider(path), yaml.Parser())
}

// registerValidation registers the custom "file_target" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("file_target", validFileTarget)
}

// Load merges defaults, the optional config file, QLR_* environment
// variables and opts.Overrides, in that order, then validates the result.
func Load(opts LoadOptions) (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := fileLoader(k, path); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", path, err)
		}
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
