package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/badno/letterbox/internal/images"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultConfigDir  = ".letterbox"
	DefaultConfigFile = "config.yaml"

	// EnvPrefix marks environment overrides; nested keys use "__",
	// e.g. LETTERBOX_RESIZE__SIZE=256.
	EnvPrefix = "LETTERBOX_"
)

// Config represents the application configuration
type Config struct {
	Resize  ResizeConfig  `yaml:"resize" koanf:"resize"`
	Batch   BatchConfig   `yaml:"batch" koanf:"batch"`
	Logging LoggingConfig `yaml:"logging" koanf:"logging"`
}

// ResizeConfig holds canvas settings
type ResizeConfig struct {
	Size   int    `yaml:"size" koanf:"size"`     // Canvas width and height in pixels
	Filter string `yaml:"filter" koanf:"filter"` // Resampling filter name
}

// BatchConfig holds directory scan settings
type BatchConfig struct {
	BaseIndex     int    `yaml:"base_index" koanf:"base_index"`           // First output file number
	OutputDirName string `yaml:"output_dir_name" koanf:"output_dir_name"` // Created inside the input directory
	Workers       int    `yaml:"workers" koanf:"workers"`
	KeepGoing     bool   `yaml:"keep_going" koanf:"keep_going"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string `yaml:"level" koanf:"level"`
	JSON  bool   `yaml:"json" koanf:"json"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Resize: ResizeConfig{
			Size:   512,
			Filter: images.DefaultFilter,
		},
		Batch: BatchConfig{
			BaseIndex:     1000,
			OutputDirName: "converted",
			Workers:       1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads the configuration from path, or from the default location when
// path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return LoadFrom(path)
}

// LoadFrom layers a YAML file (optional) and LETTERBOX_ environment
// variables over the defaults.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %w", images.ErrConfig, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to read environment: %w", images.ErrConfig, err)
	}

	config := DefaultConfig()
	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", images.ErrConfig, err)
	}

	// Apply defaults for missing values
	applyDefaults(config)

	return config, nil
}

// Exists checks if the config file exists
func Exists(path string) bool {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return false
		}
		path = p
	}

	_, err := os.Stat(path)
	return err == nil
}

// applyDefaults fills in blank strings and unset counts. Size is left alone so
// that an explicit 0 is reported by Validate.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if strings.TrimSpace(config.Resize.Filter) == "" {
		config.Resize.Filter = defaults.Resize.Filter
	}
	if strings.TrimSpace(config.Batch.OutputDirName) == "" {
		config.Batch.OutputDirName = defaults.Batch.OutputDirName
	}
	if config.Batch.Workers == 0 {
		config.Batch.Workers = defaults.Batch.Workers
	}
	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.Resize.Size <= 0 {
		return fmt.Errorf("%w: resize.size must be positive, got %d", images.ErrConfig, c.Resize.Size)
	}
	if _, err := images.ParseFilter(c.Resize.Filter); err != nil {
		return err
	}
	if c.Batch.BaseIndex < 0 {
		return fmt.Errorf("%w: batch.base_index must not be negative, got %d", images.ErrConfig, c.Batch.BaseIndex)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1, got %d", images.ErrConfig, c.Batch.Workers)
	}
	return nil
}

// Get retrieves a specific config value
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "resize.size":
		return strconv.Itoa(c.Resize.Size), nil
	case "resize.filter":
		return c.Resize.Filter, nil
	case "batch.base_index":
		return strconv.Itoa(c.Batch.BaseIndex), nil
	case "batch.output_dir_name":
		return c.Batch.OutputDirName, nil
	case "batch.workers":
		return strconv.Itoa(c.Batch.Workers), nil
	case "batch.keep_going":
		return strconv.FormatBool(c.Batch.KeepGoing), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.json":
		return strconv.FormatBool(c.Logging.JSON), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Keys lists every key accepted by Get.
func Keys() []string {
	return []string{
		"resize.size",
		"resize.filter",
		"batch.base_index",
		"batch.output_dir_name",
		"batch.workers",
		"batch.keep_going",
		"logging.level",
		"logging.json",
	}
}
