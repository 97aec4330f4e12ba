// Package config holds the run configuration of sofia2hdf5.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// key=value arguments. The command line applies its explicit flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExampleName is the file written by WriteExample when no path is given.
const ExampleName = "sofia2hdf5.yml"

// ErrUsage is returned for malformed command line arguments.
var ErrUsage = errors.New("usage error")

// Config is the full run configuration.
type Config struct {
	PrintExamples     bool    `yaml:"print_examples"`
	SofiaCatalog      string  `yaml:"sofia_catalog"`
	SofiaInput        string  `yaml:"sofia_input"`
	ConfigurationFile string  `yaml:"configuration_file"`
	General           General `yaml:"general"`
}

// General are the settings shared by every run.
type General struct {
	Verbose         bool   `yaml:"verbose"`
	NCPU            int    `yaml:"ncpu"`
	Directory       string `yaml:"directory"`
	Multiprocessing bool   `yaml:"multiprocessing"`
	Overwrite       bool   `yaml:"overwrite"`
	ParquetCatalog  bool   `yaml:"parquet_catalog"`
	LogFormat       string `yaml:"log_format"`
}

// Defaults returns the built-in configuration. Directory is the current
// working directory.
func Defaults() Config {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return Config{
		General: General{
			Verbose:         true,
			Directory:       dir,
			Multiprocessing: true,
			LogFormat:       "console",
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if err := cfg.merge(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("configuration file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("configuration file %s: %w", path, err)
	}
	return nil
}

// FromArgs builds the configuration for a run. configFile, when set, wins
// over a configuration_file= argument. The file is merged over the
// defaults and args are applied on top.
func FromArgs(configFile string, args []string) (Config, error) {
	cfg := Defaults()
	if err := ApplyArgs(&cfg, args); err != nil {
		return Config{}, err
	}
	if configFile == "" {
		configFile = cfg.ConfigurationFile
	}
	if configFile == "" {
		return cfg, nil
	}

	cfg = Defaults()
	if err := cfg.merge(configFile); err != nil {
		return Config{}, err
	}
	cfg.ConfigurationFile = configFile
	if err := ApplyArgs(&cfg, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyArgs applies key=value arguments to cfg. Unknown keys are ignored;
// an argument without '=' or with an unparsable value is ErrUsage.
func ApplyArgs(cfg *Config, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("unknown argument %q: %w", arg, ErrUsage)
		}

		var err error
		switch key {
		case "sofia_input":
			cfg.SofiaInput = value
		case "sofia_catalog":
			cfg.SofiaCatalog = value
		case "configuration_file":
			cfg.ConfigurationFile = value
		case "print_examples":
			cfg.PrintExamples, err = parseBool(value)
		case "general.directory":
			cfg.General.Directory = value
		case "general.ncpu":
			cfg.General.NCPU, err = strconv.Atoi(value)
		case "general.verbose":
			cfg.General.Verbose, err = parseBool(value)
		case "general.multiprocessing":
			cfg.General.Multiprocessing, err = parseBool(value)
		case "general.overwrite":
			cfg.General.Overwrite, err = parseBool(value)
		case "general.parquet_catalog":
			cfg.General.ParquetCatalog, err = parseBool(value)
		case "general.log_format":
			cfg.General.LogFormat = value
		}
		if err != nil {
			return fmt.Errorf("argument %s: invalid value %q: %w", key, value, ErrUsage)
		}
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Finalize resolves derived values: a non-positive ncpu becomes one less
// than the number of CPUs (at least 1), and Directory gets a trailing '/'.
func Finalize(cfg *Config) {
	if cfg.General.NCPU <= 0 {
		cfg.General.NCPU = max(runtime.NumCPU()-1, 1)
	}
	if cfg.General.Directory == "" {
		cfg.General.Directory = "."
	}
	if !strings.HasSuffix(cfg.General.Directory, "/") {
		cfg.General.Directory += "/"
	}
}

// WriteExample writes the default configuration as YAML to path, or to
// ExampleName when path is empty, and returns the path written.
func WriteExample(path string) (string, error) {
	if path == "" {
		path = ExampleName
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return "", fmt.Errorf("encode example: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write example: %w", err)
	}
	return path, nil
}
