package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// configFile is looked up in the working directory unless -config is given.
const configFile = "statum.yaml"

// Config is the configuration of a statum run. Each source overrides the
// previous one: defaults, statum.yaml, STATUM_* environment variables and
// command-line flags.
type Config struct {
	Tags    string `yaml:"tags" env:"STATUM_TAGS"`
	Tests   bool   `yaml:"tests" env:"STATUM_TESTS"`
	Output  string `yaml:"output" env:"STATUM_OUTPUT"`
	Color   string `yaml:"color" env:"STATUM_COLOR"`
	Verbose bool   `yaml:"verbose" env:"STATUM_VERBOSE"`
}

func defaultConfig() Config {
	return Config{Output: "statum_gen.go", Color: "auto"}
}

// loadConfig reads the config file and the environment on top of the
// defaults. A missing statum.yaml is fine, but a missing file given by path
// is an error.
func loadConfig(wd, path string, environ map[string]string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = configFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// override sets the fields whose flags are given on the command line.
// Flags left at their defaults do not override anything.
func (cfg *Config) override(flags *flag.FlagSet) {
	flags.Visit(func(f *flag.Flag) {
		v := f.Value.(flag.Getter).Get()
		switch f.Name {
		case "b":
			cfg.Tags = v.(string)
		case "t":
			cfg.Tests = v.(bool)
		case "o":
			cfg.Output = v.(string)
		case "c":
			cfg.Color = v.(string)
		case "v":
			cfg.Verbose = v.(bool)
		}
	})
}

func (cfg Config) validate() error {
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q: want auto, always or never", cfg.Color)
	}
	if filepath.Base(cfg.Output) != cfg.Output || filepath.Ext(cfg.Output) != ".go" {
		return fmt.Errorf("invalid output %q: want a .go file name without directories", cfg.Output)
	}
	return nil
}
