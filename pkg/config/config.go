// Package config loads barnhunt settings from an optional TOML file.
//
// Settings are read from the file named by --config, or from
// ./barnhunt.toml when that exists. Command-line flags override file
// values. A missing default file is not an error; every setting has a
// default.
//
//	output_directory = "maps"
//	processes = 4
//	shell_mode = true
//	converter = "inkscape"
//	basename_template = "{{ svgname }}/{{ overlays|safepath|join:\"-\" }}"
//
//	[cache]
//	enabled = true
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/pipeline"
	"github.com/barnhunt/barnhunt/pkg/render"
	"github.com/barnhunt/barnhunt/pkg/template"
)

// DefaultFile is read when no config file is named explicitly.
const DefaultFile = "barnhunt.toml"

// Config holds all file-configurable settings.
type Config struct {
	OutputDirectory  string      `toml:"output_directory"`
	Processes        int         `toml:"processes"`
	ShellMode        bool        `toml:"shell_mode"`
	ShellTimeout     Duration    `toml:"shell_timeout"`
	Converter        string      `toml:"converter"`
	Inkscape         string      `toml:"inkscape"`
	RandomSeed       int64       `toml:"random_seed"`
	BasenameTemplate string      `toml:"basename_template"`
	Cache            CacheConfig `toml:"cache"`
}

// CacheConfig configures the converted page cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty selects the user cache directory
}

// Duration is a time.Duration written as a string such as "45s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputDirectory: pipeline.DefaultOutputDir,
		ShellMode:       true,
		ShellTimeout:    Duration{render.DefaultShellTimeout},
		Converter:       render.ConverterInkscape,
		Inkscape:        "inkscape",
		Cache:           CacheConfig{Enabled: true},
	}
}

// Load reads path over the defaults. An empty path reads DefaultFile if it
// exists.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings for consistency.
func (c *Config) Validate() error {
	if err := pipeline.ValidateProcesses(c.Processes); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "processes")
	}
	if !render.ValidConverters[c.Converter] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid converter: %q (must be one of: inkscape, rsvg)", c.Converter)
	}
	if c.ShellTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "shell_timeout must not be negative")
	}
	if c.BasenameTemplate != "" {
		if _, err := template.Compile(c.BasenameTemplate); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "basename_template")
		}
	}
	return nil
}

// RenderOptions returns the converter settings.
func (c *Config) RenderOptions(logger *log.Logger) render.Options {
	return render.Options{
		Converter: c.Converter,
		Inkscape:  c.Inkscape,
		ShellMode: c.ShellMode,
		Timeout:   c.ShellTimeout.Duration,
		Logger:    logger,
	}
}

// PipelineOptions returns the pipeline settings for files.
func (c *Config) PipelineOptions(files []string) pipeline.Options {
	return pipeline.Options{
		Files:            files,
		OutputDir:        c.OutputDirectory,
		Processes:        c.Processes,
		RandomSeed:       c.RandomSeed,
		BasenameTemplate: c.BasenameTemplate,
	}
}
