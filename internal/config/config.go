// Package config loads resolver settings from a YAML file.
//
// Every field is optional; anything left out keeps the built-in default.
//
// # Example
//
//	base_url: https://www.etsi.org/deliver
//	user_agent: etsispec/1.0
//	timeout: 30s
//	probe_timeout: 10s
//	ranges:
//	  - {min: 0, max: 99, label: "00_099"}
//	  - {min: 100, max: 199, label: "100_199"}
//	templates:
//	  - "{type}_{spec}v{version}p.pdf"
//	  - "{spec}v{version}.pdf"
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/git-pkgs/etsi"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the file layout.
type Config struct {
	BaseURL      string          `yaml:"base_url"`
	UserAgent    string          `yaml:"user_agent"`
	Timeout      Duration        `yaml:"timeout"`
	ProbeTimeout Duration        `yaml:"probe_timeout"`
	Ranges       []etsi.Range    `yaml:"ranges"`
	Templates    []etsi.Template `yaml:"templates"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the tables for mistakes that would produce wrong URLs.
func (c *Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.ProbeTimeout < 0 {
		errs = append(errs, errors.New("probe_timeout must not be negative"))
	}
	errs = append(errs, validateRanges(c.Ranges)...)
	for i, t := range c.Templates {
		if !strings.Contains(string(t), "{version}") {
			errs = append(errs, fmt.Errorf("templates[%d] %q has no {version} placeholder", i, t))
		}
	}
	return errors.Join(errs...)
}

func validateRanges(ranges []etsi.Range) []error {
	var errs []error
	for i, r := range ranges {
		if r.Label == "" {
			errs = append(errs, fmt.Errorf("ranges[%d] has no label", i))
		}
		if r.Min < 0 || r.Max > 999 || r.Min > r.Max {
			errs = append(errs, fmt.Errorf("ranges[%d] %d-%d is outside 0-999 or reversed", i, r.Min, r.Max))
		}
	}

	sorted := append([]etsi.Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min <= sorted[i-1].Max {
			errs = append(errs, fmt.Errorf("ranges %q and %q overlap", sorted[i-1].Label, sorted[i].Label))
		}
	}
	return errs
}

// Options converts the settings present in the file to resolver options.
func (c *Config) Options() []etsi.Option {
	var opts []etsi.Option
	if c.BaseURL != "" {
		opts = append(opts, etsi.WithBaseURL(c.BaseURL))
	}
	if c.UserAgent != "" {
		opts = append(opts, etsi.WithUserAgent(c.UserAgent))
	}
	if c.Timeout > 0 {
		opts = append(opts, etsi.WithTimeout(time.Duration(c.Timeout)))
	}
	if c.ProbeTimeout > 0 {
		opts = append(opts, etsi.WithProbeTimeout(time.Duration(c.ProbeTimeout)))
	}
	if len(c.Ranges) > 0 {
		opts = append(opts, etsi.WithRanges(c.Ranges))
	}
	if len(c.Templates) > 0 {
		opts = append(opts, etsi.WithTemplates(c.Templates))
	}
	return opts
}
