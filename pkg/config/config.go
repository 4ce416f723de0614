// Package config loads the variant matrix: the set of gateway and instance
// identification combinations every template is expanded into.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jmxgen/pkg/jmx"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultTemplateSuffix marks files that are expanded by the generator.
const DefaultTemplateSuffix = ".json.tmpl"

// Config is the generator configuration.
type Config struct {
	TemplateSuffix string
	Readme         bool
	Variants       []Variant
}

// Variant is one output directory with its writer settings.
type Variant struct {
	Name           string `yaml:"name" json:"name"`
	Gateway        string `yaml:"gateway" json:"gateway"`
	Dir            string `yaml:"dir" json:"dir"`
	Source         string `yaml:"source,omitempty" json:"source,omitempty"`
	DetectInstance string `yaml:"detect_instance,omitempty" json:"detect_instance,omitempty"`
}

// Params returns the transform parameters for the variant.
func (v Variant) Params() jmx.Params {
	return jmx.Params{
		URL:            v.Gateway,
		Source:         v.Source,
		DetectInstance: v.DetectInstance,
	}
}

type fileConfig struct {
	TemplateSuffix string    `yaml:"template_suffix"`
	Readme         *bool     `yaml:"readme"`
	Variants       []Variant `yaml:"variants"`
}

// Default returns the built-in four variant matrix.
func Default() Config {
	cfg, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads a JSON or YAML config file. An empty path returns Default().
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a config document. Unknown keys are rejected.
// JSON documents are accepted since YAML is a superset of JSON.
func Parse(data []byte) (Config, error) {
	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, errors.New("config: document is empty")
		}
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	cfg := Config{
		TemplateSuffix: strings.TrimSpace(raw.TemplateSuffix),
		Readme:         true,
		Variants:       raw.Variants,
	}
	if cfg.TemplateSuffix == "" {
		cfg.TemplateSuffix = DefaultTemplateSuffix
	}
	if raw.Readme != nil {
		cfg.Readme = *raw.Readme
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every variant is complete and uniquely named.
func (c Config) Validate() error {
	if len(c.Variants) == 0 {
		return errors.New("config: at least one variant is required")
	}
	var errs []error
	seen := make(map[string]struct{}, len(c.Variants))
	for i, v := range c.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("config: variants[%d]: name is required", i))
		} else if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("config: variants[%d]: duplicate name %q", i, name))
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(v.Dir) == "" {
			errs = append(errs, fmt.Errorf("config: variant %q: dir is required", name))
		}
		if err := v.Params().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config: variant %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Variant returns the named variant.
func (c Config) Variant(name string) (Variant, bool) {
	for _, v := range c.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
