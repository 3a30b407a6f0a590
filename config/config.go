// Package config loads the clip2md YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/clip2md/core/rules"
)

type Server struct {
	Addr         string `yaml:"addr" validate:"required"`
	StaticDir    string `yaml:"staticDir"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes" validate:"min=1"`
}

type Crawl struct {
	MaxPages     int    `yaml:"maxPages" validate:"min=1"`
	Concurrency  int    `yaml:"concurrency" validate:"min=1,max=64"`
	UserAgent    string `yaml:"userAgent" validate:"required"`
	IgnoreRobots bool   `yaml:"ignoreRobots"`
}

type Config struct {
	Options rules.Options `yaml:"options"`
	Server  Server        `yaml:"server"`
	Crawl   Crawl         `yaml:"crawl"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Options: rules.DefaultOptions(),
		Server: Server{
			Addr:         ":3000",
			MaxBodyBytes: 50 << 20,
		},
		Crawl: Crawl{
			MaxPages:    100,
			Concurrency: 4,
			UserAgent:   "clip2md",
		},
	}
}

// Load parses YAML on top of the defaults and validates the result.
func Load(data []byte) (*Config, error) {
	conf := Default()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Get reads and loads a config file. An empty filename yields the defaults.
func Get(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Load(data)
}

// Validate checks every field constraint and reports them in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
