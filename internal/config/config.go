// Package config holds the labsite configuration and its defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoRoles          = errors.New("roles must list at least one role")
	ErrDuplicateRole    = errors.New("roles must not repeat")
	ErrReservedRole     = errors.New("roles must not include the Other bucket")
	ErrNoPlaceholders   = errors.New("placeholders must list at least one image")
	ErrInvalidPageSize  = errors.New("people.pageSize must be at least 1")
	ErrInvalidInterval  = errors.New("hero.interval must be positive")
	ErrInvalidLogLevel  = errors.New("logLevel must be one of: debug, info, warn, error")
	ErrMissingOutputDir = errors.New("outputDir is required")
)

// OtherRole is the bucket for people whose role is not in Roles.
const OtherRole = "Other"

// DefaultRoles is the canonical order people sections are rendered in.
var DefaultRoles = []string{
	"Faculty",
	"Post Doctors",
	"Ph.D Students",
	"Master Students",
	"Interns",
	"Academic Breaks",
	"Researcher",
	"Ph.D Alumni",
	"Master Alumni",
	"Former Members",
}

// DefaultPlaceholders are the thumbnails cycled for publications without one.
var DefaultPlaceholders = []string{
	"data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='420' height='260' viewBox='0 0 420 260'%3E%3Cdefs%3E%3ClinearGradient id='g' x1='0' y1='0' x2='1' y2='1'%3E%3Cstop offset='0' stop-color='%23e8d6c2'/%3E%3Cstop offset='1' stop-color='%23d59b6a'/%3E%3C/linearGradient%3E%3C/defs%3E%3Crect width='420' height='260' fill='url(%23g)' rx='18'/%3E%3Cpath d='M40 178c44-40 92-60 144-60 52 0 98 20 138 60' fill='none' stroke='%23b3422e' stroke-width='10' stroke-linecap='round'/%3E%3Ccircle cx='320' cy='90' r='26' fill='%231c5c4e'/%3E%3C/svg%3E",
	"data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='420' height='260' viewBox='0 0 420 260'%3E%3Cdefs%3E%3ClinearGradient id='g' x1='0' y1='0' x2='1' y2='1'%3E%3Cstop offset='0' stop-color='%23dfe9e3'/%3E%3Cstop offset='1' stop-color='%23a6cdbd'/%3E%3C/linearGradient%3E%3C/defs%3E%3Crect width='420' height='260' fill='url(%23g)' rx='18'/%3E%3Cpath d='M70 190l70-80 70 60 80-90 60 80' fill='none' stroke='%231c5c4e' stroke-width='10' stroke-linecap='round'/%3E%3Ccircle cx='120' cy='90' r='22' fill='%23b3422e'/%3E%3C/svg%3E",
	"data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='420' height='260' viewBox='0 0 420 260'%3E%3Cdefs%3E%3ClinearGradient id='g' x1='0' y1='0' x2='1' y2='1'%3E%3Cstop offset='0' stop-color='%23efe1d4'/%3E%3Cstop offset='1' stop-color='%23c9a88a'/%3E%3C/linearGradient%3E%3C/defs%3E%3Crect width='420' height='260' fill='url(%23g)' rx='18'/%3E%3Crect x='70' y='70' width='280' height='120' fill='none' stroke='%23b3422e' stroke-width='10' rx='18'/%3E%3Ccircle cx='130' cy='130' r='24' fill='%231c5c4e'/%3E%3C/svg%3E",
	"data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='420' height='260' viewBox='0 0 420 260'%3E%3Cdefs%3E%3ClinearGradient id='g' x1='0' y1='0' x2='1' y2='1'%3E%3Cstop offset='0' stop-color='%23f0e6db'/%3E%3Cstop offset='1' stop-color='%23e2c1a5'/%3E%3C/linearGradient%3E%3C/defs%3E%3Crect width='420' height='260' fill='url(%23g)' rx='18'/%3E%3Cpath d='M80 160h260' stroke='%231c5c4e' stroke-width='12' stroke-linecap='round'/%3E%3Cpath d='M80 110h160' stroke='%23b3422e' stroke-width='12' stroke-linecap='round'/%3E%3C/svg%3E",
}

// Config is the complete labsite configuration.
type Config struct {
	SiteTitle    string       `mapstructure:"siteTitle" yaml:"siteTitle"`
	BaseURL      string       `mapstructure:"baseURL" yaml:"baseURL"`
	ContentDir   string       `mapstructure:"contentDir" yaml:"contentDir" validate:"required"`
	LayoutsDir   string       `mapstructure:"layoutsDir" yaml:"layoutsDir" validate:"required"`
	StaticDir    string       `mapstructure:"staticDir" yaml:"staticDir" validate:"required"`
	OutputDir    string       `mapstructure:"outputDir" yaml:"outputDir"`
	LogLevel     string       `mapstructure:"logLevel" yaml:"logLevel"`
	Roles        []string     `mapstructure:"roles" yaml:"roles" validate:"dive,required"`
	Placeholders []string     `mapstructure:"placeholders" yaml:"placeholders" validate:"dive,required"`
	Assets       AssetsConfig `mapstructure:"assets" yaml:"assets"`
	People       PeopleConfig `mapstructure:"people" yaml:"people"`
	Hero         HeroConfig   `mapstructure:"hero" yaml:"hero"`
	Fetch        FetchConfig  `mapstructure:"fetch" yaml:"fetch"`
	Serve        ServeConfig  `mapstructure:"serve" yaml:"serve"`
}

// AssetsConfig holds the image roots bare file names are resolved against.
type AssetsConfig struct {
	People       string `mapstructure:"people" yaml:"people" validate:"required"`
	Publications string `mapstructure:"publications" yaml:"publications" validate:"required"`
	Research     string `mapstructure:"research" yaml:"research" validate:"required"`
	Hero         string `mapstructure:"hero" yaml:"hero" validate:"required"`
}

// PeopleConfig controls people rendering.
type PeopleConfig struct {
	PageSize int `mapstructure:"pageSize" yaml:"pageSize"`

	// SingleColumn lists roles whose grid gets the "single" modifier.
	SingleColumn []string `mapstructure:"singleColumn" yaml:"singleColumn"`
}

// HeroConfig controls the hero slider.
type HeroConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// FetchConfig controls how site data is fetched.
type FetchConfig struct {
	UserAgent string        `mapstructure:"userAgent" yaml:"userAgent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`
}

// ServeConfig controls the development server.
type ServeConfig struct {
	Port      int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	RateLimit int `mapstructure:"rateLimit" yaml:"rateLimit" validate:"min=1"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		SiteTitle:    "Lab Website",
		ContentDir:   "content",
		LayoutsDir:   "layouts",
		StaticDir:    "static",
		OutputDir:    "public",
		LogLevel:     "info",
		Roles:        append([]string(nil), DefaultRoles...),
		Placeholders: append([]string(nil), DefaultPlaceholders...),
		Assets: AssetsConfig{
			People:       "/images/people/",
			Publications: "/images/publications/",
			Research:     "/images/research/",
			Hero:         "/images/hero/",
		},
		People: PeopleConfig{PageSize: 3, SingleColumn: []string{"Faculty"}},
		Hero:   HeroConfig{Interval: 4 * time.Second},
		Fetch:  FetchConfig{UserAgent: "labsite/1.0"},
		Serve:  ServeConfig{Port: 1313, RateLimit: 500},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for values the loaders cannot work with.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if len(c.Roles) == 0 {
		return ErrNoRoles
	}

	seen := make(map[string]struct{}, len(c.Roles))
	for i, role := range c.Roles {
		role = strings.TrimSpace(role)
		if role == OtherRole {
			return fmt.Errorf("%w: roles[%d]", ErrReservedRole, i)
		}
		if _, ok := seen[role]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateRole, role)
		}
		seen[role] = struct{}{}
	}

	if len(c.Placeholders) == 0 {
		return ErrNoPlaceholders
	}

	if c.People.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if c.Hero.Interval <= 0 {
		return ErrInvalidInterval
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// String returns a short description of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Content: %s, Static: %s, Output: %s, Roles: %d}",
		c.ContentDir, c.StaticDir, c.OutputDir, len(c.Roles))
}
