package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config failed validation: %v", err)
	}

	if len(cfg.Roles) != len(DefaultRoles) {
		t.Errorf("Roles = %d entries, want %d", len(cfg.Roles), len(DefaultRoles))
	}

	if cfg.People.PageSize != 3 {
		t.Errorf("People.PageSize = %d, want 3", cfg.People.PageSize)
	}

	if cfg.Hero.Interval.Milliseconds() != 4000 {
		t.Errorf("Hero.Interval = %v, want 4s", cfg.Hero.Interval)
	}
}

func TestDefault_DoesNotAliasPackageSlices(t *testing.T) {
	cfg := Default()
	cfg.Roles[0] = "Changed"
	cfg.Placeholders[0] = "changed"

	if DefaultRoles[0] != "Faculty" {
		t.Errorf("DefaultRoles[0] = %q, want Faculty", DefaultRoles[0])
	}

	if DefaultPlaceholders[0] == "changed" {
		t.Error("DefaultPlaceholders was modified through Default()")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "missing output dir",
			modify:  func(c *Config) { c.OutputDir = "" },
			wantErr: ErrMissingOutputDir,
		},
		{
			name:    "no roles",
			modify:  func(c *Config) { c.Roles = nil },
			wantErr: ErrNoRoles,
		},
		{
			name:    "duplicate role",
			modify:  func(c *Config) { c.Roles = []string{"Faculty", " Faculty "} },
			wantErr: ErrDuplicateRole,
		},
		{
			name:    "reserved role",
			modify:  func(c *Config) { c.Roles = append(c.Roles, "Other") },
			wantErr: ErrReservedRole,
		},
		{
			name:    "no placeholders",
			modify:  func(c *Config) { c.Placeholders = []string{} },
			wantErr: ErrNoPlaceholders,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.People.PageSize = 0 },
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "zero interval",
			modify:  func(c *Config) { c.Hero.Interval = 0 },
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_StructTags(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "empty people asset root",
			modify:    func(c *Config) { c.Assets.People = "" },
			wantField: "People",
		},
		{
			name:      "blank role entry",
			modify:    func(c *Config) { c.Roles = []string{"Faculty", ""} },
			wantField: "Roles[1]",
		},
		{
			name:      "port out of range",
			modify:    func(c *Config) { c.Serve.Port = 70000 },
			wantField: "Port",
		},
		{
			name:      "missing static dir",
			modify:    func(c *Config) { c.StaticDir = "" },
			wantField: "StaticDir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}

			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantField)
			}
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.SiteTitle = "Vision Lab"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved config is not valid YAML: %v", err)
	}

	if loaded.SiteTitle != "Vision Lab" {
		t.Errorf("SiteTitle = %q, want Vision Lab", loaded.SiteTitle)
	}

	if len(loaded.Roles) != len(cfg.Roles) {
		t.Errorf("Roles = %d entries, want %d", len(loaded.Roles), len(cfg.Roles))
	}

	if loaded.People.PageSize != 3 {
		t.Errorf("People.PageSize = %d, want 3", loaded.People.PageSize)
	}
}
