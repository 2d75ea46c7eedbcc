package config

import (
	"context"
	"log/slog"
	"maps"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/vkbind/rust"
)

// Config holds the generator settings read from a YAML file.
type Config struct {
	URL string `yaml:"-"`

	Library         string `yaml:"library,omitempty"`
	WindowsLibrary  string `yaml:"windowsLibrary,omitempty"`
	ProcAddrCommand string `yaml:"procAddrCommand,omitempty"`
	CommandPrefix   string `yaml:"commandPrefix,omitempty"`
	TableName       string `yaml:"tableName,omitempty"`

	// Reserved and PlatformTypes entries are merged into the defaults.
	Reserved      map[string]string `yaml:"reserved,omitempty"`
	PlatformTypes map[string]string `yaml:"platformTypes,omitempty"`

	// Strict turns unresolved requirements into errors.
	Strict bool `yaml:"strict,omitempty"`
}

// Default returns the configuration matching rust.DefaultOptions.
func Default() *Config {
	options := rust.DefaultOptions()
	return &Config{
		Library:         options.Library,
		WindowsLibrary:  options.WindowsLibrary,
		ProcAddrCommand: options.ProcAddrCommand,
		CommandPrefix:   options.CommandPrefix,
		TableName:       options.TableName,
		Reserved:        options.Reserved,
		PlatformTypes:   options.PlatformTypes,
	}
}

// Load reads a configuration from URL, layered over Default.
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download config %v", URL)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config %v", URL)
	}
	cfg.URL = URL
	cfg.Init()
	return cfg, cfg.Validate()
}

// Init fills fields left empty by the file.
func (c *Config) Init() {
	def := Default()
	if c.Library == "" {
		c.Library = def.Library
	}
	if c.WindowsLibrary == "" {
		c.WindowsLibrary = def.WindowsLibrary
	}
	if c.ProcAddrCommand == "" {
		c.ProcAddrCommand = def.ProcAddrCommand
	}
	if c.TableName == "" {
		c.TableName = def.TableName
	}
	if c.Reserved == nil {
		c.Reserved = def.Reserved
	}
	if c.PlatformTypes == nil {
		c.PlatformTypes = def.PlatformTypes
	}
}

// Validate checks that every reserved-name substitution is usable.
func (c *Config) Validate() error {
	for name, sub := range c.Reserved {
		if sub == "" {
			return errors.Errorf("reserved name %v has an empty substitution", name)
		}
		if rust.IsReserved(sub) {
			return errors.Errorf("substitution %v for %v is a Rust keyword", sub, name)
		}
	}
	return nil
}

// RustOptions converts the configuration into emitter options.
func (c *Config) RustOptions(logger *slog.Logger) rust.Options {
	return rust.Options{
		Library:         c.Library,
		WindowsLibrary:  c.WindowsLibrary,
		ProcAddrCommand: c.ProcAddrCommand,
		CommandPrefix:   c.CommandPrefix,
		TableName:       c.TableName,
		Reserved:        maps.Clone(c.Reserved),
		PlatformTypes:   maps.Clone(c.PlatformTypes),
		Logger:          logger,
	}
}
