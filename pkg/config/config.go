// Package config loads compcheck configuration files.
//
// Configuration lives in .compcheck.toml, .compcheck.yaml or .compcheck.yml
// at the analyzed root, or in a file named with --config. The format is
// chosen by extension. Keys absent from the file keep their [Default] value.
//
//	include = ["src/**/*.ts"]
//	exclude = ["**/node_modules/**"]
//	symmetric_conflicts = true
//	semantic = true
//
//	[methods]
//	validator = ["registerValidator"]
//
//	[components.Velocity]
//	dependencies = ["Position"]
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/errors"
)

// FileNames are the configuration files looked up by [Discover], in order.
var FileNames = []string{".compcheck.toml", ".compcheck.yaml", ".compcheck.yml"}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	// Include and Exclude are slash-separated globs relative to the root.
	// "**" matches any number of directories. An empty Include means every
	// supported source file.
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`

	// SymmetricConflicts makes every declared conflict mutual.
	SymmetricConflicts bool `toml:"symmetric_conflicts" yaml:"symmetric_conflicts"`

	// Semantic enables cross-file symbol resolution. When false, component
	// references resolve by their own text only.
	Semantic bool `toml:"semantic" yaml:"semantic"`

	// MaxFileSize in bytes; larger files are skipped.
	MaxFileSize int64 `toml:"max_file_size" yaml:"max_file_size"`

	Methods decl.Methods `toml:"methods" yaml:"methods"`

	// Components seeds constraints for components declared outside the
	// analyzed sources.
	Components map[string]Seed `toml:"components" yaml:"components"`

	Cache Cache `toml:"cache" yaml:"cache"`
}

// Seed is the configured metadata of one component.
type Seed struct {
	Dependencies []string `toml:"dependencies" yaml:"dependencies"`
	Conflicts    []string `toml:"conflicts" yaml:"conflicts"`
}

// Cache configures the persistent registry cache.
type Cache struct {
	Backend       string `toml:"backend" yaml:"backend"`
	Dir           string `toml:"dir" yaml:"dir"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	TTL           string `toml:"ttl" yaml:"ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Exclude:            []string{"**/node_modules/**"},
		SymmetricConflicts: true,
		Semantic:           true,
		MaxFileSize:        4 * 1024 * 1024,
		Methods:            decl.DefaultMethods(),
		Cache:              Cache{Backend: BackendFile, TTL: "24h"},
	}
}

// Discover returns the first configuration file in dir, or "" when there is
// none.
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes data over [Default] and validates the result. ext selects
// the format: ".toml", ".yaml" or ".yml".
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", keys[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the discovered file in root,
// otherwise the defaults. It returns the file used ("" for defaults).
func Resolve(root, explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		path = Discover(root)
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks the configuration for values that can never work.
func (c Config) Validate() error {
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if err := errors.ValidatePattern(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "pattern %q", p)
		}
	}

	lists := map[string][]string{
		"validator": c.Methods.Validator,
		"template":  c.Methods.Template,
		"query":     c.Methods.Query,
		"create":    c.Methods.Create,
		"attach":    c.Methods.Attach,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "methods.%s must name at least one method", name)
		}
	}

	for name, seed := range c.Components {
		if err := errors.ValidateComponentName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "components.%s", name)
		}
		for _, list := range [][]string{seed.Dependencies, seed.Conflicts} {
			for _, ref := range list {
				if err := errors.ValidateComponentName(ref); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, err, "components.%s", name)
				}
				if ref == name {
					return errors.New(errors.ErrCodeInvalidConfig, "components.%s references itself", name)
				}
			}
		}
	}

	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.MaxFileSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_file_size must not be negative")
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty value means zero (the backend
// default).
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q is not a valid duration", c.Cache.TTL)
	}
	return d, nil
}

// Seeds converts Components to constraint metadata.
func (c Config) Seeds() map[string]component.Metadata {
	if len(c.Components) == 0 {
		return nil
	}
	seeds := make(map[string]component.Metadata, len(c.Components))
	for name, s := range c.Components {
		seeds[name] = component.Metadata{
			Dependencies: component.NewSet(s.Dependencies...),
			Conflicts:    component.NewSet(s.Conflicts...),
		}
	}
	return seeds
}

// ConstraintOptions returns the graph options the configuration implies.
func (c Config) ConstraintOptions() constraint.Options {
	return constraint.Options{SymmetricConflicts: c.SymmetricConflicts, Seeds: c.Seeds()}
}
