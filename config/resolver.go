package config

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResolverConfig configures the hierarchical config resolver.
type ResolverConfig struct {
	// EnvPrefix is prepended to upper-cased keys for environment lookup.
	// With "YOUTRACK_", key "max_retries" maps to YOUTRACK_MAX_RETRIES.
	EnvPrefix string

	// GlobalConfigDir is the directory under ~/.config/ holding the global file.
	GlobalConfigDir string

	// GlobalConfigFile is the global filename. Defaults to "config.yaml".
	GlobalConfigFile string

	// LocalConfigName is the filename looked up in the git root.
	LocalConfigName string

	// Defaults provides the default values for configuration keys.
	Defaults map[string]string

	// Keys restricts every source to these keys. Nil accepts any key.
	Keys []string

	// LocalKeys restricts the local file. Nil falls back to Keys.
	LocalKeys []string

	// GitRootFinder finds the git root. Defaults to walking up to a .git directory.
	GitRootFinder func(startDir string) (string, error)

	// Logger receives warnings about unreadable files. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultResolverConfig returns the resolver settings for the YouTrack client.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		EnvPrefix:       "YOUTRACK_",
		GlobalConfigDir: "youtrack",
		LocalConfigName: ".youtrack.yaml",
		Defaults:        defaultValues(),
		Keys:            AllKeys,
		LocalKeys:       LocalKeys,
	}
}

func (c ResolverConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

func (c ResolverConfig) localKeys() []string {
	if c.LocalKeys != nil {
		return c.LocalKeys
	}
	return c.Keys
}

// Resolver merges configuration sources.
type Resolver struct {
	config     ResolverConfig
	globalPath string
	localPath  string
	gitRoot    string

	// Warnings collects non-fatal issues found during resolution.
	Warnings []string
}

// NewResolver creates a resolver that locates the global file under the
// user's home and the local file in the enclosing git root.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := newResolver(cfg)

	find := cfg.GitRootFinder
	if find == nil {
		find = findGitRoot
	}
	if root, err := find("."); err == nil && root != "" {
		r.gitRoot = root
		if cfg.LocalConfigName != "" {
			r.localPath = filepath.Join(root, cfg.LocalConfigName)
		}
	}

	if cfg.GlobalConfigDir != "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.globalPath = filepath.Join(home, ".config", cfg.GlobalConfigDir, cfg.globalConfigFile())
		}
	}

	return r
}

// NewResolverWithPaths creates a resolver with explicit file paths.
// An empty path disables that source.
func NewResolverWithPaths(cfg ResolverConfig, globalPath, localPath string) *Resolver {
	r := newResolver(cfg)
	r.globalPath = globalPath
	r.localPath = localPath
	return r
}

func newResolver(cfg ResolverConfig) *Resolver {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Resolver{config: cfg}
}

func (r *Resolver) warn(msg string, args ...any) {
	r.Warnings = append(r.Warnings, msg)
	r.config.Logger.Warn(msg, args...)
}

// Resolved holds the merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or "" if unset.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	return maps.Clone(c.values)
}

// Keys returns the set keys in sorted order.
func (c *Resolved) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Resolve merges defaults, global file, local file and environment.
func (r *Resolver) Resolve() *Resolved {
	res := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range r.config.Defaults {
		res.set(key, value, SourceDefault)
	}
	r.applyFile(res, r.globalPath, r.config.Keys, SourceGlobal)
	r.applyFile(res, r.localPath, r.config.localKeys(), SourceLocal)
	r.applyEnv(res)

	return res
}

// ResolveWithFlags resolves and then applies non-empty flag values.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	res := r.Resolve()
	for key, value := range flags {
		if value != "" && r.accepts(r.config.Keys, key) {
			res.set(key, value, SourceFlag)
		}
	}
	return res
}

func (c *Resolved) set(key, value string, src Source) {
	c.values[key] = value
	c.sources[key] = src
}

func (r *Resolver) accepts(allowed []string, key string) bool {
	return allowed == nil || slices.Contains(allowed, key)
}

func (r *Resolver) applyFile(res *Resolved, path string, allowed []string, src Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err), "path", path, "source", string(src))
		return
	}

	for key, value := range parsed {
		if !r.accepts(allowed, key) {
			r.warn(fmt.Sprintf("ignoring key %q in %s config", key, src), "path", path, "key", key)
			continue
		}
		if s := toString(value); s != "" {
			res.set(key, s, src)
		}
	}
}

func (r *Resolver) applyEnv(res *Resolved) {
	if r.config.EnvPrefix == "" {
		return
	}

	keys := r.config.Keys
	if keys == nil {
		keys = slices.Sorted(maps.Keys(res.values))
	}
	for _, key := range keys {
		envKey := r.config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if value := os.Getenv(envKey); value != "" {
			res.set(key, value, SourceEnv)
		}
	}
}

// GitRoot returns the detected git root directory.
func (r *Resolver) GitRoot() string {
	return r.gitRoot
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// LocalPath returns the path to the local config file.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool, int, int64, float64:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// findGitRoot walks up from startDir to the first directory containing .git.
func findGitRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
