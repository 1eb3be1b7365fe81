package style

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the name searched for by FindConfig.
const ConfigFile = "style.toml"

// Config is the decoded style.toml:
//
//	[[plugins]]
//	name = "esbuild"
//	[plugins.options]
//	minify = true
//	target = "chrome58,safari11"
type Config struct {
	Path    string         `toml:"-"`
	Plugins []PluginConfig `toml:"plugins"`
}

type PluginConfig struct {
	Name    string         `toml:"name"`
	Options map[string]any `toml:"options"`
}

// FindConfig walks from startDir up to the filesystem root and returns the
// first style.toml found.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for i, p := range cfg.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%s: plugin #%d has no name", path, i+1)
		}
	}
	cfg.Path = path
	return &cfg, nil
}

// BuildChain instantiates the configured plugins in order.
func BuildChain(cfg *Config) (Chain, error) {
	if cfg == nil {
		return nil, nil
	}
	chain := make(Chain, 0, len(cfg.Plugins))
	for _, pc := range cfg.Plugins {
		factory, ok := lookupPlugin(pc.Name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown style plugin %q", cfg.Path, pc.Name)
		}
		opts := pc.Options
		if opts == nil {
			opts = map[string]any{}
		}
		p, err := factory(opts)
		if err != nil {
			return nil, fmt.Errorf("%s: plugin %q: %w", cfg.Path, pc.Name, err)
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// Discover finds, loads and builds the chain for startDir. Without a config
// file the chain is empty and styles pass through unchanged.
func Discover(startDir string) (Chain, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return BuildChain(cfg)
}

// discovery reads the style.toml nearest to dir once and serves both the
// chain and its fingerprint from the same bytes.
type discovery struct {
	dir  string
	once sync.Once

	sum     string
	cfg     *Config
	readErr error
	cfgErr  error
}

func (d *discovery) load() {
	d.once.Do(func() {
		path, ok, err := FindConfig(d.dir)
		if err != nil || !ok {
			d.readErr = err
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			d.readErr = err
			return
		}
		sum := sha256.Sum256(data)
		d.sum = hex.EncodeToString(sum[:])
		d.cfg, d.cfgErr = parseConfig(path, data)
	})
}

func (d *discovery) chain() (Chain, error) {
	d.load()
	if d.readErr != nil {
		return nil, d.readErr
	}
	if d.cfgErr != nil {
		return nil, d.cfgErr
	}
	return BuildChain(d.cfg)
}

// fingerprint is the digest of the config file, "" without one. A config
// that does not parse still has a fingerprint; the error surfaces when a
// style block needs the chain.
func (d *discovery) fingerprint() (string, error) {
	d.load()
	return d.sum, d.readErr
}
