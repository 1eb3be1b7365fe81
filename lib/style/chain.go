package style

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

// Plugin transforms CSS text.
type Plugin interface {
	Process(ctx context.Context, css string) (string, error)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(ctx context.Context, css string) (string, error)

func (f PluginFunc) Process(ctx context.Context, css string) (string, error) {
	return f(ctx, css)
}

// Chain is an ordered list of plugins.
type Chain []Plugin

// Result is the output of a chain run.
type Result struct {
	Code string
}

// RunChain feeds css through every plugin in order.
func RunChain(ctx context.Context, chain Chain, css string) (Result, error) {
	for _, p := range chain {
		out, err := p.Process(ctx, css)
		if err != nil {
			return Result{}, err
		}
		css = out
	}
	return Result{Code: css}, nil
}

// Factory builds a plugin from its configured options.
type Factory func(opts map[string]any) (Plugin, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		"esbuild": newEsbuildPlugin,
	}
)

// RegisterPlugin makes a plugin available to style.toml under name.
// Registering a name twice replaces the earlier factory.
func RegisterPlugin(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

func lookupPlugin(name string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// esbuildPlugin lowers and optionally minifies CSS with esbuild.
type esbuildPlugin struct {
	minify  bool
	engines []api.Engine
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

func newEsbuildPlugin(opts map[string]any) (Plugin, error) {
	p := &esbuildPlugin{}
	if v, ok := opts["minify"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("esbuild: minify must be a boolean")
		}
		p.minify = b
	}
	if v, ok := opts["target"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("esbuild: target must be a string")
		}
		engines, err := parseEngines(s)
		if err != nil {
			return nil, err
		}
		p.engines = engines
	}
	return p, nil
}

// parseEngines reads targets such as "chrome58,safari11".
func parseEngines(s string) ([]api.Engine, error) {
	var engines []api.Engine
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		split := strings.IndexAny(part, "0123456789")
		if split <= 0 {
			return nil, fmt.Errorf("esbuild: invalid target %q", part)
		}
		name, ok := engineNames[part[:split]]
		if !ok {
			known := make([]string, 0, len(engineNames))
			for k := range engineNames {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("esbuild: unknown engine %q (known: %s)", part[:split], strings.Join(known, ", "))
		}
		engines = append(engines, api.Engine{Name: name, Version: part[split:]})
	}
	return engines, nil
}

func (p *esbuildPlugin) Process(_ context.Context, css string) (string, error) {
	result := api.Transform(css, api.TransformOptions{
		Loader:           api.LoaderCSS,
		Engines:          p.engines,
		MinifyWhitespace: p.minify,
		MinifySyntax:     p.minify,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return "", fmt.Errorf("esbuild: %d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text)
		}
		return "", fmt.Errorf("esbuild: %s", msg.Text)
	}
	return string(result.Code), nil
}
