package svcomp

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FileCompiler compiles one input file and delivers the result to it.
// *Compiler implements it.
type FileCompiler interface {
	CompileFile(ctx context.Context, f InputFile) error
}

// FileCompilerFunc adapts a function to FileCompiler.
type FileCompilerFunc func(ctx context.Context, f InputFile) error

func (fn FileCompilerFunc) CompileFile(ctx context.Context, f InputFile) error {
	return fn(ctx, f)
}

// Registry maps file extensions to the compilers that handle them.
type Registry struct {
	mu        sync.RWMutex
	compilers map[string]FileCompiler // map[ext]compiler, ext without the dot
}

func NewRegistry() *Registry {
	return &Registry{compilers: make(map[string]FileCompiler)}
}

// Add registers c for the given extensions ("html", ".svelte").
// Panics if an extension is already registered.
func (reg *Registry) Add(c FileCompiler, exts ...string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, ext := range exts {
		ext = normalizeExt(ext)
		if ext == "" {
			panic("svcomp: empty extension")
		}
		if _, exists := reg.compilers[ext]; exists {
			panic(fmt.Sprintf("svcomp: extension collision for %q", ext))
		}
		reg.compilers[ext] = c
	}
}

// For returns the compiler registered for path's extension.
func (reg *Registry) For(path string) (FileCompiler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.compilers[normalizeExt(filepath.Ext(path))]
	return c, ok
}

// Extensions returns the registered extensions, sorted.
func (reg *Registry) Extensions() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	exts := make([]string, 0, len(reg.compilers))
	for ext := range reg.compilers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// CompileFile compiles f with the compiler registered for its extension.
func (reg *Registry) CompileFile(ctx context.Context, f InputFile) error {
	c, ok := reg.For(f.PackagePath())
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCompiler, f.PackagePath())
	}
	return c.CompileFile(ctx, f)
}

// CompileAll compiles files concurrently, at most jobs at a time (jobs <= 0
// means no limit). Files without a registered compiler are skipped. The first
// fatal error cancels the remaining compiles and is returned.
func (reg *Registry) CompileAll(ctx context.Context, files []InputFile, jobs int) error {
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, f := range files {
		f := f // per-iteration copy: go.mod targets go 1.21 loop semantics
		c, ok := reg.For(f.PackagePath())
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.CompileFile(ctx, f)
		})
	}
	return g.Wait()
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
