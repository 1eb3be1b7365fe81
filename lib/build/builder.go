// Package build compiles every component and page file under a set of
// patterns and writes the results to an output directory.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arggh/svcomp"
	"github.com/arggh/svcomp/lib/page"
)

// Options configures the builder.
type Options struct {
	// Root is the directory patterns and package paths are relative to.
	Root string
	// Out is the output directory.
	Out string
	// Arch is the architecture tag every file is compiled for.
	Arch string
	// Jobs limits concurrent compiles. Zero means no limit.
	Jobs   int
	DryRun bool
	// Log receives progress lines. Defaults to os.Stdout.
	Log io.Writer
}

// Report summarizes a build.
type Report struct {
	Files       int
	Artifacts   []string
	Page        string
	Diagnostics []svcomp.Diagnostic
}

// Failed reports whether any file had a diagnostic.
func (r *Report) Failed() bool {
	return len(r.Diagnostics) > 0
}

// Builder drives a Registry over files on disk.
type Builder struct {
	reg  *svcomp.Registry
	opts Options
}

// New creates a new builder.
func New(reg *svcomp.Registry, opts Options) *Builder {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Out == "" {
		opts.Out = "dist"
	}
	if opts.Arch == "" {
		opts.Arch = "web.browser"
	}
	if opts.Log == nil {
		opts.Log = os.Stdout
	}
	return &Builder{reg: reg, opts: opts}
}

// Build compiles the files matched by the given patterns.
func (b *Builder) Build(ctx context.Context, patterns ...string) (*Report, error) {
	paths, err := b.findFiles(patterns)
	if err != nil {
		return nil, err
	}

	files := make([]*svcomp.MemFile, 0, len(paths))
	inputs := make([]svcomp.InputFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(filepath.Join(b.opts.Root, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		f := svcomp.NewMemFile(p, string(content), b.opts.Arch)
		files = append(files, f)
		inputs = append(inputs, f)
	}

	if err := b.reg.CompileAll(ctx, inputs, b.opts.Jobs); err != nil {
		return nil, err
	}

	report := &Report{Files: len(files)}
	var sections []svcomp.MarkupSection
	for _, f := range files {
		report.Diagnostics = append(report.Diagnostics, f.Errors()...)
		sections = append(sections, f.Sections()...)
		for _, a := range f.Code() {
			out, err := b.writeArtifact(a)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", f.PackagePath(), err)
			}
			report.Artifacts = append(report.Artifacts, out)
		}
	}

	if len(sections) > 0 {
		out, err := b.writePage(ctx, sections)
		if err != nil {
			return nil, err
		}
		report.Page = out
	}

	return report, nil
}

// Clean removes the output directory.
func (b *Builder) Clean() error {
	if _, err := os.Stat(b.opts.Out); os.IsNotExist(err) {
		return nil
	}
	fmt.Fprintf(b.opts.Log, "removing %s\n", b.opts.Out)
	if b.opts.DryRun {
		return nil
	}
	return os.RemoveAll(b.opts.Out)
}

// findFiles resolves patterns to slash-separated paths relative to Root,
// keeping only files with a registered extension.
func (b *Builder) findFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		rel, err := filepath.Rel(b.opts.Root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if seen[rel] {
			return
		}
		if _, ok := b.reg.For(rel); !ok {
			return
		}
		seen[rel] = true
		files = append(files, rel)
	}

	for _, pattern := range patterns {
		recursive := false
		if strings.HasSuffix(pattern, "/...") || pattern == "..." {
			recursive = true
			pattern = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if pattern == "" {
				pattern = "."
			}
		}
		root := filepath.Join(b.opts.Root, filepath.FromSlash(pattern))

		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == root {
					return nil
				}
				// Skip hidden directories and vendor
				base := d.Name()
				if !recursive || strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata" || base == "node_modules" {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// writeArtifact writes <out>/<path>.js and its map.
func (b *Builder) writeArtifact(a *svcomp.CompiledArtifact) (string, error) {
	outFile := filepath.Join(b.opts.Out, filepath.FromSlash(a.Path)+".js")
	fmt.Fprintf(b.opts.Log, "writing %s\n", outFile)

	if b.opts.DryRun {
		return outFile, nil
	}
	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return "", err
	}

	code := a.Code
	if a.SourceMap != nil {
		mapFile := outFile + ".map"
		m := *a.SourceMap
		m.File = filepath.Base(outFile)
		if m.SourceRoot == "" {
			m.SourceRoot = b.sourceRoot(filepath.Dir(mapFile))
		}
		data, err := m.JSON()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(mapFile, data, 0644); err != nil {
			return "", err
		}
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		code += "//# sourceMappingURL=" + filepath.Base(mapFile) + "\n"
	}

	return outFile, os.WriteFile(outFile, []byte(code), 0644)
}

// sourceRoot points from dir back at Root, so package paths in a map's
// sources resolve to the files they were compiled from.
func (b *Builder) sourceRoot(dir string) string {
	root, err := filepath.Abs(b.opts.Root)
	if err != nil {
		return filepath.ToSlash(b.opts.Root)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(root)
	}
	rel, err := filepath.Rel(abs, root)
	if err != nil {
		return filepath.ToSlash(root)
	}
	return filepath.ToSlash(rel)
}

func (b *Builder) writePage(ctx context.Context, sections []svcomp.MarkupSection) (string, error) {
	outFile := filepath.Join(b.opts.Out, "index.html")
	fmt.Fprintf(b.opts.Log, "writing %s\n", outFile)

	if b.opts.DryRun {
		return outFile, nil
	}
	if err := os.MkdirAll(b.opts.Out, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	if err := page.Document(sections).Render(ctx, f); err != nil {
		f.Close()
		return "", err
	}
	return outFile, f.Close()
}
