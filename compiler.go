package svcomp

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/arggh/svcomp/lib/cache"
	"github.com/arggh/svcomp/lib/classify"
	"github.com/arggh/svcomp/lib/sourcemap"
	"github.com/arggh/svcomp/lib/style"
)

// Compiler runs the compile pipeline with a size-bounded result cache.
// It is safe for concurrent use.
type Compiler struct {
	cc    ComponentCompiler
	tp    Transpiler
	opts  Options
	style *style.Preprocessor

	mem   *cache.Cache[CompileResult]
	store cache.Store
	codec *Codec
	group singleflight.Group

	logger *log.Logger

	cacheSize int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithOptions sets the component compile options. The default is
// DefaultOptions().
func WithOptions(o Options) Option {
	return func(c *Compiler) { c.opts = o }
}

// WithStyle sets the style preprocessor. Without one, style blocks are left
// as they are.
func WithStyle(p *style.Preprocessor) Option {
	return func(c *Compiler) { c.style = p }
}

// WithCacheSize bounds the in-memory cache to n bytes of results.
func WithCacheSize(n int) Option {
	return func(c *Compiler) { c.cacheSize = n }
}

// WithStore adds a persistent cache level. Entries are signed with key.
func WithStore(s cache.Store, key []byte) Option {
	return func(c *Compiler) {
		c.store = s
		c.codec = NewCodec(key)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// NewCompiler creates a compiler from the two external stages.
func NewCompiler(cc ComponentCompiler, tp Transpiler, opts ...Option) (*Compiler, error) {
	if cc == nil || tp == nil {
		return nil, fmt.Errorf("%w: component compiler and transpiler are required", ErrInvalidOptions)
	}
	c := &Compiler{
		cc:        cc,
		tp:        tp,
		opts:      DefaultOptions(),
		cacheSize: cache.DefaultMaxBytes,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize < 0 {
		return nil, fmt.Errorf("%w: negative cache size %d", ErrInvalidOptions, c.cacheSize)
	}
	c.mem = cache.New[CompileResult](c.cacheSize)
	return c, nil
}

// Options returns the compile options the compiler was created with.
func (c *Compiler) Options() Options {
	return c.opts
}

// CacheKey returns the key f's result is cached under. Besides f and the
// compile options it covers the fingerprints of the configured stages.
func (c *Compiler) CacheKey(f InputFile) (cache.Key, error) {
	if _, err := ParseArch(f.Arch()); err != nil {
		return cache.Key{}, err
	}
	stages, err := c.stageFingerprints()
	if err != nil {
		return cache.Key{}, err
	}
	return cache.Key{
		Options:     c.opts,
		Path:        f.PackagePath(),
		ContentHash: f.ContentHash(),
		Arch:        f.Arch(),
		Stages:      stages,
	}, nil
}

func (c *Compiler) stageFingerprints() (map[string]string, error) {
	stages := make(map[string]string, 3)
	if fp, ok := c.cc.(Fingerprinter); ok {
		stages["compiler"] = fp.Fingerprint()
	}
	if fp, ok := c.tp.(Fingerprinter); ok {
		stages["transpiler"] = fp.Fingerprint()
	}
	if c.style != nil {
		fp, err := c.style.Fingerprint()
		if err != nil {
			return nil, err
		}
		stages["style"] = fp
	}
	if len(stages) == 0 {
		return nil, nil
	}
	return stages, nil
}

// CompileFile compiles f, or reuses a cached result, and delivers the result
// to f. Errors located in f's source are reported through f.Error and
// CompileFile returns nil; any other error is returned unchanged.
func (c *Compiler) CompileFile(ctx context.Context, f InputFile) error {
	key, err := c.CacheKey(f)
	if err != nil {
		return err
	}
	digest, err := key.Digest()
	if err != nil {
		return err
	}

	result, ok := c.lookup(ctx, digest)
	if !ok {
		v, err, _ := c.group.Do(digest, func() (any, error) {
			r, err := c.CompileOneFile(ctx, f)
			if err != nil {
				return nil, err
			}
			c.mem.Add(digest, r, r.Size())
			c.persist(ctx, digest, r)
			return r, nil
		})
		if err != nil {
			if d, ok := Translate(err); ok {
				d.Path = f.PackagePath()
				f.Error(d)
				return nil
			}
			return err
		}
		result = v.(CompileResult)
	}

	deliver(f, result)
	return nil
}

// CompileOneFile runs the pipeline for f without caching and without
// delivering the result.
func (c *Compiler) CompileOneFile(ctx context.Context, f InputFile) (CompileResult, error) {
	raw := f.Content()
	path := f.PackagePath()

	if filepath.Ext(path) == ".html" {
		sections, component, err := classify.Classify(raw)
		if err != nil {
			return nil, err
		}
		if !component {
			out := make(MarkupSections, len(sections))
			for i, s := range sections {
				out[i] = MarkupSection{Kind: SectionKind(s.Name), Content: s.Content}
			}
			return out, nil
		}
	}

	arch, err := ParseArch(f.Arch())
	if err != nil {
		return nil, err
	}
	copts := c.opts.ForArch(arch, path, f.Basename())

	processed, err := c.style.Process(ctx, raw)
	if err != nil {
		return nil, err
	}

	compiled, err := c.cc.Compile(ctx, processed, copts)
	if err != nil {
		return nil, err
	}

	transpiled, err := c.tp.Transpile(ctx, compiled.Code, TranspileOptions{
		Filename:   path,
		SourceMaps: true,
	})
	if err != nil {
		return nil, err
	}

	artifact := &CompiledArtifact{
		SourcePath: path,
		Path:       path,
		Code:       transpiled.Code,
	}
	if transpiled.Map != nil && compiled.Map != nil {
		m, err := sourcemap.Compose(transpiled.Map, compiled.Map, path)
		if err != nil {
			return nil, err
		}
		artifact.SourceMap = m
	}
	return artifact, nil
}

func (c *Compiler) lookup(ctx context.Context, digest string) (CompileResult, bool) {
	if r, ok := c.mem.Get(digest); ok {
		return r, true
	}
	if c.store == nil {
		return nil, false
	}

	data, ok, err := c.store.Get(ctx, digest)
	if err != nil {
		c.logger.Printf("cache store get %s: %v", digest, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var stored storedResult
	if err := wrapEncodingError(c.codec.Unmarshal(data, &stored)); err != nil {
		c.logger.Printf("cache store entry %s ignored: %v", digest, err)
		return nil, false
	}
	r, err := stored.result()
	if err != nil {
		c.logger.Printf("cache store entry %s ignored: %v", digest, err)
		return nil, false
	}
	c.mem.Add(digest, r, r.Size())
	return r, true
}

func (c *Compiler) persist(ctx context.Context, digest string, r CompileResult) {
	if c.store == nil {
		return
	}
	stored, err := toStored(r)
	if err != nil {
		c.logger.Printf("cache store encode %s: %v", digest, err)
		return
	}
	data, err := c.codec.Marshal(stored)
	if err != nil {
		c.logger.Printf("cache store encode %s: %v", digest, err)
		return
	}
	if err := c.store.Put(ctx, digest, data); err != nil {
		c.logger.Printf("cache store put %s: %v", digest, err)
	}
}

func deliver(f InputFile, r CompileResult) {
	switch r := r.(type) {
	case MarkupSections:
		for _, s := range r {
			f.AddMarkupSection(s)
		}
	case *CompiledArtifact:
		f.AddCode(r)
	}
}
