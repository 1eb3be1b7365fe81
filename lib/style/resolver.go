package style

import (
	"context"
	"fmt"
	"sync"
)

// LoadFunc produces the plugin chain.
type LoadFunc func() (Chain, error)

// Resolver loads the chain at most once. Callers arriving while the load is
// in flight wait for it and all observe the same chain or error. A load that
// panics resolves to an error.
type Resolver struct {
	load  LoadFunc
	once  sync.Once
	chain Chain
	err   error
}

func NewResolver(load LoadFunc) *Resolver {
	return &Resolver{load: load}
}

func (r *Resolver) Resolve() (Chain, error) {
	r.once.Do(func() {
		defer func() {
			if v := recover(); v != nil {
				r.chain, r.err = nil, fmt.Errorf("style: loading chain panicked: %v", v)
			}
		}()
		r.chain, r.err = r.load()
	})
	return r.chain, r.err
}

// Preprocessor runs the resolved chain over every style block of a source.
// The chain is resolved on the first source that has a style block.
type Preprocessor struct {
	resolver    *Resolver
	fingerprint func() (string, error)
}

// PreprocessorOption configures a Preprocessor.
type PreprocessorOption func(*Preprocessor)

// WithFingerprint sets the string identifying the chain's configuration.
// Compilers mix it into their cache keys, so it must change whenever the
// chain's output can.
func WithFingerprint(fp string) PreprocessorOption {
	return func(p *Preprocessor) {
		p.fingerprint = func() (string, error) { return fp, nil }
	}
}

func NewPreprocessor(r *Resolver, opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{resolver: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DiscoverPreprocessor resolves its chain from the style.toml nearest to dir.
// Its fingerprint is the SHA-256 of that file.
func DiscoverPreprocessor(dir string) *Preprocessor {
	d := &discovery{dir: dir}
	p := NewPreprocessor(NewResolver(d.chain))
	p.fingerprint = d.fingerprint
	return p
}

// Fingerprint identifies the chain's configuration. It is "" for a nil
// Preprocessor and for one created without a fingerprint.
func (p *Preprocessor) Fingerprint() (string, error) {
	if p == nil || p.fingerprint == nil {
		return "", nil
	}
	return p.fingerprint()
}

// Process returns source with each style block's content replaced by the
// chain's output. A nil Preprocessor returns source unchanged.
func (p *Preprocessor) Process(ctx context.Context, source string) (string, error) {
	if p == nil || p.resolver == nil {
		return source, nil
	}
	return Preprocess(ctx, source, func(ctx context.Context, b Block) (string, error) {
		chain, err := p.resolver.Resolve()
		if err != nil {
			return "", err
		}
		res, err := RunChain(ctx, chain, b.Content)
		if err != nil {
			return "", err
		}
		return res.Code, nil
	})
}
