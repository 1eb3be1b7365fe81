package svcomp

import (
	"context"

	"github.com/arggh/svcomp/lib/sourcemap"
)

// InputFile is one source file handed over by the build host.
//
// The Content, PackagePath, Basename, ContentHash and Arch accessors describe
// the file. Error, AddCode and AddMarkupSection are the sinks results are
// delivered to; for a single compile a file receives either one Error call,
// one AddCode call, or one AddMarkupSection call per section.
type InputFile interface {
	Content() string
	// PackagePath is the file's path within its package, e.g.
	// "components/App.html".
	PackagePath() string
	Basename() string
	ContentHash() string
	// Arch is the host's architecture tag, e.g. "web.browser" or
	// "os.linux.x86_64".
	Arch() string

	Error(d Diagnostic)
	AddCode(a *CompiledArtifact)
	AddMarkupSection(s MarkupSection)
}

// Fingerprinter is implemented by stages whose output depends on settings
// beyond CompilerOptions, such as a transpile target. The fingerprint is part
// of every cache key and must change whenever those settings do.
type Fingerprinter interface {
	Fingerprint() string
}

// Output is code with an optional source map.
type Output struct {
	Code string
	Map  *sourcemap.Map
}

// ComponentCompiler compiles component source into program code and a map
// from that code to source. Errors located in source are *PositionedError.
type ComponentCompiler interface {
	Compile(ctx context.Context, source string, opts CompilerOptions) (*Output, error)
}

// ComponentCompilerFunc adapts a function to ComponentCompiler.
type ComponentCompilerFunc func(ctx context.Context, source string, opts CompilerOptions) (*Output, error)

func (f ComponentCompilerFunc) Compile(ctx context.Context, source string, opts CompilerOptions) (*Output, error) {
	return f(ctx, source, opts)
}

type TranspileOptions struct {
	// Filename is recorded as the map's source.
	Filename   string
	SourceMaps bool
}

// Transpiler lowers program code to the configured language target.
type Transpiler interface {
	Transpile(ctx context.Context, code string, opts TranspileOptions) (*Output, error)
}

// TranspilerFunc adapts a function to Transpiler.
type TranspilerFunc func(ctx context.Context, code string, opts TranspileOptions) (*Output, error)

func (f TranspilerFunc) Transpile(ctx context.Context, code string, opts TranspileOptions) (*Output, error) {
	return f(ctx, code, opts)
}
