package svcomp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"sync"
)

// MemFile is an in-memory InputFile. It records everything delivered to it
// and is safe for concurrent use.
//
//	f := svcomp.NewMemFile("components/App.html", "<div>{name}</div>", "web.browser")
//	err := c.CompileFile(ctx, f)
//	code := f.Code()[0].Code
type MemFile struct {
	content string
	path    string
	arch    string
	hash    string

	mu       sync.Mutex
	errors   []Diagnostic
	code     []*CompiledArtifact
	sections []MarkupSection
}

var _ InputFile = (*MemFile)(nil)

// NewMemFile creates a file at the given package path. The content hash is
// the hex SHA-256 of content.
func NewMemFile(packagePath, content, arch string) *MemFile {
	sum := sha256.Sum256([]byte(content))
	return &MemFile{
		content: content,
		path:    packagePath,
		arch:    arch,
		hash:    hex.EncodeToString(sum[:]),
	}
}

func (f *MemFile) Content() string     { return f.content }
func (f *MemFile) PackagePath() string { return f.path }
func (f *MemFile) Basename() string    { return path.Base(f.path) }
func (f *MemFile) ContentHash() string { return f.hash }
func (f *MemFile) Arch() string        { return f.arch }

func (f *MemFile) Error(d Diagnostic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, d)
}

func (f *MemFile) AddCode(a *CompiledArtifact) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = append(f.code, a)
}

func (f *MemFile) AddMarkupSection(s MarkupSection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, s)
}

// Errors returns the diagnostics reported so far.
func (f *MemFile) Errors() []Diagnostic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Diagnostic(nil), f.errors...)
}

// Code returns the artifacts delivered so far.
func (f *MemFile) Code() []*CompiledArtifact {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*CompiledArtifact(nil), f.code...)
}

// Sections returns the markup sections delivered so far.
func (f *MemFile) Sections() []MarkupSection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MarkupSection(nil), f.sections...)
}

// Reset forgets everything delivered so far.
func (f *MemFile) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = nil
	f.code = nil
	f.sections = nil
}

// TestResult holds what one compile delivered, for assertions in tests.
type TestResult struct {
	Diagnostics []Diagnostic
	Artifact    *CompiledArtifact
	Sections    []MarkupSection
}

// TestCompile compiles file with c and collects what it delivered.
//
// Use this in tests of code that feeds files to a Compiler:
//
//	result, err := svcomp.TestCompile(c, svcomp.NewMemFile("App.html", src, "web.browser"))
//	if !result.CodeContains("App") {
//	    t.Fatal("missing component")
//	}
func TestCompile(c FileCompiler, file *MemFile) (*TestResult, error) {
	file.Reset()
	if err := c.CompileFile(context.Background(), file); err != nil {
		return nil, err
	}
	res := &TestResult{
		Diagnostics: file.Errors(),
		Sections:    file.Sections(),
	}
	if code := file.Code(); len(code) > 0 {
		res.Artifact = code[len(code)-1]
	}
	return res, nil
}

// OK reports whether the compile produced no diagnostics.
func (r *TestResult) OK() bool {
	return len(r.Diagnostics) == 0
}

// CodeContains checks if the artifact's code contains substr.
func (r *TestResult) CodeContains(substr string) bool {
	return r.Artifact != nil && strings.Contains(r.Artifact.Code, substr)
}

// HasDiagnosticAt checks if a diagnostic was reported at line and column.
func (r *TestResult) HasDiagnosticAt(line, column int) bool {
	for _, d := range r.Diagnostics {
		if d.Line == line && d.Column == column {
			return true
		}
	}
	return false
}

// Section returns the content of the first section of the given kind.
func (r *TestResult) Section(kind SectionKind) (string, bool) {
	for _, s := range r.Sections {
		if s.Kind == kind {
			return s.Content, true
		}
	}
	return "", false
}
