package svcomp

import (
	"github.com/arggh/svcomp/lib/sourcemap"
)

// SectionKind names the part of the host page a markup section belongs to.
type SectionKind string

const (
	SectionHead SectionKind = "head"
	SectionBody SectionKind = "body"
)

// MarkupSection is the trimmed inner markup of a top-level <head> or <body>
// element of a non-component file.
type MarkupSection struct {
	Kind    SectionKind `msgpack:"kind"`
	Content string      `msgpack:"content"`
}

// CompileResult is the outcome of compiling one file. It is either
// MarkupSections or *CompiledArtifact; consumers type-switch on it:
//
//	switch r := result.(type) {
//	case svcomp.MarkupSections:
//	    for _, s := range r { ... }
//	case *svcomp.CompiledArtifact:
//	    write(r.Path, r.Code)
//	}
type CompileResult interface {
	// Size is the number of bytes the result accounts for in the cache.
	Size() int

	compileResult()
}

// MarkupSections is the result for a non-component file, in document order.
type MarkupSections []MarkupSection

func (s MarkupSections) Size() int {
	n := 0
	for _, sec := range s {
		n += len(sec.Content)
	}
	return n
}

func (MarkupSections) compileResult() {}

// CompiledArtifact is the result for a component.
type CompiledArtifact struct {
	SourcePath string
	Path       string
	Code       string
	// SourceMap maps Code to the file at SourcePath. It is nil when the
	// compiler or the transpiler produced no map.
	SourceMap *sourcemap.Map
}

func (a *CompiledArtifact) Size() int {
	n := len(a.Code)
	if a.SourceMap != nil {
		n += len(a.SourceMap.String())
	}
	return n
}

func (*CompiledArtifact) compileResult() {}

// storedResult is the persisted form of a CompileResult.
type storedResult struct {
	Sections MarkupSections `msgpack:"sections,omitempty"`
	Artifact *storedArtifact `msgpack:"artifact,omitempty"`
}

type storedArtifact struct {
	SourcePath string `msgpack:"source_path"`
	Path       string `msgpack:"path"`
	Code       string `msgpack:"code"`
	Map        []byte `msgpack:"map,omitempty"`
}

func toStored(r CompileResult) (*storedResult, error) {
	switch r := r.(type) {
	case MarkupSections:
		return &storedResult{Sections: r}, nil
	case *CompiledArtifact:
		a := &storedArtifact{SourcePath: r.SourcePath, Path: r.Path, Code: r.Code}
		if r.SourceMap != nil {
			data, err := r.SourceMap.JSON()
			if err != nil {
				return nil, err
			}
			a.Map = data
		}
		return &storedResult{Artifact: a}, nil
	}
	return nil, ErrInvalidFormat
}

func (s *storedResult) result() (CompileResult, error) {
	if s.Artifact == nil {
		return s.Sections, nil
	}
	a := &CompiledArtifact{
		SourcePath: s.Artifact.SourcePath,
		Path:       s.Artifact.Path,
		Code:       s.Artifact.Code,
	}
	if len(s.Artifact.Map) > 0 {
		m, err := sourcemap.Parse(s.Artifact.Map)
		if err != nil {
			return nil, ErrInvalidFormat
		}
		a.SourceMap = m
	}
	return a, nil
}
