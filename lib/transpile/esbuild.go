// Package transpile lowers compiled component code to the configured
// language target using esbuild.
package transpile

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/arggh/svcomp"
	"github.com/arggh/svcomp/lib/sourcemap"
)

// DefaultTarget is used when Esbuild.Target is zero.
const DefaultTarget = api.ES2015

// Esbuild implements svcomp.Transpiler.
type Esbuild struct {
	Target api.Target
}

var (
	_ svcomp.Transpiler    = Esbuild{}
	_ svcomp.Fingerprinter = Esbuild{}
)

// Error carries the messages esbuild reported. It has no source position.
type Error struct {
	Filename string
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("transpile %s: %s", e.Filename, strings.Join(e.Messages, "; "))
}

func (t Esbuild) Transpile(ctx context.Context, code string, opts svcomp.TranspileOptions) (*svcomp.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sm := api.SourceMapNone
	if opts.SourceMaps {
		sm = api.SourceMapExternal
	}

	result := api.Transform(code, api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatDefault,
		Target:     t.target(),
		Sourcemap:  sm,
		Sourcefile: opts.Filename,
	})
	if len(result.Errors) > 0 {
		return nil, newError(opts.Filename, result.Errors)
	}

	out := &svcomp.Output{Code: string(result.Code)}
	if opts.SourceMaps && len(result.Map) > 0 {
		m, err := sourcemap.Parse(result.Map)
		if err != nil {
			return nil, &Error{Filename: opts.Filename, Messages: []string{err.Error()}}
		}
		out.Map = m
	}
	return out, nil
}

// Fingerprint identifies the output settings for cache keys.
func (t Esbuild) Fingerprint() string {
	return fmt.Sprintf("esbuild target=%d", t.target())
}

func (t Esbuild) target() api.Target {
	if t.Target == api.DefaultTarget {
		return DefaultTarget
	}
	return t.Target
}

func newError(filename string, msgs []api.Message) *Error {
	e := &Error{Filename: filename}
	for _, m := range msgs {
		if m.Location != nil {
			e.Messages = append(e.Messages, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		e.Messages = append(e.Messages, m.Text)
	}
	return e
}
