// Package svelte runs the component language compiler in a Node.js helper
// process and adapts it to svcomp.ComponentCompiler.
package svelte

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/arggh/svcomp"
	"github.com/arggh/svcomp/lib/sourcemap"
)

//go:embed compile.js
var Script string

// DefaultCommand runs the embedded helper with the node on PATH. The svelte
// package must be resolvable from the working directory.
var DefaultCommand = []string{"node", "-e", Script}

// Process compiles one source per helper invocation.
type Process struct {
	// Command is the helper and its arguments. Empty means DefaultCommand.
	Command []string
	// Dir is the helper's working directory.
	Dir string
}

var (
	_ svcomp.ComponentCompiler = (*Process)(nil)
	_ svcomp.Fingerprinter     = (*Process)(nil)
)

// CompileError is an error from the helper that carries no source position.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return "svelte: " + e.Message
}

type request struct {
	Source  string         `json:"source"`
	Options requestOptions `json:"options"`
}

type requestOptions struct {
	Name       string `json:"name"`
	Filename   string `json:"filename"`
	Generate   string `json:"generate"`
	Hydratable bool   `json:"hydratable"`
	CSS        bool   `json:"css"`
	Dev        bool   `json:"dev"`
}

type response struct {
	JS *struct {
		Code string          `json:"code"`
		Map  json.RawMessage `json:"map"`
	} `json:"js"`
	Error *struct {
		Message string `json:"message"`
		Start   *struct {
			Line   int `json:"line"`
			Column int `json:"column"`
		} `json:"start"`
		Frame string `json:"frame"`
	} `json:"error"`
}

// Fingerprint identifies the helper for cache keys: its command, or the
// embedded script when the default command runs.
func (p *Process) Fingerprint() string {
	args := p.Command
	if len(args) == 0 {
		args = DefaultCommand
	}
	h := sha256.New()
	for _, a := range args {
		h.Write([]byte(a))
		h.Write([]byte{0})
	}
	return "helper " + hex.EncodeToString(h.Sum(nil))
}

func encodeRequest(source string, opts svcomp.CompilerOptions) ([]byte, error) {
	return json.Marshal(request{
		Source: source,
		Options: requestOptions{
			Name:       opts.Name,
			Filename:   opts.Filename,
			Generate:   string(opts.Generate),
			Hydratable: opts.Hydratable,
			CSS:        opts.CSS,
			Dev:        opts.Dev,
		},
	})
}

func (p *Process) Compile(ctx context.Context, source string, opts svcomp.CompilerOptions) (*svcomp.Output, error) {
	args := p.Command
	if len(args) == 0 {
		args = DefaultCommand
	}

	req, err := encodeRequest(source, opts)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = p.Dir
	cmd.Stdin = bytes.NewReader(req)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if runErr != nil && stdout.Len() == 0 {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		return nil, &CompileError{Message: msg}
	}

	return decodeResponse(stdout.Bytes())
}

func decodeResponse(data []byte) (*svcomp.Output, error) {
	var res response
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("invalid helper response: %v", err)}
	}

	if e := res.Error; e != nil {
		if e.Start == nil {
			return nil, &CompileError{Message: e.Message}
		}
		return nil, &svcomp.PositionedError{
			Message: e.Message,
			Start:   svcomp.Position{Line: e.Start.Line, Column: e.Start.Column},
			Frame:   e.Frame,
		}
	}

	if res.JS == nil {
		return nil, &CompileError{Message: "helper returned neither code nor error"}
	}

	out := &svcomp.Output{Code: res.JS.Code}
	if len(res.JS.Map) > 0 && !bytes.Equal(res.JS.Map, []byte("null")) {
		m, err := sourcemap.Parse(res.JS.Map)
		if err != nil {
			return nil, &CompileError{Message: fmt.Sprintf("invalid source map: %v", err)}
		}
		out.Map = m
	}
	return out, nil
}

// IsCompileError reports whether err came from the helper without a position.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
