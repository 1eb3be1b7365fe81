package svcomp

import (
	"fmt"
	"os"
	"strings"
)

// Arch is the kind of target a file is compiled for.
type Arch int

const (
	ArchClient Arch = iota
	ArchServer
)

func (a Arch) String() string {
	if a == ArchServer {
		return "server"
	}
	return "client"
}

// ParseArch maps a host architecture tag to an Arch.
//
// "server" and any "os.*" tag (os.linux.x86_64, os.osx.arm64) are server
// targets; "client", "client-bundled" and any "web.*" tag (web.browser,
// web.cordova) are client targets. Anything else is ErrUnknownArch.
func ParseArch(s string) (Arch, error) {
	switch {
	case s == "server", strings.HasPrefix(s, "os."):
		return ArchServer, nil
	case s == "client", s == "client-bundled", strings.HasPrefix(s, "web."):
		return ArchClient, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArch, s)
}

// Generate selects the kind of code the component compiler emits.
type Generate string

const (
	GenerateDOM Generate = "dom"
	GenerateSSR Generate = "ssr"
)

// Options configures component compilation. They are part of every cache
// key, so two compilers with different Options never share results.
type Options struct {
	// Hydratable makes client components able to adopt server rendered markup.
	Hydratable bool `msgpack:"hydratable"`
	// CSS injects component styles into generated client code. Setting it
	// to false leaves style extraction to the host.
	CSS bool `msgpack:"css"`
	// Dev enables the compiler's development checks.
	Dev bool `msgpack:"dev"`
}

// DefaultOptions returns options with CSS injection on, hydration off, and
// Dev on unless NODE_ENV is "production".
func DefaultOptions() Options {
	return Options{
		CSS: true,
		Dev: os.Getenv("NODE_ENV") != "production",
	}
}

// CompilerOptions is what the component compiler receives for one file.
type CompilerOptions struct {
	Name       string
	Filename   string
	Generate   Generate
	Hydratable bool
	CSS        bool
	Dev        bool
}

// ForArch derives the per-file compiler options.
//
// Server targets get server-side rendering output with the compiler's own
// defaults for hydration and CSS; Hydratable and CSS apply to client targets
// only.
func (o Options) ForArch(arch Arch, path, basename string) CompilerOptions {
	co := CompilerOptions{
		Name:     ComponentName(basename),
		Filename: path,
		Dev:      o.Dev,
	}
	if arch == ArchServer {
		co.Generate = GenerateSSR
		co.CSS = true
		return co
	}
	co.Generate = GenerateDOM
	co.Hydratable = o.Hydratable
	co.CSS = o.CSS
	return co
}

// ComponentName derives a valid identifier from a file's base name: the
// extension is cut at the first '.', every character outside [A-Za-z0-9_$]
// becomes '_', and a leading digit is prefixed with '_'.
//
//	App.html        -> App
//	my-widget.html  -> my_widget
//	2col.svelte     -> _2col
func ComponentName(basename string) string {
	if i := strings.IndexByte(basename, '.'); i >= 0 {
		basename = basename[:i]
	}
	var b strings.Builder
	b.Grow(len(basename) + 1)
	for i, r := range basename {
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteByte('_')
		}
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isIdentRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '$'
}
