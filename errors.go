package svcomp

import (
	"errors"
	"fmt"

	"github.com/arggh/svcomp/lib/sourcemap"
)

// Sentinel errors for compiler operations.
var (
	ErrUnknownArch      = errors.New("svcomp: unknown target architecture")
	ErrNoCompiler       = errors.New("svcomp: no compiler registered for extension")
	ErrInvalidOptions   = errors.New("svcomp: invalid options")
	ErrSignatureInvalid = errors.New("svcomp: cache entry signature verification failed")
	ErrInvalidFormat    = errors.New("svcomp: invalid cache entry format")

	// ErrSourceMismatch is returned when the component compiler's source map
	// does not have exactly one source, or its source is not the file's path.
	ErrSourceMismatch = sourcemap.ErrSourceMismatch
)

// Position is a location in the user's source. Line is 1-based, Column is
// 0-based.
type Position struct {
	Line   int
	Column int
}

// PositionedError is an error located in the user's source. The compile
// pipeline reports it as a Diagnostic instead of failing the build.
type PositionedError struct {
	Message string
	Start   Position
	// Frame is an optional code excerpt around Start.
	Frame string
}

func (e *PositionedError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Start.Line, e.Start.Column, e.Message)
}

// IsPositioned checks if err carries a source position.
func IsPositioned(err error) bool {
	var pe *PositionedError
	return errors.As(err, &pe)
}

// IsCacheEntryError checks if err means a persisted cache entry could not be
// trusted.
func IsCacheEntryError(err error) bool {
	return errors.Is(err, ErrSignatureInvalid) || errors.Is(err, ErrInvalidFormat)
}
