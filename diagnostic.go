package svcomp

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic is a problem in a user's file, reported through InputFile.Error.
type Diagnostic struct {
	Path    string
	Message string
	Line    int
	Column  int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Line, d.Column, d.Message)
}

// Translate turns a positioned error into a Diagnostic. It reports false for
// every other error; those must propagate unchanged.
//
// When the error has a code frame, each frame line is prefixed with "| " and
// appended to the message after a blank line. The prefix keeps hosts that
// trim message lines from shifting the frame's column marker.
func Translate(err error) (Diagnostic, bool) {
	var pe *PositionedError
	if !errors.As(err, &pe) {
		return Diagnostic{}, false
	}

	msg := pe.Message
	if pe.Frame != "" {
		lines := strings.Split(pe.Frame, "\n")
		for i, l := range lines {
			lines[i] = "| " + l
		}
		msg += "\n\n" + strings.Join(lines, "\n")
	}

	return Diagnostic{
		Message: msg,
		Line:    pe.Start.Line,
		Column:  pe.Start.Column,
	}, true
}
