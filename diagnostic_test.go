package svcomp

import (
	"errors"
	"fmt"
	"testing"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Diagnostic
	}{
		{
			name: "without frame",
			err:  &PositionedError{Message: "Expected }", Start: Position{Line: 2, Column: 5}},
			want: Diagnostic{Message: "Expected }", Line: 2, Column: 5},
		},
		{
			name: "with frame",
			err: &PositionedError{
				Message: "Unexpected token",
				Start:   Position{Line: 1, Column: 4},
				Frame:   "1: <p {\n" + "   ^",
			},
			want: Diagnostic{Message: "Unexpected token\n\n| 1: <p {\n| " + "   ^", Line: 1, Column: 4},
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("compile: %w", &PositionedError{Message: "x", Start: Position{Line: 9}}),
			want: Diagnostic{Message: "x", Line: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.err)
			if !ok {
				t.Fatal("Translate() ok = false, want true")
			}
			if got != tt.want {
				t.Errorf("Translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslateUnpositioned(t *testing.T) {
	for _, err := range []error{nil, errors.New("boom"), ErrUnknownArch} {
		if _, ok := Translate(err); ok {
			t.Errorf("Translate(%v) ok = true, want false", err)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Path: "components/App.html", Message: "oops", Line: 3, Column: 1}
	if got, want := d.String(), "components/App.html:3:1: oops"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
