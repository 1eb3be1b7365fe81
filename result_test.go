package svcomp

import (
	"testing"

	"github.com/arggh/svcomp/lib/sourcemap"
)

func TestMarkupSectionsSize(t *testing.T) {
	s := MarkupSections{
		{Kind: SectionHead, Content: "<title>x</title>"},
		{Kind: SectionBody, Content: "<p>hi</p>"},
	}
	if got, want := s.Size(), len("<title>x</title>")+len("<p>hi</p>"); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if got := (MarkupSections{}).Size(); got != 0 {
		t.Errorf("empty Size() = %d, want 0", got)
	}
}

func TestCompiledArtifactSize(t *testing.T) {
	m := &sourcemap.Map{Version: 3, Sources: []string{"App.html"}, Names: []string{}, Mappings: "AAAA"}
	a := &CompiledArtifact{Code: "var a;", SourceMap: m}
	if got, want := a.Size(), len("var a;")+len(m.String()); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}

	bare := &CompiledArtifact{Code: "var a;"}
	if got := bare.Size(); got != 6 {
		t.Errorf("Size() without map = %d, want 6", got)
	}
}

func TestStoredResultRoundTrip(t *testing.T) {
	codec := NewCodec([]byte("k"))

	tests := []struct {
		name string
		in   CompileResult
	}{
		{"sections", MarkupSections{{Kind: SectionBody, Content: "<p/>"}}},
		{"artifact", &CompiledArtifact{
			SourcePath: "App.html",
			Path:       "App.html",
			Code:       "var a;",
			SourceMap:  &sourcemap.Map{Version: 3, Sources: []string{"App.html"}, Names: []string{}, Mappings: "AAAA"},
		}},
		{"artifact without map", &CompiledArtifact{Path: "App.html", Code: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := toStored(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			data, err := codec.Marshal(stored)
			if err != nil {
				t.Fatal(err)
			}
			var decoded storedResult
			if err := codec.Unmarshal(data, &decoded); err != nil {
				t.Fatal(err)
			}
			out, err := decoded.result()
			if err != nil {
				t.Fatal(err)
			}

			switch want := tt.in.(type) {
			case MarkupSections:
				got, ok := out.(MarkupSections)
				if !ok || len(got) != len(want) || got[0] != want[0] {
					t.Errorf("result = %#v, want %#v", out, want)
				}
			case *CompiledArtifact:
				got, ok := out.(*CompiledArtifact)
				if !ok {
					t.Fatalf("result = %T, want *CompiledArtifact", out)
				}
				if got.Code != want.Code || got.Path != want.Path || got.SourcePath != want.SourcePath {
					t.Errorf("result = %+v, want %+v", got, want)
				}
				if got.SourceMap.String() != want.SourceMap.String() {
					t.Errorf("map = %s, want %s", got.SourceMap, want.SourceMap)
				}
			}
		})
	}
}
