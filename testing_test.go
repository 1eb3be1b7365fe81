package svcomp

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemFile(t *testing.T) {
	f := NewMemFile("components/App.html", "hello", "web.browser")

	if f.Basename() != "App.html" {
		t.Errorf("Basename() = %q, want %q", f.Basename(), "App.html")
	}
	// sha256("hello")
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if f.ContentHash() != want {
		t.Errorf("ContentHash() = %q, want %q", f.ContentHash(), want)
	}
	if f.Content() != "hello" || f.Arch() != "web.browser" || f.PackagePath() != "components/App.html" {
		t.Errorf("accessors = %q, %q, %q", f.Content(), f.Arch(), f.PackagePath())
	}
}

func TestMemFileConcurrentSinks(t *testing.T) {
	f := NewMemFile("a.html", "", "web.browser")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); f.Error(Diagnostic{}) }()
		go func() { defer wg.Done(); f.AddCode(&CompiledArtifact{}) }()
		go func() { defer wg.Done(); f.AddMarkupSection(MarkupSection{}) }()
	}
	wg.Wait()

	if len(f.Errors()) != 50 || len(f.Code()) != 50 || len(f.Sections()) != 50 {
		t.Errorf("counts = %d, %d, %d; want 50 each", len(f.Errors()), len(f.Code()), len(f.Sections()))
	}

	f.Reset()
	if len(f.Errors())+len(f.Code())+len(f.Sections()) != 0 {
		t.Error("Reset() left deliveries behind")
	}
}

func TestTestCompile(t *testing.T) {
	c := newTestCompiler(t, &fakeCompiler{})

	result, err := TestCompile(c, NewMemFile("components/App.html", "<div/>", "web.browser"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK() {
		t.Errorf("OK() = false, diagnostics %v", result.Diagnostics)
	}
	if !result.CodeContains("emit_App") {
		t.Errorf("CodeContains(emit_App) = false, artifact %+v", result.Artifact)
	}

	result, err = TestCompile(c, NewMemFile("index.html", "<head><title>t</title></head>", "web.browser"))
	if err != nil {
		t.Fatal(err)
	}
	if head, ok := result.Section(SectionHead); !ok || head != "<title>t</title>" {
		t.Errorf("Section(head) = %q, %v", head, ok)
	}
	if _, ok := result.Section(SectionBody); ok {
		t.Error("Section(body) ok = true, want false")
	}
	if result.CodeContains("") {
		t.Error("CodeContains on a markup result should be false")
	}
}

func TestTestCompileDiagnostics(t *testing.T) {
	c := newTestCompiler(t, &fakeCompiler{err: &PositionedError{Message: "bad", Start: Position{Line: 2, Column: 3}}})

	result, err := TestCompile(c, NewMemFile("App.html", "<div/>", "web.browser"))
	if err != nil {
		t.Fatal(err)
	}
	if result.OK() {
		t.Error("OK() = true, want false")
	}
	if !result.HasDiagnosticAt(2, 3) {
		t.Errorf("HasDiagnosticAt(2, 3) = false, diagnostics %v", result.Diagnostics)
	}
}

func TestTestCompileFatal(t *testing.T) {
	boom := errors.New("boom")
	fc := FileCompilerFunc(func(context.Context, InputFile) error { return boom })
	if _, err := TestCompile(fc, NewMemFile("App.html", "", "web.browser")); err != boom {
		t.Errorf("TestCompile() error = %v, want %v", err, boom)
	}
}
