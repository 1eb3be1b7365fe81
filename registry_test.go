package svcomp

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
)

type countingCompiler struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompiler) CompileFile(ctx context.Context, f InputFile) error {
	c.calls.Add(1)
	return c.err
}

func TestRegistryAddAndFor(t *testing.T) {
	reg := NewRegistry()
	html := &countingCompiler{}
	sv := &countingCompiler{}
	reg.Add(html, "html")
	reg.Add(sv, ".svelte")

	if c, ok := reg.For("components/App.html"); !ok || c != html {
		t.Errorf("For(.html) = %v, %v", c, ok)
	}
	if c, ok := reg.For("components/App.SVELTE"); !ok || c != sv {
		t.Errorf("For(.SVELTE) = %v, %v", c, ok)
	}
	if _, ok := reg.For("main.go"); ok {
		t.Error("For(.go) ok = true, want false")
	}
	if got, want := reg.Extensions(), []string{"html", "svelte"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

func TestRegistryExtensionCollision(t *testing.T) {
	reg := NewRegistry()
	reg.Add(&countingCompiler{}, "html")

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on extension collision")
		}
	}()
	reg.Add(&countingCompiler{}, ".HTML")
}

func TestRegistryCompileFile(t *testing.T) {
	reg := NewRegistry()
	c := &countingCompiler{}
	reg.Add(c, "html")

	if err := reg.CompileFile(context.Background(), NewMemFile("a.html", "", "web.browser")); err != nil {
		t.Fatal(err)
	}
	err := reg.CompileFile(context.Background(), NewMemFile("a.txt", "", "web.browser"))
	if !errors.Is(err, ErrNoCompiler) {
		t.Errorf("CompileFile(.txt) error = %v, want ErrNoCompiler", err)
	}
}

func TestRegistryCompileAll(t *testing.T) {
	reg := NewRegistry()
	c := &countingCompiler{}
	reg.Add(c, "html")

	files := []InputFile{
		NewMemFile("a.html", "", "web.browser"),
		NewMemFile("b.html", "", "web.browser"),
		NewMemFile("c.txt", "", "web.browser"),
		NewMemFile("d.html", "", "web.browser"),
	}
	if err := reg.CompileAll(context.Background(), files, 2); err != nil {
		t.Fatal(err)
	}
	if n := c.calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRegistryCompileAllReturnsFatalError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Add(&countingCompiler{err: boom}, "html")

	files := []InputFile{NewMemFile("a.html", "", "web.browser")}
	if err := reg.CompileAll(context.Background(), files, 0); !errors.Is(err, boom) {
		t.Errorf("CompileAll() error = %v, want %v", err, boom)
	}
}

func TestRegistryWithCompiler(t *testing.T) {
	reg := NewRegistry()
	c := newTestCompiler(t, &fakeCompiler{})
	reg.Add(c, "html", "svelte")

	a := NewMemFile("components/A.html", "<div/>", "web.browser")
	b := NewMemFile("client/main.html", "<body><p/></body>", "web.browser")
	if err := reg.CompileAll(context.Background(), []InputFile{a, b}, 4); err != nil {
		t.Fatal(err)
	}
	if len(a.Code()) != 1 {
		t.Errorf("component: AddCode calls = %d, want 1", len(a.Code()))
	}
	if len(b.Sections()) != 1 {
		t.Errorf("markup: sections = %d, want 1", len(b.Sections()))
	}
}
