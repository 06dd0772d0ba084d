package stitch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeName(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"//a/b:c", "a.b.c"},
		{"//a", "a"},
		{"$/gen/x", "gen.x"},
		{"plain", "plain"},
	} {
		if got := SafeName(test.in); got != test.want {
			t.Errorf("SafeName(%q): got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestDequalify(t *testing.T) {
	if got := Dequalify("//x/y"); got != "x/y" {
		t.Errorf("got %q", got)
	}
	if got := Dequalify("$/out"); got != "out" {
		t.Errorf("got %q", got)
	}
	if got := Dequalify("rel/p"); got != "rel/p" {
		t.Errorf("got %q", got)
	}
}

func newTestResolver(t *testing.T) (*pathResolver, string) {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"a", "b/c"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(
		filepath.Join(root, "b"), filepath.Join(root, "blink"),
	); err != nil {
		t.Fatal(err)
	}
	r, err := newPathResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	return r, root
}

func TestCanonical(t *testing.T) {
	r, _ := newTestResolver(t)
	fa := &BuildFile{dir: "a", name: "//a"}

	for _, test := range []struct {
		ref  string
		file *BuildFile
		want string
	}{
		{"//b:x", nil, "//b:x"},
		{"//b:x", fa, "//b:x"},
		{":y", fa, "//a:y"},
		{"../b/c:z", fa, "//b/c:z"},
		{"//blink/c", fa, "//b/c"},
		{"//blink:x", nil, "//b:x"},
		{"//missing/dir:x", nil, "//missing/dir:x"},
	} {
		got := r.canonical(test.ref, test.file)
		if got != test.want {
			t.Errorf(
				"canonical(%q): got %q, want %q", test.ref, got, test.want,
			)
		}
		if again := r.canonical(got, test.file); again != got {
			t.Errorf("canonical(%q) not idempotent: got %q", got, again)
		}
	}
}

func TestRelPathOutsideRoot(t *testing.T) {
	r, _ := newTestResolver(t)
	other := t.TempDir()
	real, err := filepath.EvalSymlinks(other)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.relPath(other), filepath.ToSlash(real); got != want {
		t.Errorf("relPath outside root: got %q, want %q", got, want)
	}
}
