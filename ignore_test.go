package stitch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreSet(t *testing.T) {
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		".signore":           "# comment\n!not/a/rule\n\nvendor\nthird\n",
		"src/.signore":       "gen\n",
		"vendor/x/targets":   "",
		"third/targets":      "",
		"thirdparty/targets": "",
		"src/gen/targets":    "",
		"src/lib/targets":    "",
		"not/a/rule/targets": "",
	})
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(
		filepath.Join(real, "vendor"), filepath.Join(real, "src", "vlink"),
	); err != nil {
		t.Fatal(err)
	}

	s := newIgnoreSet(real)
	for _, test := range []struct {
		dir  string
		want string
	}{
		{"vendor/x", ".signore"},
		{"third", ".signore"},
		{"thirdparty", ""},
		{"src/gen", "src/.signore"},
		{"src/lib", ""},
		{"src/vlink", ".signore"},
		{"not/a/rule", ""},
	} {
		dir := filepath.Join(real, filepath.FromSlash(test.dir))
		if err := s.loadThrough(dir); err != nil {
			t.Fatalf("load through %q: %s", test.dir, err)
		}
		want := ""
		if test.want != "" {
			want = filepath.Join(real, filepath.FromSlash(test.want))
		}
		if got := s.match(dir); got != want {
			t.Errorf("match %q: got %q, want %q", test.dir, got, want)
		}
	}
}
