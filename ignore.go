package stitch

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shanhu.io/misc/errcode"
)

// ignoreFileName lists directories, relative to where the file is, that
// are skipped during discovery. Lines that start with "#" or "!" are
// comments.
const ignoreFileName = ".signore"

type ignoreFile struct {
	file  string
	paths []string // real paths of the ignored directories
}

func realPath(p string) string {
	real, err := filepath.EvalSymlinks(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return real
}

func readIgnoreFile(dir string) (*ignoreFile, error) {
	f := filepath.Join(dir, ignoreFileName)
	ret := &ignoreFile{file: f}

	fin, err := os.Open(f)
	if err != nil {
		if os.IsNotExist(err) {
			return ret, nil
		}
		return nil, err
	}
	defer fin.Close()

	base := realPath(dir)
	s := bufio.NewScanner(fin)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		ret.paths = append(ret.paths, realPath(filepath.Join(base, line)))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (f *ignoreFile) ignores(p string) bool {
	for _, ig := range f.paths {
		if _, ok := underDir(ig, p); ok {
			return true
		}
	}
	return false
}

// ignoreSet caches the ignore files loaded in a run, by directory.
type ignoreSet struct {
	root  string
	files map[string]*ignoreFile
}

func newIgnoreSet(root string) *ignoreSet {
	return &ignoreSet{
		root:  root,
		files: make(map[string]*ignoreFile),
	}
}

// loadThrough loads the ignore files of dir and all its parents up to the
// build root.
func (s *ignoreSet) loadThrough(dir string) error {
	cur := filepath.Clean(dir)
	for {
		if _, ok := underDir(s.root, cur); !ok {
			return nil
		}
		if _, ok := s.files[cur]; !ok {
			f, err := readIgnoreFile(cur)
			if err != nil {
				return errcode.Annotatef(err, "read ignore file in %q", cur)
			}
			s.files[cur] = f
		}
		if cur == s.root {
			return nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil
		}
		cur = parent
	}
}

// match returns the ignore file that ignores dir, or empty if dir is not
// ignored.
func (s *ignoreSet) match(dir string) string {
	real := realPath(dir)

	var dirs []string
	for d := range s.files {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		if f := s.files[d]; f.ignores(real) {
			return f.file
		}
	}
	return ""
}
