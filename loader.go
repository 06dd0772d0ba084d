package stitch

import (
	"path/filepath"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
)

// loader discovers build files breadth first, starting from one
// directory and following the required targets of every loaded build file.
type loader struct {
	env   *env
	reg   *Registry
	vocab starlark.StringDict

	ignores *ignoreSet

	// Visited directories, both as literal paths and as real paths.
	visited map[string]bool

	files []*BuildFile
}

func newLoader(env *env, reg *Registry, vocab starlark.StringDict) *loader {
	return &loader{
		env:     env,
		reg:     reg,
		vocab:   vocab,
		ignores: newIgnoreSet(env.rootDir),
		visited: make(map[string]bool),
	}
}

// visit marks a directory as visited. It returns false if the directory,
// or the directory it links to, was visited before.
func (l *loader) visit(dir string) bool {
	real := realPath(dir)
	if l.visited[dir] || l.visited[real] {
		return false
	}
	l.visited[dir] = true
	l.visited[real] = true
	return true
}

// requiredDirs returns the directories of build files that the targets in
// f require, as literal absolute paths.
func (l *loader) requiredDirs(f *BuildFile) ([]string, error) {
	var dirs []string
	for _, t := range f.targets {
		for _, req := range t.requires {
			_, dir := l.env.paths.buildFileDir(req, f)
			bf := filepath.Join(dir, buildFileName)
			ok, err := osutil.IsRegular(bf)
			if err != nil {
				return nil, errcode.Annotatef(err, "check %q", bf)
			}
			if !ok {
				return nil, &MissingBuildFileError{
					Referrer: t.Name(),
					Pos:      t.pos,
					File:     bf,
				}
			}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func (l *loader) load1(dir string) ([]string, error) {
	if err := l.ignores.loadThrough(dir); err != nil {
		return nil, err
	}
	if f := l.ignores.match(dir); f != "" {
		l.env.log.Printf("s-ignoring %s (%s)", dir, f)
		return nil, nil
	}

	l.env.log.Printf("Processing %s", dir)
	f, err := loadBuildFile(l.env, l.reg, l.vocab, dir)
	if err != nil {
		return nil, err
	}
	l.files = append(l.files, f)
	return l.requiredDirs(f)
}

// discover walks from the build file directory start.
func (l *loader) discover(start string) error {
	start = filepath.Clean(start)
	l.visit(start)
	frontier := []string{start}

	for len(frontier) > 0 {
		var next []string
		for _, dir := range frontier {
			deps, err := l.load1(dir)
			if err != nil {
				return err
			}
			for _, dep := range deps {
				if l.visit(dep) {
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}
	return nil
}
