package stitch

import (
	"path"
	"path/filepath"
	"strings"
)

// Reference qualifiers.
const (
	// RootQualifier prefixes paths relative to the build root.
	RootQualifier = "//"

	// OutDirQualifier prefixes paths relative to a target's output
	// directory.
	OutDirQualifier = "$/"

	// SubtargetSpecifier separates a build file from a target name in it.
	SubtargetSpecifier = ":"

	// SafeSeparator replaces path separators in safe names.
	SafeSeparator = "."
)

// IsRootQualified checks if p starts with "//".
func IsRootQualified(p string) bool {
	return strings.HasPrefix(p, RootQualifier)
}

// IsOutDirQualified checks if p starts with "$/".
func IsOutDirQualified(p string) bool {
	return strings.HasPrefix(p, OutDirQualifier)
}

// Dequalify strips the leading qualifier of p, if any.
func Dequalify(p string) string {
	if IsRootQualified(p) {
		return strings.TrimPrefix(p, RootQualifier)
	}
	if IsOutDirQualified(p) {
		return strings.TrimPrefix(p, OutDirQualifier)
	}
	return p
}

// SafeName flattens a canonical name into an identifier that has no path
// separators.
func SafeName(canonical string) string {
	s := Dequalify(canonical)
	s = strings.ReplaceAll(s, "/", SafeSeparator)
	return strings.ReplaceAll(s, SubtargetSpecifier, SafeSeparator)
}

func splitSubtarget(ref string) (string, string) {
	i := strings.Index(ref, SubtargetSpecifier)
	if i < 0 {
		return ref, ""
	}
	return ref[:i], ref[i:]
}

// pathResolver maps user paths to build root relative directories, with
// symlinks resolved.
type pathResolver struct {
	root     string // absolute build root
	realRoot string // build root with symlinks resolved
}

func newPathResolver(root string) (*pathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return &pathResolver{root: abs, realRoot: real}, nil
}

func underDir(dir, p string) (string, bool) {
	if p == dir {
		return "", true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if strings.HasPrefix(p, prefix) {
		return strings.TrimPrefix(p, prefix), true
	}
	return "", false
}

// abs returns the literal absolute path of a root relative path.
func (r *pathResolver) abs(p string) string {
	if path.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.root, filepath.FromSlash(p))
}

// relPath returns the path of p relative to the build root after resolving
// symlinks. When p lies outside of the build root, the full real path is
// returned. Paths that do not exist are taken literally.
func (r *pathResolver) relPath(p string) string {
	abs := r.abs(p)
	base := r.realRoot
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		real = abs
		base = r.root
	}
	rel, ok := underDir(base, real)
	if !ok {
		return filepath.ToSlash(real)
	}
	return filepath.ToSlash(rel)
}

// dirOf returns the root relative directory that ref points to, when ref
// is used from build file dir.
func (r *pathResolver) dirOf(ref, dir string) string {
	p := ref
	if IsRootQualified(p) {
		p = Dequalify(p)
	} else if !path.IsAbs(p) {
		p = path.Join(dir, p)
	}
	p = path.Clean(p)
	if p == "." {
		p = ""
	}
	return p
}

// canonical rewrites a target reference into its root qualified form.
// file is the build file the reference is written in.
func (r *pathResolver) canonical(ref string, file *BuildFile) string {
	if strings.HasPrefix(ref, SubtargetSpecifier) {
		if file == nil {
			return RootQualifier + ref
		}
		return file.name + ref
	}

	p, sub := splitSubtarget(ref)
	var dir string
	if file != nil {
		dir = file.dir
	}
	return RootQualifier + r.relPath(r.dirOf(p, dir)) + sub
}

// buildFileDir returns the root relative real directory of the build file
// that ref belongs to, and its literal absolute path.
func (r *pathResolver) buildFileDir(ref string, file *BuildFile) (
	rel, literal string,
) {
	p, _ := splitSubtarget(ref)
	var dir string
	if file != nil {
		dir = file.dir
	}
	d := r.dirOf(p, dir)
	return r.relPath(d), r.abs(d)
}
