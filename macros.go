package stitch

import (
	"path"
	"strings"
)

const macroEscape = '%'

// BuildDir returns the output directory of the target, relative to one of
// the output roots. It always ends with a "/".
func (t *Target) BuildDir() string {
	d := strings.ReplaceAll(t.Name(), SubtargetSpecifier, "_")
	d = Dequalify(d)
	if !strings.HasSuffix(d, "/") {
		d += "/"
	}
	return d
}

// AssemblyDir is where the target directs its outputs. This is what
// %(assemblydir) and "$/" expand to.
func (t *Target) AssemblyDir() string {
	return "${outdir}/" + strings.TrimPrefix(t.BuildDir(), "/")
}

// AssemblyTopDir is the output directory used entirely by the target. It
// is the same as the assembly dir.
func (t *Target) AssemblyTopDir() string { return t.AssemblyDir() }

// InputDir returns the directory of the build file, relative to the build
// root.
func (t *Target) InputDir() string {
	name := t.Name()
	if i := strings.Index(name, SubtargetSpecifier); i >= 0 {
		name = name[:i]
	}
	return Dequalify(name)
}

func (t *Target) macroValue(name string) (string, bool) {
	switch name {
	case "assemblydir":
		return t.AssemblyDir(), true
	case "assemblytopdir":
		return t.AssemblyTopDir(), true
	case "srcdir":
		return path.Join("${basedir}", t.InputDir()), true
	case "basedir":
		return "${basedir}", true
	}
	return "", false
}

// SubstituteMacros expands %(assemblydir), %(assemblytopdir), %(srcdir)
// and %(basedir) in s. "%%(name)" escapes into a literal "%(name)".
// Expanded values are not scanned again.
func (t *Target) SubstituteMacros(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		i := strings.IndexByte(s, macroEscape)
		if i < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:i])
		s = s[i:]

		escaped := strings.HasPrefix(s, "%%(")
		body := s[1:]
		if escaped {
			body = s[2:]
		}
		if !strings.HasPrefix(body, "(") {
			sb.WriteByte(macroEscape)
			s = s[1:]
			continue
		}
		end := strings.IndexByte(body, ')')
		if end < 0 {
			sb.WriteString(s)
			break
		}
		macro := body[:end+1]
		rest := body[end+1:]

		if escaped {
			sb.WriteByte(macroEscape)
			sb.WriteString(macro)
		} else if v, ok := t.macroValue(macro[1:end]); ok {
			sb.WriteString(v)
		} else {
			sb.WriteByte(macroEscape)
			sb.WriteString(macro)
		}
		s = rest
	}
	return sb.String()
}

// NormalizeUserPath turns a path written in a build file into a path
// string for generated build scripts. Macros are expanded first. Root
// qualified paths are relative to the build root, "$/" paths to the
// assembly dir, absolute paths and property references are kept as is.
// Other paths are relative to the build file directory, or to the
// assembly dir when isDest is set. When includeBaseDir is false, the
// leading "${basedir}/" of build file relative paths is omitted.
func (t *Target) NormalizeUserPath(p string, isDest, includeBaseDir bool) string {
	p = t.SubstituteMacros(p)

	switch {
	case IsRootQualified(p):
		if includeBaseDir {
			return "${basedir}/" + Dequalify(p)
		}
		return Dequalify(p)
	case IsOutDirQualified(p):
		return path.Join(t.AssemblyDir(), Dequalify(p))
	case path.IsAbs(p) || strings.HasPrefix(p, "${"):
		return p
	}

	if isDest {
		// The assembly dir is already rooted at ${outdir}.
		return path.Join(t.AssemblyDir(), p)
	}
	if includeBaseDir {
		return path.Join("${basedir}", t.InputDir(), p)
	}
	return path.Join(t.InputDir(), p)
}

// NormalizeSelectUserPath works like NormalizeUserPath on root qualified
// and "$/" paths, and returns other paths unchanged. Macros are not
// expanded.
func (t *Target) NormalizeSelectUserPath(p string) string {
	switch {
	case IsRootQualified(p):
		return "${basedir}/" + Dequalify(p)
	case IsOutDirQualified(p):
		return path.Join(t.AssemblyDir(), Dequalify(p))
	}
	return p
}
