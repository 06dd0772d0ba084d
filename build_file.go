package stitch

import (
	"errors"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"shanhu.io/text/lexing"
)

const buildFileName = "targets"

// BuildFile is a loaded build file. It is bound to a directory, and
// declares a list of targets.
type BuildFile struct {
	path string // absolute path of the file
	dir  string // directory relative to the build root
	name string
	safe string

	targets       []*Target
	defaultTarget *Target
}

func newBuildFile(env *env, dir string) *BuildFile {
	rel := env.paths.relPath(dir)
	name := RootQualifier + rel
	return &BuildFile{
		path: filepath.Join(dir, buildFileName),
		dir:  rel,
		name: name,
		safe: SafeName(name),
	}
}

// Path returns the file path of the build file.
func (f *BuildFile) Path() string { return f.path }

// Dir returns the directory relative to the build root.
func (f *BuildFile) Dir() string { return f.dir }

// Name returns the canonical name, like "//src/foo".
func (f *BuildFile) Name() string { return f.name }

// SafeName returns the separator-flattened name.
func (f *BuildFile) SafeName() string { return f.safe }

// Targets returns all targets declared, in declaration order.
func (f *BuildFile) Targets() []*Target { return f.targets }

// Default returns the default target.
func (f *BuildFile) Default() *Target { return f.defaultTarget }

func (f *BuildFile) addTarget(t *Target) {
	f.targets = append(f.targets, t)
	if f.defaultTarget == nil {
		f.defaultTarget = t
	}
}

// declare creates a provisional target in the build file. pos is found by
// walking up the call stack to the frame that runs the build file, so that
// targets declared by extension functions point to their callers.
func (c *loadContext) declare(th *starlark.Thread, rule Rule) *Target {
	t := c.reg.newTarget(rule)
	t.file = c.file
	t.pos = callerPos(th)
	c.file.addTarget(t)
	return t
}

func callerPos(th *starlark.Thread) *lexing.Pos {
	var found *lexing.Pos
	for i := 0; i < th.CallStackDepth(); i++ {
		p := th.CallFrame(i).Pos
		if !p.IsValid() {
			continue
		}
		pos := &lexing.Pos{
			File: p.Filename(),
			Line: int(p.Line),
			Col:  int(p.Col),
		}
		if filepath.Base(pos.File) == buildFileName {
			return pos
		}
		if found == nil && pos.File != "<builtin>" {
			found = pos
		}
	}
	return found
}

// finalize gives targets their final names once the build file finished
// executing. A target bound to top level variables is named after the
// first one in sorted order. An unbound target keeps its placeholder. The
// default target is named after the build file itself. All names the
// target is known as are registered.
func (f *BuildFile) finalize(reg *Registry, globals starlark.StringDict) {
	bound := make(map[*Target][]string)
	for _, k := range globals.Keys() { // Keys() is sorted.
		if t, ok := globals[k].(*Target); ok && t.file == f {
			bound[t] = append(bound[t], k)
		}
	}

	for _, t := range f.targets {
		names := []string{f.name + SubtargetSpecifier + t.anon}
		for _, v := range bound[t] {
			names = append(names, f.name+SubtargetSpecifier+v)
		}
		final := names[0]
		if vars := bound[t]; len(vars) > 0 {
			final = f.name + SubtargetSpecifier + vars[0]
		}
		if t == f.defaultTarget {
			final = f.name
			names = append(names, f.name)
		}

		if err := t.setName(final); err != nil {
			reg.errList.Add(&lexing.Error{Pos: t.pos, Err: err})
			continue
		}
		for _, name := range names {
			reg.register(name, t)
		}
		reg.add(t)
	}
}

// loadBuildFile executes the build file in dir. A file that cannot be
// read or parsed is logged and treated as empty. A failure during
// execution is returned as a *LoadError.
func loadBuildFile(
	env *env, reg *Registry, vocab starlark.StringDict, dir string,
) (*BuildFile, error) {
	f := newBuildFile(env, dir)

	src, err := os.ReadFile(f.path)
	if err != nil {
		env.log.Printf("build file %s could not be loaded: %s", f.path, err)
		return f, nil
	}

	ctx := &loadContext{env: env, reg: reg, file: f}
	th := newThread(env, f.name, ctx)
	globals, err := starlark.ExecFileOptions(
		scriptOptions, th, f.path, src, vocab,
	)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, &LoadError{File: f.path, Err: err}
		}
		env.log.Printf("syntax error evaluating %s: %s", f.path, err)
		f.targets = nil
		f.defaultTarget = nil
		return f, nil
	}

	f.finalize(reg, globals)
	return f, nil
}
