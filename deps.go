package stitch

import (
	"fmt"
	"strings"

	"shanhu.io/misc/errcode"
)

// Policy decides where the dependency traversal stops at standalone
// targets.
type Policy int

// Inclusion policies for ArtifactSet.
const (
	// AllDependencies includes everything.
	AllDependencies Policy = iota

	// StandaloneDepsOnly includes the dependencies that are not exempt
	// from bundling, and does not look into standalone targets. This is
	// what a standalone artifact must copy into its own lib/.
	StandaloneDepsOnly

	// ExcludeStandaloneChildren includes everything until it reaches a
	// standalone target; below that, it works as ExcludeStandaloneDeps.
	// This is for targets that depend on a standalone artifact and must
	// not include again what the artifact bundled.
	ExcludeStandaloneChildren

	// ExcludeStandaloneDeps only includes the dependencies that are
	// exempt from bundling.
	ExcludeStandaloneDeps
)

var policyNames = map[Policy]string{
	AllDependencies:           "all",
	StandaloneDepsOnly:        "standalone-deps-only",
	ExcludeStandaloneChildren: "exclude-standalone-children",
	ExcludeStandaloneDeps:     "exclude-standalone-deps",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errcode.InvalidArgf("unknown policy %q", s)
}

func (p Policy) includes(t *Target) bool {
	switch p {
	case StandaloneDepsOnly:
		return !t.StandaloneExempt()
	case ExcludeStandaloneDeps:
		return t.StandaloneExempt()
	}
	return true
}

func (p Policy) descends(t *Target) bool {
	if p == StandaloneDepsOnly {
		return !t.Standalone()
	}
	return true
}

func (p Policy) below(t *Target) Policy {
	if p == ExcludeStandaloneChildren && t.Standalone() {
		return ExcludeStandaloneDeps
	}
	return p
}

func phaseHasArtifacts(phase string) bool {
	return phase == "build" || phase == "test"
}

type depWalker struct {
	seen   map[*Target]bool
	tracer *loadTracer
}

func newDepWalker(root *Target) *depWalker {
	return &depWalker{
		seen:   map[*Target]bool{root: true},
		tracer: newLoadTracer(),
	}
}

// deps resolves the required targets of t that produce rules.
func (w *depWalker) deps(t *Target) ([]*Target, error) {
	var ret []*Target
	for _, ref := range t.requires {
		dep, err := t.Lookup(ref)
		if err != nil {
			return nil, err
		}
		if dep.ProducesRules() {
			ret = append(ret, dep)
		}
	}
	return ret, nil
}

// visit marks dep as seen. A dep that is seen before is not expanded
// again; if it is still on the traversal path, the cycle is logged.
func (w *depWalker) visit(dep *Target) bool {
	if !w.seen[dep] {
		w.seen[dep] = true
		return true
	}
	if w.tracer.onPath(dep) {
		if c := w.tracer.cycle(dep); c != nil {
			dep.reg.log.Printf(
				"warning: dependency cycle: %s", strings.Join(c, " -> "),
			)
		}
	}
	return false
}

func (w *depWalker) artifacts(t *Target, recursive bool, p Policy) (
	[]string, error,
) {
	w.tracer.push(t)
	defer w.tracer.pop()

	deps, err := w.deps(t)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, dep := range deps {
		if !w.visit(dep) || !p.includes(dep) {
			continue
		}
		ret = append(ret, dep.SafeName()+".outputs")
		if !recursive {
			continue
		}
		ret = append(ret, dep.SafeName()+".classpath")
		if !p.descends(dep) {
			continue
		}
		sub, err := w.artifacts(dep, true, p.below(dep))
		if err != nil {
			return nil, err
		}
		ret = append(ret, sub...)
	}
	return ret, nil
}

// ArtifactSet returns the artifact references that the dependencies of t
// contribute to its classpath in phase: "<safe>.outputs" for each
// dependency, plus "<safe>.classpath" and the transitive dependencies when
// recursive is set. Each target appears at most once. Only the "build"
// and "test" phases have artifacts.
func ArtifactSet(t *Target, phase string, recursive bool, p Policy) (
	[]string, error,
) {
	if !phaseHasArtifacts(phase) {
		return nil, nil
	}
	return newDepWalker(t).artifacts(t, recursive, p)
}

// DependencyClosure returns all targets that t depends on transitively,
// without any filtering. Dependencies of a target are listed before any
// of their own dependencies.
func DependencyClosure(t *Target) ([]*Target, error) {
	w := newDepWalker(t)
	var ret []*Target

	var dfs func(t *Target) error
	dfs = func(t *Target) error {
		w.tracer.push(t)
		defer w.tracer.pop()

		deps, err := w.deps(t)
		if err != nil {
			return err
		}
		var added []*Target
		for _, dep := range deps {
			if w.visit(dep) {
				ret = append(ret, dep)
				added = append(added, dep)
			}
		}
		for _, dep := range added {
			if err := dfs(dep); err != nil {
				return err
			}
		}
		return nil
	}
	if err := dfs(t); err != nil {
		return nil, err
	}
	return ret, nil
}

// DependencySources returns the intermediate source directories that the
// direct dependencies of t generate for lang. An empty lang selects all
// languages.
func DependencySources(t *Target, lang string) ([]string, error) {
	deps, err := newDepWalker(t).deps(t)
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, dep := range deps {
		paths, err := dep.IntermediatePaths(lang)
		if err != nil {
			return nil, err
		}
		ret = append(ret, paths...)
	}
	return ret, nil
}

// RuleDeps returns the rules that the rules of t in phases depend on.
// Build and test rules depend on "init"; build rules also depend on the
// build rules of the required targets.
func RuleDeps(t *Target, phases ...string) ([]string, error) {
	has := make(map[string]bool)
	for _, p := range phases {
		has[p] = true
	}

	var ret []string
	if has["build"] || has["test"] {
		ret = append(ret, "init")
	}
	if !has["build"] {
		return ret, nil
	}
	for _, ref := range t.requires {
		dep, err := t.Lookup(ref)
		if err != nil {
			return nil, err
		}
		m := dep.RuleMap()
		if m == nil {
			t.reg.log.Printf(
				"warning: %s depends on %s, which has no rules",
				t.Name(), dep.Name(),
			)
			continue
		}
		if r, ok := m["build"]; ok {
			ret = append(ret, r)
		}
	}
	return ret, nil
}

// ClassPath returns the classpath to run the main class with. Whatever a
// standalone jar bundles is not repeated.
func (r *JavaExecRule) ClassPath(t *Target) ([]string, error) {
	return ArtifactSet(t, "build", true, ExcludeStandaloneChildren)
}
