package stitch

import (
	"strings"
)

func phaseRules(t *Target, phases ...string) map[string]string {
	m := make(map[string]string)
	for _, p := range phases {
		m[p] = t.SafeName() + "-" + p
	}
	m["default"] = t.SafeName() + "-build"
	return m
}

func normalizePaths(
	t *Target, v Value, isDest, includeBaseDir bool,
) ([]string, error) {
	strs, err := t.Force(v)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range strs {
		out = append(out, t.NormalizeUserPath(s, isDest, includeBaseDir))
	}
	return out, nil
}

// JarRule builds a jar out of java sources.
type JarRule struct {
	jarName   Value
	sources   Value
	classPath Value
	mainClass Value
	dataPaths Value

	standalone bool
	exempt     bool
}

// Type returns "jar".
func (r *JarRule) Type() string { return "jar" }

// RuleMap returns the build and clean rules.
func (r *JarRule) RuleMap(t *Target) map[string]string {
	return phaseRules(t, "build", "clean")
}

// OutputPaths returns the jar file.
func (r *JarRule) OutputPaths(t *Target) ([]string, error) {
	name, err := ForceString(t, r.jarName)
	if err != nil {
		return nil, err
	}
	return []string{"${jardir}/" + name}, nil
}

// ClassPathElements returns the extra classpath elements declared.
func (r *JarRule) ClassPathElements(t *Target) ([]string, error) {
	return normalizePaths(t, r.classPath, false, true)
}

// Sources returns the source paths of the jar.
func (r *JarRule) Sources(t *Target) ([]string, error) {
	return normalizePaths(t, r.sources, false, true)
}

// DataPaths returns the paths of data files to include in the jar.
func (r *JarRule) DataPaths(t *Target) ([]string, error) {
	return normalizePaths(t, r.dataPaths, false, true)
}

// MainClass returns the main class of the jar, or empty if not set.
func (r *JarRule) MainClass(t *Target) (string, error) {
	strs, err := t.Force(r.mainClass)
	if err != nil || len(strs) == 0 {
		return "", err
	}
	return strs[0], nil
}

// Standalone checks if the jar bundles its dependencies under lib/.
func (r *JarRule) Standalone() bool { return r.standalone }

// StandaloneExempt checks if standalone jars should not bundle this jar.
func (r *JarRule) StandaloneExempt() bool { return r.exempt }

// JavaExecRule runs a main class out of a jar.
type JavaExecRule struct {
	mainJar   string
	mainClass Value
}

// Type returns "java_exec".
func (r *JavaExecRule) Type() string { return "java_exec" }

// RuleMap returns the build and clean rules.
func (r *JavaExecRule) RuleMap(t *Target) map[string]string {
	return phaseRules(t, "build", "clean")
}

// OutputPaths returns the assembly directory, which holds the launcher
// and its lib/ directory.
func (r *JavaExecRule) OutputPaths(t *Target) ([]string, error) {
	return []string{t.AssemblyDir()}, nil
}

// MainClass returns the main class. If not set on the rule, the main class
// of the main jar is used.
func (r *JavaExecRule) MainClass(t *Target) (string, error) {
	strs, err := t.Force(r.mainClass)
	if err != nil {
		return "", err
	}
	if len(strs) > 0 && strs[0] != "" {
		return strs[0], nil
	}

	jar, err := t.Lookup(r.mainJar)
	if err != nil {
		return "", err
	}
	jr, ok := jar.Rule().(*JarRule)
	if !ok {
		return "", targetErrorf(t, "%s is not a jar", jar.Name())
	}
	name, err := jr.MainClass(jar)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", targetErrorf(t, "no main class for %s", jar.Name())
	}
	return name, nil
}

// ShortMainClass returns the main class name without the package, which
// names the launcher.
func (r *JavaExecRule) ShortMainClass(t *Target) (string, error) {
	name, err := r.MainClass(t)
	if err != nil {
		return "", err
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:], nil
	}
	return name, nil
}

// GenSourcesRule generates intermediate sources for a language.
type GenSourcesRule struct {
	lang    string
	outputs Value
}

// Type returns "gen_sources".
func (r *GenSourcesRule) Type() string { return "gen_sources" }

// RuleMap returns the build and clean rules.
func (r *GenSourcesRule) RuleMap(t *Target) map[string]string {
	return phaseRules(t, "build", "clean")
}

// IntermediatePaths returns the generated source directories when lang
// matches. An empty lang matches any language.
func (r *GenSourcesRule) IntermediatePaths(t *Target, lang string) (
	[]string, error,
) {
	if lang != "" && lang != r.lang {
		return nil, nil
	}
	return normalizePaths(t, r.outputs, true, false)
}

// OutputPaths returns the generated directories.
func (r *GenSourcesRule) OutputPaths(t *Target) ([]string, error) {
	dirs, err := normalizePaths(t, r.outputs, true, false)
	if err != nil {
		return nil, err
	}
	for i, d := range dirs {
		if !strings.HasSuffix(d, "/") {
			dirs[i] = d + "/"
		}
	}
	return dirs, nil
}

// VersionRule carries a version string for other targets.
type VersionRule struct {
	version Value
}

// Type returns "version".
func (r *VersionRule) Type() string { return "version" }

// RuleMap returns the build and clean rules.
func (r *VersionRule) RuleMap(t *Target) map[string]string {
	return phaseRules(t, "build", "clean")
}

// Version returns the version string.
func (r *VersionRule) Version(t *Target) (string, error) {
	return ForceString(t, r.version)
}

// PropertyRule declares a property.
type PropertyRule struct {
	name  string
	value Value
}

// Type returns "property".
func (r *PropertyRule) Type() string { return "property" }

// Preamble returns the property.
func (r *PropertyRule) Preamble(t *Target) (map[string]string, error) {
	v, err := ForceString(t, r.value)
	if err != nil {
		return nil, err
	}
	return map[string]string{r.name: v}, nil
}

// GroupRule groups other targets. It has no actions on its own.
type GroupRule struct{}

// Type returns "group".
func (r *GroupRule) Type() string { return "group" }

// RuleMap returns the build rule.
func (r *GroupRule) RuleMap(t *Target) map[string]string {
	return phaseRules(t, "build")
}
