package stitch

import (
	"go.starlark.net/starlark"
)

type builtinFunc func(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error)

// vocabulary returns the builtins that build files are executed with.
func vocabulary() starlark.StringDict {
	fns := map[string]builtinFunc{
		"jar":            builtinJar,
		"java_exec":      builtinJavaExec,
		"gen_sources":    builtinGenSources,
		"version":        builtinVersion,
		"version_of":     builtinVersionOf,
		"property":       builtinProperty,
		"group":          builtinGroup,
		"default_target": builtinDefaultTarget,
	}
	d := make(starlark.StringDict)
	for name, f := range fns {
		d[name] = starlark.NewBuiltin(name, f)
	}
	return d
}

// requireList checks that v is None or a list of strings.
func requireList(t *Target, v starlark.Value) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	switch v.(type) {
	case *starlark.List, starlark.Tuple:
	default:
		return nil, targetErrorf(
			t, "required_targets must be a list, got %s", v.Type(),
		)
	}

	var ret []string
	it := starlark.Iterate(v)
	defer it.Done()
	var x starlark.Value
	for it.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, targetErrorf(
				t, "required_targets must only contain strings, got %s",
				x.Type(),
			)
		}
		ret = append(ret, s)
	}
	return ret, nil
}

func targetValue(t *Target, arg string, v starlark.Value) (Value, error) {
	ret, err := optValue(v)
	if err != nil {
		return Value{}, targetErrorf(t, "%s: %s", arg, err)
	}
	return ret, nil
}

func builtinJar(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var (
		jarName    starlark.Value
		sources    starlark.Value = starlark.None
		requires   starlark.Value = starlark.None
		classPath  starlark.Value = starlark.None
		mainClass  starlark.Value = starlark.None
		dataPaths  starlark.Value = starlark.None
		standalone bool
		exempt     bool
	)
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs,
		"jar_name", &jarName,
		"sources?", &sources,
		"required_targets?", &requires,
		"classpath_elements?", &classPath,
		"main_class_name?", &mainClass,
		"data_paths?", &dataPaths,
		"standalone?", &standalone,
		"standalone_exempt?", &exempt,
	); err != nil {
		return nil, err
	}

	r := &JarRule{standalone: standalone, exempt: exempt}
	t := ctx.declare(th, r)
	t.lang = "java"
	if t.requires, err = requireList(t, requires); err != nil {
		return nil, err
	}
	if r.jarName, err = targetValue(t, "jar_name", jarName); err != nil {
		return nil, err
	}
	if r.sources, err = targetValue(t, "sources", sources); err != nil {
		return nil, err
	}
	if r.classPath, err = targetValue(
		t, "classpath_elements", classPath,
	); err != nil {
		return nil, err
	}
	if r.mainClass, err = targetValue(
		t, "main_class_name", mainClass,
	); err != nil {
		return nil, err
	}
	if r.dataPaths, err = targetValue(t, "data_paths", dataPaths); err != nil {
		return nil, err
	}
	return t, nil
}

func builtinJavaExec(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var (
		mainJar   string
		mainClass starlark.Value = starlark.None
		requires  starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs,
		"main_jar_target", &mainJar,
		"main_class_name?", &mainClass,
		"required_targets?", &requires,
	); err != nil {
		return nil, err
	}

	r := &JavaExecRule{mainJar: mainJar}
	t := ctx.declare(th, r)
	t.lang = "java"
	reqs, err := requireList(t, requires)
	if err != nil {
		return nil, err
	}
	t.requires = append([]string{mainJar}, reqs...)
	if r.mainClass, err = targetValue(
		t, "main_class_name", mainClass,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func builtinGenSources(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var (
		lang     string
		outputs  starlark.Value
		requires starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs,
		"language", &lang,
		"outputs", &outputs,
		"required_targets?", &requires,
	); err != nil {
		return nil, err
	}

	r := &GenSourcesRule{lang: lang}
	t := ctx.declare(th, r)
	t.lang = lang
	if t.requires, err = requireList(t, requires); err != nil {
		return nil, err
	}
	if r.outputs, err = targetValue(t, "outputs", outputs); err != nil {
		return nil, err
	}
	return t, nil
}

func builtinVersion(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var (
		version  starlark.Value
		requires starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs,
		"version", &version,
		"required_targets?", &requires,
	); err != nil {
		return nil, err
	}

	r := new(VersionRule)
	t := ctx.declare(th, r)
	if t.requires, err = requireList(t, requires); err != nil {
		return nil, err
	}
	if r.version, err = targetValue(t, "version", version); err != nil {
		return nil, err
	}
	return t, nil
}

// builtinVersionOf returns a deferred value that resolves to the version
// of another target. The reference is resolved when the value is forced,
// after all build files are loaded.
func builtinVersionOf(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var ref string
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs, "target", &ref,
	); err != nil {
		return nil, err
	}

	f := func(t *Target) (Value, error) {
		dep, err := t.Lookup(ref)
		if err != nil {
			return Value{}, err
		}
		v, ok := dep.Rule().(Versioner)
		if !ok {
			return Value{}, targetErrorf(t, "%s has no version", dep.Name())
		}
		s, err := v.Version(dep)
		if err != nil {
			return Value{}, err
		}
		return Literal(s), nil
	}
	return &deferred{name: "version_of " + ref, v: Deferred(f)}, nil
}

func builtinProperty(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var (
		name  string
		value starlark.Value
	)
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs,
		"prop_name", &name,
		"prop_val", &value,
	); err != nil {
		return nil, err
	}

	r := &PropertyRule{name: name}
	t := ctx.declare(th, r)
	if r.value, err = targetValue(t, "prop_val", value); err != nil {
		return nil, err
	}
	return t, nil
}

func builtinGroup(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var requires starlark.Value
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs, "required_targets", &requires,
	); err != nil {
		return nil, err
	}

	t := ctx.declare(th, new(GroupRule))
	if t.requires, err = requireList(t, requires); err != nil {
		return nil, err
	}
	return t, nil
}

func builtinDefaultTarget(
	th *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple,
) (starlark.Value, error) {
	ctx, err := loadContextOf(th, fn.Name())
	if err != nil {
		return nil, err
	}

	var t *Target
	if err := starlark.UnpackArgs(
		fn.Name(), args, kwargs, "target", &t,
	); err != nil {
		return nil, err
	}
	if t.file != ctx.file {
		return nil, targetErrorf(
			t, "cannot be the default target of %s", ctx.file.name,
		)
	}
	ctx.file.defaultTarget = t
	return starlark.None, nil
}
