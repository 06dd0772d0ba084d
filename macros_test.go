package stitch

import (
	"testing"
)

func namedTestTarget(t *testing.T, name string, rule Rule) *Target {
	t.Helper()
	tg := &Target{rule: rule}
	if err := tg.setName(name); err != nil {
		t.Fatal(err)
	}
	return tg
}

func TestTargetDirs(t *testing.T) {
	tg := namedTestTarget(t, "//a/b:lib", new(GroupRule))
	if got, want := tg.BuildDir(), "a/b_lib/"; got != want {
		t.Errorf("BuildDir: got %q, want %q", got, want)
	}
	if got, want := tg.AssemblyDir(), "${outdir}/a/b_lib/"; got != want {
		t.Errorf("AssemblyDir: got %q, want %q", got, want)
	}
	if got, want := tg.InputDir(), "a/b"; got != want {
		t.Errorf("InputDir: got %q, want %q", got, want)
	}
}

func TestSubstituteMacros(t *testing.T) {
	tg := namedTestTarget(t, "//a/b:lib", new(GroupRule))
	for _, test := range []struct {
		in, want string
	}{
		{"%(srcdir)/x", "${basedir}/a/b/x"},
		{"%(assemblydir)lib", "${outdir}/a/b_lib/lib"},
		{"%(assemblytopdir)", "${outdir}/a/b_lib/"},
		{"%(basedir)/y", "${basedir}/y"},
		{"%%(srcdir)", "%(srcdir)"},
		{"%%(basedir)%(basedir)", "%(basedir)${basedir}"},
		{"%(unknown)", "%(unknown)"},
		{"100% done", "100% done"},
		{"tail%", "tail%"},
		{"%(open", "%(open"},
		{"plain", "plain"},
	} {
		if got := tg.SubstituteMacros(test.in); got != test.want {
			t.Errorf("expand %q: got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestNormalizeUserPath(t *testing.T) {
	tg := namedTestTarget(t, "//a/b:lib", new(GroupRule))
	for _, test := range []struct {
		p              string
		isDest, inBase bool
		want           string
	}{
		{"src", false, true, "${basedir}/a/b/src"},
		{"src", false, false, "a/b/src"},
		{"gen", true, true, "${outdir}/a/b_lib/gen"},
		{"//lib/x.jar", false, true, "${basedir}/lib/x.jar"},
		{"//lib/x.jar", false, false, "lib/x.jar"},
		{"$/classes", false, true, "${outdir}/a/b_lib/classes"},
		{"/usr/share/java", false, true, "/usr/share/java"},
		{"${jardir}/y.jar", false, true, "${jardir}/y.jar"},
		{"%(srcdir)/z", false, true, "${basedir}/a/b/z"},
	} {
		got := tg.NormalizeUserPath(test.p, test.isDest, test.inBase)
		if got != test.want {
			t.Errorf(
				"normalize %q (dest=%t, base=%t): got %q, want %q",
				test.p, test.isDest, test.inBase, got, test.want,
			)
		}
	}
}

func TestNormalizeSelectUserPath(t *testing.T) {
	tg := namedTestTarget(t, "//a:lib", new(GroupRule))
	for _, test := range []struct {
		in, want string
	}{
		{"//x", "${basedir}/x"},
		{"$/y", "${outdir}/a_lib/y"},
		{"rel", "rel"},
		{"%(srcdir)", "%(srcdir)"},
	} {
		if got := tg.NormalizeSelectUserPath(test.in); got != test.want {
			t.Errorf("normalize %q: got %q, want %q", test.in, got, test.want)
		}
	}
}
