package stitch

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testTargets struct {
	t   *testing.T
	reg *Registry
	log *bytes.Buffer
}

func newTestTargets(t *testing.T) *testTargets {
	paths, err := newPathResolver(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	return &testTargets{
		t:   t,
		reg: newRegistry(paths, log.New(buf, "", 0)),
		log: buf,
	}
}

func (ts *testTargets) add(name string, rule Rule, requires ...string) *Target {
	tg := ts.reg.newTarget(rule)
	tg.requires = requires
	if err := tg.setName(name); err != nil {
		ts.t.Fatal(err)
	}
	ts.reg.register(name, tg)
	ts.reg.add(tg)
	return tg
}

func testJar(name string) *JarRule {
	return &JarRule{jarName: Literal(name + ".jar")}
}

func standaloneJar(name string) *JarRule {
	r := testJar(name)
	r.standalone = true
	return r
}

func exemptJar(name string) *JarRule {
	r := testJar(name)
	r.exempt = true
	return r
}

func TestArtifactSetStandalone(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b")
	ts.add("//t:b", standaloneJar("b"), "//t:c")
	ts.add("//t:c", testJar("c"))

	for _, test := range []struct {
		p    Policy
		want []string
	}{
		{AllDependencies, []string{
			"t.b.outputs", "t.b.classpath", "t.c.outputs", "t.c.classpath",
		}},
		{StandaloneDepsOnly, []string{"t.b.outputs", "t.b.classpath"}},
	} {
		got, err := ArtifactSet(a, "build", true, test.p)
		if err != nil {
			t.Fatalf("policy %s: %s", test.p, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("policy %s, got diff: %s", test.p, diff)
		}
	}
}

func TestArtifactSetExcludeStandaloneChildren(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b", "//t:e")
	ts.add("//t:b", standaloneJar("b"), "//t:c", "//t:d")
	ts.add("//t:c", testJar("c"))
	ts.add("//t:d", exemptJar("d"))
	ts.add("//t:e", testJar("e"))

	got, err := ArtifactSet(a, "build", true, ExcludeStandaloneChildren)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"t.b.outputs", "t.b.classpath",
		"t.d.outputs", "t.d.classpath",
		"t.e.outputs", "t.e.classpath",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}

	exec := ts.add("//t:run", &JavaExecRule{mainJar: "//t:a"}, "//t:a")
	cp, err := exec.Rule().(*JavaExecRule).ClassPath(exec)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(append(
		[]string{"t.a.outputs", "t.a.classpath"}, want...,
	), cp); diff != "" {
		t.Errorf("classpath got diff: %s", diff)
	}
}

func TestArtifactSetExcludeStandaloneDeps(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b", "//t:c")
	ts.add("//t:b", exemptJar("b"))
	ts.add("//t:c", testJar("c"))

	got, err := ArtifactSet(a, "build", true, ExcludeStandaloneDeps)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"t.b.outputs", "t.b.classpath"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}
}

func TestArtifactSetDiamond(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b", "//t:c")
	ts.add("//t:b", testJar("b"), "//t:d")
	ts.add("//t:c", testJar("c"), "//t:d")
	ts.add("//t:d", testJar("d"))

	got, err := ArtifactSet(a, "test", true, AllDependencies)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"t.b.outputs", "t.b.classpath",
		"t.d.outputs", "t.d.classpath",
		"t.c.outputs", "t.c.classpath",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}

	direct, err := ArtifactSet(a, "build", false, AllDependencies)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(
		[]string{"t.b.outputs", "t.c.outputs"}, direct,
	); diff != "" {
		t.Errorf("non recursive got diff: %s", diff)
	}

	none, err := ArtifactSet(a, "clean", true, AllDependencies)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("clean phase got artifacts: %q", none)
	}
}

func TestArtifactSetCycle(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b")
	ts.add("//t:b", testJar("b"), "//t:a")

	got, err := ArtifactSet(a, "build", true, AllDependencies)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"t.b.outputs", "t.b.classpath"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}
	if !strings.Contains(ts.log.String(), "dependency cycle: //t:a -> //t:b -> //t:a") {
		t.Errorf("cycle not logged: %q", ts.log.String())
	}
}

func TestArtifactSetSkipsNonRuleTargets(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:p", "//t:b")
	ts.add("//t:p", &PropertyRule{name: "k", value: Literal("v")})
	ts.add("//t:b", testJar("b"))

	got, err := ArtifactSet(a, "build", false, AllDependencies)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"t.b.outputs"}, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}
}

func TestArtifactSetMissingTarget(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:nope")

	_, err := ArtifactSet(a, "build", true, AllDependencies)
	missing, ok := err.(*MissingTargetError)
	if !ok {
		t.Fatalf("want a missing target error, got %v", err)
	}
	if missing.Ref != "//t:nope" || missing.Referrer != "//t:a" {
		t.Errorf("unexpected error: %+v", missing)
	}
}

func TestDependencyClosure(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b", "//t:c")
	ts.add("//t:b", standaloneJar("b"), "//t:d")
	ts.add("//t:c", testJar("c"), "//t:d", "//t:a")
	ts.add("//t:d", testJar("d"))

	deps, err := DependencyClosure(a)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, d := range deps {
		got = append(got, d.Name())
	}
	want := []string{"//t:b", "//t:c", "//t:d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}
}

func TestRuleDeps(t *testing.T) {
	ts := newTestTargets(t)
	a := ts.add("//t:a", testJar("a"), "//t:b", "//t:p")
	ts.add("//t:b", testJar("b"))
	ts.add("//t:p", &PropertyRule{name: "k", value: Literal("v")})

	got, err := RuleDeps(a, "build")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"init", "t.b-build"}, got); diff != "" {
		t.Errorf("got diff: %s", diff)
	}
	if !strings.Contains(ts.log.String(), "which has no rules") {
		t.Errorf("missing warning: %q", ts.log.String())
	}

	got, err = RuleDeps(a, "clean")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("clean rule deps: got %q", got)
	}
}

func TestParsePolicy(t *testing.T) {
	for p := range policyNames {
		got, err := ParsePolicy(p.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("parse %q: got %s", p.String(), got)
		}
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Error("bogus policy parsed")
	}
}
