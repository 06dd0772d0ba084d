package stitch

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"shanhu.io/misc/jsonutil"
)

func exportTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		"build.properties": "jardir=${outdir}/jars\n",
		"app/targets": strings.Join([]string{
			`app = jar(`,
			`    jar_name = "app.jar",`,
			`    required_targets = ["//lib:util"],`,
			`    standalone = True,`,
			`)`,
			`run = java_exec(main_jar_target = ":app", main_class_name = "a.Main")`,
		}, "\n"),
		"lib/targets": `util = jar(jar_name = "util.jar")`,
	})
	return root
}

func TestExportDB(t *testing.T) {
	root := exportTestTree(t)
	g, _ := loadTestGraph(t, root, "app", &Config{Out: "out"})

	file := g.OutPath("db", "graph.db")
	if err := ExportDB(g, file); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", file)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`select count(*) from targets`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got %d targets, want 3", n)
	}

	var name string
	if err := db.QueryRow(
		`select name from aliases where alias = ?`, "//app:app",
	).Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "//app" {
		t.Errorf("alias //app:app points to %q", name)
	}

	rows, err := db.Query(
		`select dep from deps where name = ? order by dep`, "//app:run",
	)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var deps []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			t.Fatal(err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"//app"}, deps); diff != "" {
		t.Errorf("deps got diff: %s", diff)
	}

	var jardir string
	if err := db.QueryRow(
		`select value from props where key = ?`, "jardir",
	).Scan(&jardir); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(g.OutDir(), "jars"); jardir != want {
		t.Errorf("jardir: got %q, want %q", jardir, want)
	}

	// Exporting again replaces the old database.
	if err := ExportDB(g, file); err != nil {
		t.Fatal(err)
	}
}

func TestDigest(t *testing.T) {
	root := exportTestTree(t)
	g1, _ := loadTestGraph(t, root, "app", nil)
	g2, _ := loadTestGraph(t, root, "app", nil)

	d1, err := g1.Digest()
	if err != nil {
		t.Fatal(err)
	}
	d2, err := g2.Digest()
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Errorf("digest changed between loads: %s vs %s", d1, d2)
	}
	if !strings.HasPrefix(d1, "sha256:") {
		t.Errorf("bad digest %q", d1)
	}

	writeTestFiles(t, root, map[string]string{
		"lib/targets": `util = jar(jar_name = "util2.jar")`,
	})
	g3, _ := loadTestGraph(t, root, "app", nil)
	d3, err := g3.Digest()
	if err != nil {
		t.Fatal(err)
	}
	if d3 == d1 {
		t.Error("digest not changed after a jar is renamed")
	}
}

func TestWriteReport(t *testing.T) {
	root := exportTestTree(t)
	g, _ := loadTestGraph(t, root, "app", nil)

	buf := new(bytes.Buffer)
	if err := WriteReport(buf, g); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"//app (jar)",
		"aliases: //app:_rule_0 //app:app",
		"requires //lib",
		"build: app-build",
		"output ${jardir}/app.jar",
		"//app:run (java_exec)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	root := exportTestTree(t)
	g, _ := loadTestGraph(t, root, "app", nil)

	file := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteJSON(g, file); err != nil {
		t.Fatal(err)
	}
	dump := new(graphDump)
	if err := jsonutil.ReadFile(file, dump); err != nil {
		t.Fatal(err)
	}
	digest, err := g.Digest()
	if err != nil {
		t.Fatal(err)
	}
	if dump.Digest != digest {
		t.Errorf("digest: got %q, want %q", dump.Digest, digest)
	}
	if len(dump.Targets) != 3 {
		t.Errorf("got %d targets, want 3", len(dump.Targets))
	}
}

func TestUpToDate(t *testing.T) {
	root := exportTestTree(t)
	g, _ := loadTestGraph(t, root, "app", nil)

	var files []string
	for _, in := range g.Inputs() {
		files = append(files, filepath.Base(in.Name))
	}
	want := []string{"build.properties", "targets", "targets"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("inputs got diff: %s", diff)
	}

	ok, err := g.UpToDate()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("graph is stale right after loading")
	}

	writeTestFiles(t, root, map[string]string{
		"lib/targets": `util = jar(jar_name = "a-longer-name.jar")`,
	})
	ok, err = g.UpToDate()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("graph is not stale after a build file changed")
	}
}
