package stitch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
)

// Property files, in the order they are read. Since properties are
// write-once, earlier files take precedence.
const (
	localPropsFile   = "my.properties"
	projectPropsFile = "build.properties"
	systemPropsFile  = "etc/stitch-config.properties"
)

// propEntries splits the content of a properties file into logical
// entries, joining continuation lines. Comment and blank lines are
// dropped.
func propEntries(src string) []string {
	var entries []string
	var cur strings.Builder
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if cur.Len() == 0 {
			trimmed := strings.TrimLeft(line, " \t\f")
			if trimmed == "" ||
				strings.HasPrefix(trimmed, "#") ||
				strings.HasPrefix(trimmed, "!") {
				continue
			}
		}
		cur.WriteString(line)
		cur.WriteString("\n")

		n := len(line) - len(strings.TrimRight(line, "\\"))
		if n%2 == 1 {
			continue // odd number of backslashes continues the entry
		}
		entries = append(entries, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		entries = append(entries, cur.String())
	}
	return entries
}

// loadPropsFile reads a Java properties file into p. Entries are set in
// file order, so the first of duplicated keys wins, and keys that are
// already set in p are left untouched. References are not expanded at
// load time.
func loadPropsFile(p *Props, f string) error {
	bs, err := os.ReadFile(f)
	if err != nil {
		return errcode.Annotatef(err, "read properties %q", f)
	}

	l := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	for _, entry := range propEntries(string(bs)) {
		fp, err := l.LoadBytes([]byte(entry))
		if err != nil {
			return errcode.Annotatef(err, "load properties %q", f)
		}
		for _, k := range fp.Keys() {
			v, _ := fp.Get(k)
			p.Set(k, v)
		}
	}
	return nil
}

// loadPropStack builds the property store of a run. basedir is set first,
// then local, project and system property files are layered in. It also
// returns the files that are read.
func loadPropStack(env *env, extra []string) (*Props, []string, error) {
	p := NewProps()
	p.Set("basedir", env.rootDir)
	if env.outDir != "" {
		p.Set("outdir", env.outDir)
	}

	var files []string
	files = append(files, env.root(localPropsFile), env.root(projectPropsFile))
	for _, f := range extra {
		files = append(files, env.root(f))
	}
	var loaded []string
	for _, f := range files {
		ok, err := osutil.IsRegular(f)
		if err != nil {
			return nil, nil, errcode.Annotatef(err, "check %q", f)
		}
		if !ok {
			continue
		}
		if err := loadPropsFile(p, f); err != nil {
			return nil, nil, err
		}
		loaded = append(loaded, f)
	}

	if env.homeDir == "" {
		return p, loaded, nil
	}
	sys := filepath.Join(env.homeDir, filepath.FromSlash(systemPropsFile))
	ok, err := osutil.IsRegular(sys)
	if err != nil {
		return nil, nil, errcode.Annotatef(err, "check %q", sys)
	}
	if !ok {
		env.log.Printf("warning: could not load %s", sys)
		return p, loaded, nil
	}
	if err := loadPropsFile(p, sys); err != nil {
		return nil, nil, err
	}
	return p, append(loaded, sys), nil
}
