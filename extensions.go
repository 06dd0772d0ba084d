package stitch

import (
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
)

const extensionSuffix = ".star"

// loadExtensions executes the extension scripts in dir in name order, and
// merges their public globals into the vocabulary. Each extension sees the
// names exported by the ones before it. It also returns the scripts that
// are executed.
func loadExtensions(env *env, vocab starlark.StringDict) (
	starlark.StringDict, []string, error,
) {
	if env.extDir == "" {
		return vocab, nil, nil
	}

	entries, err := os.ReadDir(env.extDir)
	if err != nil {
		return nil, nil, errcode.Annotate(err, "read extension dir")
	}

	var files []string
	merged := make(starlark.StringDict, len(vocab))
	for k, v := range vocab {
		merged[k] = v
	}

	for _, entry := range entries { // ReadDir sorts by name.
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, extensionSuffix) {
			continue
		}

		f := filepath.Join(env.extDir, name)
		th := newThread(env, name, nil)
		globals, err := starlark.ExecFileOptions(
			scriptOptions, th, f, nil, merged,
		)
		if err != nil {
			return nil, nil, errcode.Annotatef(err, "load extension %q", name)
		}
		globals.Freeze()
		files = append(files, f)

		for k, v := range globals {
			if strings.HasPrefix(k, "_") {
				continue
			}
			merged[k] = v
		}
	}
	return merged, files, nil
}
