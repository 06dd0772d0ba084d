package stitch

import (
	"log"
	"path"
	"path/filepath"
)

type env struct {
	rootDir string // absolute build root
	outDir  string // output directory, ${outdir} in generated paths
	homeDir string // installation home, for the system property file
	extDir  string // extension scripts

	log   *log.Logger
	paths *pathResolver
}

func (e *env) root(ps ...string) string {
	if len(ps) == 0 {
		return e.rootDir
	}
	p := path.Join(ps...)
	return filepath.Join(e.rootDir, filepath.FromSlash(p))
}

func (e *env) out(ps ...string) string {
	if len(ps) == 0 {
		return e.outDir
	}
	p := path.Join(ps...)
	return filepath.Join(e.outDir, filepath.FromSlash(p))
}
