// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package stitch

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Config provides the configuration to start a run.
type Config struct {
	Root   string // Build root directory
	Start  string // Directory to start discovery from; defaults to Root
	Home   string // Installation home, for etc/stitch-config.properties
	Out    string // Output directory
	ExtDir string // Directory of extension scripts

	PropertyFiles []string // Extra property files, relative to Root

	Log io.Writer // Defaults to os.Stderr
}

// Stitch loads build files into a graph.
type Stitch struct {
	env   *env
	start string
	props []string
}

// New creates a new run. Settings in the WORKSPACE.stitch file of the
// build root are used where config leaves them empty.
func New(config *Config) (*Stitch, error) {
	root := config.Root
	if root == "" {
		root = "."
	}
	paths, err := newPathResolver(root)
	if err != nil {
		return nil, errcode.Annotate(err, "resolve build root")
	}

	w := config.Log
	if w == nil {
		w = os.Stderr
	}
	env := &env{
		rootDir: paths.root,
		homeDir: config.Home,
		log:     log.New(w, "", 0),
		paths:   paths,
	}

	ws, err := readWorkspace(env.root(workspaceFile))
	if err != nil {
		return nil, errcode.Annotate(err, "read workspace")
	}

	env.outDir = pick(config.Out, ws.OutDir)
	env.extDir = pick(config.ExtDir, ws.ExtDir)
	if env.outDir != "" && !filepath.IsAbs(env.outDir) {
		env.outDir = env.root(env.outDir)
	}
	if env.extDir != "" && !filepath.IsAbs(env.extDir) {
		env.extDir = env.root(env.extDir)
	}

	start := paths.root
	if config.Start != "" {
		abs, err := filepath.Abs(config.Start)
		if err != nil {
			return nil, errcode.Annotate(err, "resolve start dir")
		}
		start = abs
	}

	var props []string
	props = append(props, config.PropertyFiles...)
	props = append(props, ws.PropertyFiles...)

	return &Stitch{env: env, start: start, props: props}, nil
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Load discovers and loads all build files reachable from the start
// directory, and returns the resolved graph.
func (s *Stitch) Load() (*Graph, []*lexing.Error) {
	inputs := newInputStats()
	props, propFiles, err := loadPropStack(s.env, s.props)
	if err != nil {
		return nil, lexing.SingleErr(err)
	}
	vocab, extFiles, err := loadExtensions(s.env, vocabulary())
	if err != nil {
		return nil, lexing.SingleErr(err)
	}
	for _, f := range propFiles {
		if err := inputs.add(f, fileTypeProps); err != nil {
			return nil, lexing.SingleErr(err)
		}
	}
	for _, f := range extFiles {
		if err := inputs.add(f, fileTypeExt); err != nil {
			return nil, lexing.SingleErr(err)
		}
	}

	reg := newRegistry(s.env.paths, s.env.log)
	l := newLoader(s.env, reg, vocab)
	if err := l.discover(s.start); err != nil {
		return nil, posErrs(err)
	}
	if errs := reg.Errs(); errs != nil {
		return nil, errs
	}
	for _, f := range l.files {
		if err := inputs.add(f.path, fileTypeBuild); err != nil {
			return nil, lexing.SingleErr(err)
		}
	}

	g := &Graph{
		env:    s.env,
		reg:    reg,
		files:  l.files,
		props:  props,
		inputs: inputs.stats,
	}
	if err := g.applyPreambles(); err != nil {
		return nil, posErrs(err)
	}
	return g, nil
}

// applyPreambles sets the properties declared by targets. Properties from
// files are set before, so they win.
func (g *Graph) applyPreambles() error {
	for _, t := range g.reg.Targets() {
		p, ok := t.Rule().(PreambleProducer)
		if !ok {
			continue
		}
		m, err := p.Preamble(t)
		if err != nil {
			return errcode.Annotatef(err, "preamble of %s", t.Name())
		}
		var keys []string
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			g.props.Set(k, m[k])
		}
	}
	return nil
}
