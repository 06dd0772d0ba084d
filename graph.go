package stitch

// Graph is the loaded and resolved target graph of a run.
type Graph struct {
	env   *env
	reg   *Registry
	files []*BuildFile
	props *Props

	inputs []*FileStat
}

// Root returns the absolute build root.
func (g *Graph) Root() string { return g.env.rootDir }

// Targets returns all targets in the order they are loaded.
func (g *Graph) Targets() []*Target { return g.reg.Targets() }

// BuildFiles returns all loaded build files, in discovery order.
func (g *Graph) BuildFiles() []*BuildFile { return g.files }

// Props returns the property store.
func (g *Graph) Props() *Props { return g.props }

// Get returns the target registered exactly under a canonical name.
func (g *Graph) Get(name string) *Target { return g.reg.Get(name) }

// Lookup finds a target by a reference relative to the build root.
func (g *Graph) Lookup(ref string) (*Target, error) {
	return g.reg.Lookup(nil, ref, false)
}

// LookupOptional works like Lookup, but returns nil without an error when
// the target does not exist.
func (g *Graph) LookupOptional(ref string) (*Target, error) {
	return g.reg.Lookup(nil, ref, true)
}

// Canonical returns the canonical form of a reference relative to the
// build root.
func (g *Graph) Canonical(ref string) string {
	return g.reg.Canonical(nil, ref)
}

// Resolve turns a user path of t into a concrete path: macros and path
// qualifiers are expanded first, then properties.
func (g *Graph) Resolve(t *Target, p string) (string, error) {
	return g.props.Substitute(t.NormalizeUserPath(p, false, true))
}

// OutDir returns the absolute output directory. It is empty when the run
// has no output directory.
func (g *Graph) OutDir() string { return g.env.outDir }

// OutPath returns a path under the output directory.
func (g *Graph) OutPath(ps ...string) string { return g.env.out(ps...) }
