package stitch

import (
	"fmt"
	"log"

	"shanhu.io/text/lexing"
)

// Registry maps canonical names to targets. There is one registry per
// run.
type Registry struct {
	paths *pathResolver
	log   *log.Logger

	names   map[string]*Target
	targets []*Target // all named targets, in declaration order

	nextID  int
	errList *lexing.ErrorList
}

func newRegistry(paths *pathResolver, logger *log.Logger) *Registry {
	return &Registry{
		paths:   paths,
		log:     logger,
		names:   make(map[string]*Target),
		errList: lexing.NewErrorList(),
	}
}

// newTarget creates a provisional target with a placeholder name. The
// counter is local to the registry.
func (r *Registry) newTarget(rule Rule) *Target {
	id := r.nextID
	r.nextID++
	return &Target{
		id:   id,
		anon: fmt.Sprintf("_rule_%d", id),
		rule: rule,
		reg:  r,
	}
}

// register maps name to t. Registering the same target under the same
// name again is a no-op.
func (r *Registry) register(name string, t *Target) {
	if name == "" {
		r.errList.Errorf(t.pos, "target name is empty")
		return
	}
	if p, ok := r.names[name]; ok {
		if p == t {
			return
		}
		r.errList.Errorf(t.pos, "target with name %q redeclared", name)
		if p.pos != nil {
			r.errList.Errorf(p.pos, "  previously defined here")
		}
		return
	}
	r.names[name] = t
}

func (r *Registry) add(t *Target) { r.targets = append(r.targets, t) }

// Errs returns the registration errors.
func (r *Registry) Errs() []*lexing.Error { return r.errList.Errs() }

// Get returns the target registered exactly under name.
func (r *Registry) Get(name string) *Target { return r.names[name] }

// Targets returns all named targets in declaration order.
func (r *Registry) Targets() []*Target { return r.targets }

// Canonical returns the canonical form of ref as written in the build
// file of from. When from is nil, ref is relative to the build root.
func (r *Registry) Canonical(from *Target, ref string) string {
	var f *BuildFile
	if from != nil {
		f = from.file
	}
	return r.paths.canonical(ref, f)
}

// Lookup resolves ref in the context of from. If the target does not
// exist, it returns a *MissingTargetError, or nil without an error when
// allowMissing is set.
func (r *Registry) Lookup(from *Target, ref string, allowMissing bool) (
	*Target, error,
) {
	name := r.Canonical(from, ref)
	if t, ok := r.names[name]; ok {
		return t, nil
	}
	if allowMissing {
		return nil, nil
	}
	err := &MissingTargetError{Ref: name}
	if from != nil {
		err.Referrer = from.Name()
		err.Pos = from.pos
		if from.file != nil {
			err.File = from.file.path
		}
	}
	return nil, err
}
