package stitch

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

type targetState int

const (
	// The target is still being declared and only has a placeholder
	// name.
	targetProvisional targetState = iota

	// The build file that declares the target finished executing and
	// the target has its final name.
	targetNamed
)

// Target is a buildable unit declared in a build file.
type Target struct {
	id    int
	anon  string // placeholder name, like "_rule_3"
	name  string
	safe  string
	state targetState

	generated bool

	requires []string
	lang     string
	pos      *lexing.Pos

	file *BuildFile
	rule Rule
	reg  *Registry
}

// Name returns the canonical name of the target. Before the target is
// named, this is the placeholder.
func (t *Target) Name() string {
	if t.state == targetProvisional {
		return t.anon
	}
	return t.name
}

// SafeName returns the name with all path separators flattened.
func (t *Target) SafeName() string {
	if t.state == targetProvisional {
		return t.anon
	}
	return t.safe
}

// IsNamed checks if the target has its final name.
func (t *Target) IsNamed() bool { return t.state == targetNamed }

// IsAnonymous checks if the target is not bound to any name in its build
// file.
func (t *Target) IsAnonymous() bool {
	return strings.HasSuffix(t.Name(), SubtargetSpecifier+t.anon)
}

func (t *Target) setName(name string) error {
	if t.state == targetNamed {
		return errcode.Internalf(
			"target %q already named, cannot rename to %q", t.name, name,
		)
	}
	t.name = name
	t.safe = SafeName(name)
	t.state = targetNamed
	return nil
}

// Pos returns where the target is declared.
func (t *Target) Pos() *lexing.Pos { return t.pos }

// BuildFile returns the build file that declares the target.
func (t *Target) BuildFile() *BuildFile { return t.file }

// Rule returns the rule of the target.
func (t *Target) Rule() Rule { return t.rule }

// Requires returns the references to the targets that this target
// requires, as written in the build file.
func (t *Target) Requires() []string { return t.requires }

// Language returns the source language of the target, if any.
func (t *Target) Language() string { return t.lang }

// IsGenerated checks if the output rules of the target are already
// generated.
func (t *Target) IsGenerated() bool { return t.generated }

// MarkGenerated marks that the output rules of the target are generated.
func (t *Target) MarkGenerated() { t.generated = true }

// ClearGenerated clears the generated mark.
func (t *Target) ClearGenerated() { t.generated = false }

// Lookup finds a target by a reference relative to this target's build
// file.
func (t *Target) Lookup(ref string) (*Target, error) {
	return t.reg.Lookup(t, ref, false)
}

// LookupOptional works like Lookup, but returns nil without an error when
// the target does not exist.
func (t *Target) LookupOptional(ref string) (*Target, error) {
	return t.reg.Lookup(t, ref, true)
}

// Force resolves a value in the context of this target.
func (t *Target) Force(v Value) ([]string, error) { return Force(t, v) }

// RuleMap returns the phase to rule name mapping. It returns nil if the
// target does not produce rules.
func (t *Target) RuleMap() map[string]string {
	if p, ok := t.rule.(RuleProducer); ok {
		return p.RuleMap(t)
	}
	return nil
}

// ProducesRules checks if the target generates build rules.
func (t *Target) ProducesRules() bool {
	_, ok := t.rule.(RuleProducer)
	return ok
}

// OutputPaths returns the artifacts that the target generates.
func (t *Target) OutputPaths() ([]string, error) {
	if p, ok := t.rule.(OutputProducer); ok {
		return p.OutputPaths(t)
	}
	return nil, nil
}

// IntermediatePaths returns the generated source directories of lang.
func (t *Target) IntermediatePaths(lang string) ([]string, error) {
	if p, ok := t.rule.(SourceProducer); ok {
		return p.IntermediatePaths(t, lang)
	}
	return nil, nil
}

// ClassPathElements returns the extra classpath elements of the target.
func (t *Target) ClassPathElements() ([]string, error) {
	if p, ok := t.rule.(ClassPathProducer); ok {
		return p.ClassPathElements(t)
	}
	return nil, nil
}

// Standalone checks if the target bundles its dependencies.
func (t *Target) Standalone() bool {
	if s, ok := t.rule.(Standaloner); ok {
		return s.Standalone()
	}
	return false
}

// StandaloneExempt checks if the target is exempt from being bundled.
func (t *Target) StandaloneExempt() bool {
	if e, ok := t.rule.(BundleExempter); ok {
		return e.StandaloneExempt()
	}
	return false
}

func (t *Target) String() string {
	loc := "<unknown location>"
	if t.pos != nil {
		loc = fmt.Sprintf("%s:%d", t.pos.File, t.pos.Line)
	}
	return fmt.Sprintf("<target %s defined at %s>", t.Name(), loc)
}

// Type returns the rule type. It also serves as the type name of the
// target inside build files.
func (t *Target) Type() string { return t.rule.Type() }

// Freeze is a no-op; a target is immutable inside build files.
func (t *Target) Freeze() {}

// Truth returns true.
func (t *Target) Truth() starlark.Bool { return starlark.True }

// Hash hashes the target by its identity.
func (t *Target) Hash() (uint32, error) { return uint32(t.id), nil }

var _ starlark.Value = (*Target)(nil)
