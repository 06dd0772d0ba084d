package stitch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"shanhu.io/misc/errcode"
)

// TargetSummary is the resolved, backend facing view of a target.
type TargetSummary struct {
	Name     string
	SafeName string
	Type     string
	Language string `json:",omitempty"`
	File     string `json:",omitempty"`
	Line     int    `json:",omitempty"`

	Aliases  []string          `json:",omitempty"`
	Requires []string          `json:",omitempty"`
	Deps     []string          `json:",omitempty"` // canonical names
	Rules    map[string]string `json:",omitempty"`
	Outputs  []string          `json:",omitempty"`

	Standalone       bool `json:",omitempty"`
	StandaloneExempt bool `json:",omitempty"`
}

func (g *Graph) aliases() map[*Target][]string {
	m := make(map[*Target][]string)
	for name, t := range g.reg.names {
		if name != t.Name() {
			m[t] = append(m[t], name)
		}
	}
	for _, names := range m {
		sort.Strings(names)
	}
	return m
}

func summarize(t *Target, aliases []string) (*TargetSummary, error) {
	s := &TargetSummary{
		Name:             t.Name(),
		SafeName:         t.SafeName(),
		Type:             t.Type(),
		Language:         t.Language(),
		Aliases:          aliases,
		Requires:         t.Requires(),
		Rules:            t.RuleMap(),
		Standalone:       t.Standalone(),
		StandaloneExempt: t.StandaloneExempt(),
	}
	if t.pos != nil {
		s.File = t.pos.File
		s.Line = t.pos.Line
	}
	for _, ref := range t.requires {
		dep, err := t.Lookup(ref)
		if err != nil {
			return nil, err
		}
		s.Deps = append(s.Deps, dep.Name())
	}
	outs, err := t.OutputPaths()
	if err != nil {
		return nil, &TargetError{Target: t, Err: err}
	}
	s.Outputs = outs
	return s, nil
}

// Summaries returns the summaries of all targets, in load order.
func (g *Graph) Summaries() ([]*TargetSummary, error) {
	aliases := g.aliases()
	var ret []*TargetSummary
	for _, t := range g.reg.Targets() {
		s, err := summarize(t, aliases[t])
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

func makeDigest(name string, v interface{}) (string, error) {
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, name)
	bs, err := json.Marshal(v)
	if err != nil {
		return "", errcode.Annotate(err, "json marshal")
	}
	buf.Write(bs)
	sum := sha256.Sum256(buf.Bytes())
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

func targetDigest(s *TargetSummary) (string, error) {
	// File positions do not change what the target builds.
	cp := *s
	cp.File = ""
	cp.Line = 0
	return makeDigest(s.Name, &cp)
}

// Digest returns a digest of the resolved graph. It changes when any target
// changes its name, kind, dependencies, rules or outputs, or when a
// property changes.
func (g *Graph) Digest() (string, error) {
	sums, err := g.Summaries()
	if err != nil {
		return "", err
	}
	digests := make(map[string]string)
	for _, s := range sums {
		d, err := targetDigest(s)
		if err != nil {
			return "", errcode.Annotatef(err, "digest %s", s.Name)
		}
		digests[s.Name] = d
	}

	props := make(map[string]string)
	for _, k := range g.props.Keys() {
		v, _ := g.props.Raw(k)
		props[k] = v
	}
	return makeDigest("graph", &struct {
		Targets map[string]string
		Props   map[string]string
	}{Targets: digests, Props: props})
}
