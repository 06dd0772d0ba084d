package stitch

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"shanhu.io/misc/jsonutil"
)

// WriteReport prints the targets of the graph, one block per target.
func WriteReport(w io.Writer, g *Graph) error {
	sums, err := g.Summaries()
	if err != nil {
		return err
	}
	for _, s := range sums {
		fmt.Fprintf(w, "%s (%s)\n", s.Name, s.Type)
		if s.File != "" {
			fmt.Fprintf(w, "  defined at %s:%d\n", s.File, s.Line)
		}
		if len(s.Aliases) > 0 {
			fmt.Fprintf(w, "  aliases: %s\n", strings.Join(s.Aliases, " "))
		}
		for _, d := range s.Deps {
			fmt.Fprintf(w, "  requires %s\n", d)
		}
		var phases []string
		for p := range s.Rules {
			phases = append(phases, p)
		}
		sort.Strings(phases)
		for _, p := range phases {
			fmt.Fprintf(w, "  %s: %s\n", p, s.Rules[p])
		}
		for _, out := range s.Outputs {
			fmt.Fprintf(w, "  output %s\n", out)
		}
	}
	return nil
}

// graphDump is the JSON form of a graph.
type graphDump struct {
	Digest  string
	Targets []*TargetSummary
	Props   map[string]string
	Inputs  []*FileStat
}

// WriteJSON saves the graph as a JSON file.
func WriteJSON(g *Graph, file string) error {
	sums, err := g.Summaries()
	if err != nil {
		return err
	}
	digest, err := g.Digest()
	if err != nil {
		return err
	}
	props := make(map[string]string)
	for _, k := range g.props.Keys() {
		v, err := g.props.Get(k)
		if err != nil {
			return err
		}
		props[k] = v
	}
	return jsonutil.WriteFile(file, &graphDump{
		Digest:  digest,
		Targets: sums,
		Props:   props,
		Inputs:  g.inputs,
	})
}
