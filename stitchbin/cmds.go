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

package stitchbin

import (
	"fmt"
	"os"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/idutil"
	"shanhu.io/stitch"
)

func cmdTargets(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	flags.ParseArgs(args)

	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	return stitch.WriteReport(os.Stdout, g)
}

func singleTarget(g *stitch.Graph, args []string) (*stitch.Target, error) {
	if len(args) != 1 {
		return nil, errcode.InvalidArgf("need exactly one target")
	}
	return g.Lookup(args[0])
}

func cmdDeps(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	phase := flags.String("phase", "build", "build phase")
	policy := flags.String("policy", "all", "inclusion policy")
	recursive := flags.Bool("recursive", true, "include transitive deps")
	args = flags.ParseArgs(args)

	p, err := stitch.ParsePolicy(*policy)
	if err != nil {
		return err
	}
	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	t, err := singleTarget(g, args)
	if err != nil {
		return err
	}
	set, err := stitch.ArtifactSet(t, *phase, *recursive, p)
	if err != nil {
		return err
	}
	for _, a := range set {
		fmt.Println(a)
	}
	return nil
}

func cmdClosure(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	args = flags.ParseArgs(args)

	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	t, err := singleTarget(g, args)
	if err != nil {
		return err
	}
	deps, err := stitch.DependencyClosure(t)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		fmt.Println(dep.Name())
	}
	return nil
}

func cmdProp(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	args = flags.ParseArgs(args)

	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	props := g.Props()
	keys := args
	if len(keys) == 0 {
		keys = props.Keys()
	}
	for _, k := range keys {
		v, err := props.Get(k)
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", k, v)
	}
	return nil
}

func cmdExport(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	db := flags.String("db", "", "sqlite database file to write")
	js := flags.String("json", "", "json file to write")
	flags.ParseArgs(args)

	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	if *db == "" && *js == "" {
		if g.OutDir() == "" {
			return errcode.InvalidArgf("need -db, -json or an output dir")
		}
		*db = g.OutPath("stitch-graph.db")
	}
	if *db != "" {
		if err := stitch.ExportDB(g, *db); err != nil {
			return errcode.Annotate(err, "export database")
		}
	}
	if *js != "" {
		if err := stitch.WriteJSON(g, *js); err != nil {
			return errcode.Annotate(err, "export json")
		}
	}
	return nil
}

func cmdDigest(args []string) error {
	flags := cmdFlags.New()
	config := new(stitch.Config)
	declareLoadFlags(flags, config)
	full := flags.Bool("full", false, "print the full digest")
	flags.ParseArgs(args)

	g, err := loadGraph(config)
	if err != nil {
		return err
	}
	d, err := g.Digest()
	if err != nil {
		return err
	}
	if *full {
		fmt.Println(d)
		return nil
	}
	fmt.Println(idutil.Short(strings.TrimPrefix(d, "sha256:")))
	return nil
}
