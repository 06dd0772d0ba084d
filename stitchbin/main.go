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
	"shanhu.io/misc/subcmd"
)

func cmd() *subcmd.List {
	c := subcmd.New()
	c.Add("targets", "lists all targets", cmdTargets)
	c.Add("deps", "prints the artifact set of a target", cmdDeps)
	c.Add("closure", "prints all dependencies of a target", cmdClosure)
	c.Add("prop", "prints resolved properties", cmdProp)
	c.Add("export", "exports the graph for backends", cmdExport)
	c.Add("digest", "prints the digest of the graph", cmdDigest)
	return c
}

// Main is the entrance for the stitch binary.
func Main() { cmd().Main() }
