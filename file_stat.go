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
	"os"

	"shanhu.io/misc/errcode"
)

// FileStat is the stamp of an input file that a graph is loaded from.
type FileStat struct {
	Name         string // absolute path
	Type         string
	Size         int64
	ModTimestamp int64
	Mode         uint32
}

// Input file types.
const (
	fileTypeBuild = "b" // build file
	fileTypeProps = "p" // property file
	fileTypeExt   = "e" // extension script
)

func newFileStat(p, t string) (*FileStat, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("%s:%s not found", t, p)
		}
		return nil, err
	}

	return &FileStat{
		Name:         p,
		Type:         t,
		Size:         info.Size(),
		ModTimestamp: info.ModTime().UnixNano(),
		Mode:         uint32(info.Mode()),
	}, nil
}

func sameFileStat(stat *FileStat) (bool, error) {
	cur, err := newFileStat(stat.Name, stat.Type)
	if err != nil {
		if errcode.IsNotFound(err) {
			return false, nil
		}
		return false, errcode.Annotate(err, "check current")
	}

	same := cur.Size == stat.Size
	same = same && cur.ModTimestamp == stat.ModTimestamp
	same = same && cur.Mode == stat.Mode

	return same, nil
}

// inputStats stamps the files in a run. Files that are gone are skipped.
type inputStats struct {
	stats []*FileStat
	seen  map[string]bool
}

func newInputStats() *inputStats {
	return &inputStats{seen: make(map[string]bool)}
}

func (s *inputStats) add(p, t string) error {
	if s.seen[p] {
		return nil
	}
	s.seen[p] = true
	stat, err := newFileStat(p, t)
	if err != nil {
		if errcode.IsNotFound(err) {
			return nil
		}
		return errcode.Annotatef(err, "stat %q", p)
	}
	s.stats = append(s.stats, stat)
	return nil
}

// Inputs returns the stamps of the files the graph is loaded from: build
// files, property files and extension scripts.
func (g *Graph) Inputs() []*FileStat { return g.inputs }

// UpToDate checks if all input files are unchanged since the graph was
// loaded. New build files that the graph does not know about are not
// detected.
func (g *Graph) UpToDate() (bool, error) {
	for _, stat := range g.inputs {
		same, err := sameFileStat(stat)
		if err != nil {
			return false, errcode.Annotatef(err, "check %q", stat.Name)
		}
		if !same {
			return false, nil
		}
	}
	return true, nil
}
