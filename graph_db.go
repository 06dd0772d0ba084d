package stitch

import (
	"database/sql"
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"

	_ "modernc.org/sqlite" // sqlite driver
)

var graphSchema = []string{
	`create table targets (
		name text primary key,
		safe_name text not null,
		type text not null,
		language text,
		file text,
		line integer,
		standalone integer,
		standalone_exempt integer,
		digest text
	)`,
	`create table aliases (
		alias text primary key,
		name text not null
	)`,
	`create table deps (
		name text not null,
		ref text not null,
		dep text not null
	)`,
	`create table rules (
		name text not null,
		phase text not null,
		rule text not null
	)`,
	`create table outputs (
		name text not null,
		path text not null
	)`,
	`create table props (
		key text primary key,
		value text not null
	)`,
	`create table inputs (
		file text primary key,
		type text not null,
		size integer,
		mod_time integer,
		mode integer
	)`,
}

// ExportDB writes the graph into a new sqlite database file, for backends
// that run in another process. An existing file is replaced.
func ExportDB(g *Graph, file string) error {
	sums, err := g.Summaries()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return errcode.Annotate(err, "make database dir")
	}
	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return errcode.Annotate(err, "remove old database")
	}
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return errcode.Annotate(err, "open database")
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errcode.Annotate(err, "begin")
	}
	defer tx.Rollback()

	for _, q := range graphSchema {
		if _, err := tx.Exec(q); err != nil {
			return errcode.Annotate(err, "create table")
		}
	}

	for _, s := range sums {
		if err := insertTarget(tx, s); err != nil {
			return errcode.Annotatef(err, "insert %s", s.Name)
		}
	}

	for _, k := range g.props.Keys() {
		v, err := g.props.Get(k)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`insert into props (key, value) values (?, ?)`, k, v,
		); err != nil {
			return errcode.Annotatef(err, "insert property %q", k)
		}
	}

	for _, in := range g.inputs {
		if _, err := tx.Exec(
			`insert into inputs (file, type, size, mod_time, mode)
			values (?, ?, ?, ?, ?)`,
			in.Name, in.Type, in.Size, in.ModTimestamp, in.Mode,
		); err != nil {
			return errcode.Annotatef(err, "insert input %q", in.Name)
		}
	}

	return tx.Commit()
}

func insertTarget(tx *sql.Tx, s *TargetSummary) error {
	digest, err := targetDigest(s)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`insert into targets (
			name, safe_name, type, language, file, line,
			standalone, standalone_exempt, digest
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.SafeName, s.Type, s.Language, s.File, s.Line,
		s.Standalone, s.StandaloneExempt, digest,
	); err != nil {
		return err
	}

	for _, a := range s.Aliases {
		if _, err := tx.Exec(
			`insert into aliases (alias, name) values (?, ?)`, a, s.Name,
		); err != nil {
			return err
		}
	}
	for i, ref := range s.Requires {
		if _, err := tx.Exec(
			`insert into deps (name, ref, dep) values (?, ?, ?)`,
			s.Name, ref, s.Deps[i],
		); err != nil {
			return err
		}
	}
	for phase, rule := range s.Rules {
		if _, err := tx.Exec(
			`insert into rules (name, phase, rule) values (?, ?, ?)`,
			s.Name, phase, rule,
		); err != nil {
			return err
		}
	}
	for _, out := range s.Outputs {
		if _, err := tx.Exec(
			`insert into outputs (name, path) values (?, ?)`, s.Name, out,
		); err != nil {
			return err
		}
	}
	return nil
}
