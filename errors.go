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
	"errors"
	"fmt"

	"go.starlark.net/starlark"
	"shanhu.io/text/lexing"
)

// MissingTargetError is returned when a target references another target
// that is not registered.
type MissingTargetError struct {
	Referrer string      // canonical name of the referring target
	File     string      // build file of the referring target
	Pos      *lexing.Pos // where the referring target is defined
	Ref      string      // the canonical form of the missing reference
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf(
		"target %s in build file %s referenced missing target: %s",
		e.Referrer, e.File, e.Ref,
	)
}

// MissingBuildFileError is returned when a target requires a directory that
// has no build file.
type MissingBuildFileError struct {
	Referrer string
	Pos      *lexing.Pos
	File     string // the build file that was expected
}

func (e *MissingBuildFileError) Error() string {
	return fmt.Sprintf(
		"target %s references missing build file %s", e.Referrer, e.File,
	)
}

// ConfigError is a property resolution failure.
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Key, e.Msg)
}

// TargetError is a validation failure on the declared arguments of a
// target.
type TargetError struct {
	Target *Target
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

func targetErrorf(t *Target, f string, args ...interface{}) *TargetError {
	return &TargetError{Target: t, Err: fmt.Errorf(f, args...)}
}

// LoadError is a runtime failure while executing a build file. Unlike a
// syntax error, it aborts the whole run.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	var evalErr *starlark.EvalError
	if errors.As(e.Err, &evalErr) {
		return fmt.Sprintf("execute %s: %s", e.File, evalErr.Backtrace())
	}
	return fmt.Sprintf("execute %s: %s", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// errPos returns the best known position for a fatal error.
func errPos(err error) *lexing.Pos {
	var missing *MissingTargetError
	if errors.As(err, &missing) {
		return missing.Pos
	}
	var noFile *MissingBuildFileError
	if errors.As(err, &noFile) {
		return noFile.Pos
	}
	var terr *TargetError
	if errors.As(err, &terr) && terr.Target != nil {
		return terr.Target.pos
	}
	return nil
}

func posErrs(err error) []*lexing.Error {
	if err == nil {
		return nil
	}
	if pos := errPos(err); pos != nil {
		return []*lexing.Error{{Pos: pos, Err: err}}
	}
	return lexing.SingleErr(err)
}
