package stitch

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Build files and extensions are trusted local configuration, so the
// dialect allows top level control flow and rebinding of globals.
var scriptOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

const loadContextKey = "stitch.loadContext"

// loadContext is the build file being executed on a thread. Targets
// declared on the thread are added into it.
type loadContext struct {
	env  *env
	reg  *Registry
	file *BuildFile
}

func newThread(env *env, name string, ctx *loadContext) *starlark.Thread {
	th := &starlark.Thread{
		Name: name,
		Print: func(th *starlark.Thread, msg string) {
			pos := th.CallFrame(1).Pos
			env.log.Printf("[%s:%d] %s", pos.Filename(), pos.Line, msg)
		},
	}
	if ctx != nil {
		th.SetLocal(loadContextKey, ctx)
	}
	return th
}

func loadContextOf(th *starlark.Thread, fn string) (*loadContext, error) {
	ctx, ok := th.Local(loadContextKey).(*loadContext)
	if !ok || ctx == nil {
		return nil, fmt.Errorf("%s: can only be called while loading a build file", fn)
	}
	return ctx, nil
}
