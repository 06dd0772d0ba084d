package stitch

import (
	"shanhu.io/misc/jsonx"
	"shanhu.io/misc/osutil"
)

const workspaceFile = "WORKSPACE.stitch"

// Workspace is the optional settings file at the build root.
type Workspace struct {
	// Output directory, relative to the build root.
	OutDir string `json:",omitempty"`

	// Directory of extension scripts, relative to the build root.
	ExtDir string `json:",omitempty"`

	// Property files to read after my.properties and build.properties.
	PropertyFiles []string `json:",omitempty"`
}

func readWorkspace(f string) (*Workspace, error) {
	ws := new(Workspace)
	ok, err := osutil.IsRegular(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ws, nil
	}
	if err := jsonx.ReadFile(f, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
