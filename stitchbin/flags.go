package stitchbin

import (
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
	"shanhu.io/stitch"
	"shanhu.io/text/lexing"
)

var cmdFlags = flagutil.NewFactory("stitch")

// defaultHome is the parent of the directory that holds the binary.
func defaultHome() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	return filepath.Dir(filepath.Dir(exe))
}

func declareLoadFlags(flags *flagutil.FlagSet, c *stitch.Config) {
	flags.StringVar(&c.Root, "root", ".", "build root directory")
	flags.StringVar(
		&c.Start, "start", "",
		"directory to start discovery from, defaults to the build root",
	)
	flags.StringVar(
		&c.Home, "home", defaultHome(),
		"installation home, for etc/stitch-config.properties",
	)
	flags.StringVar(&c.Out, "out", "", "output directory")
	flags.StringVar(&c.ExtDir, "ext", "", "extension scripts directory")
}

func loadGraph(config *stitch.Config) (*stitch.Graph, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errcode.Annotate(err, "get work dir")
	}

	s, err := stitch.New(config)
	if err != nil {
		return nil, err
	}
	g, errs := s.Load()
	if errs != nil {
		lexing.FprintErrs(os.Stderr, errs, wd)
		return nil, errcode.InvalidArgf("load got %d errors", len(errs))
	}
	return g, nil
}
