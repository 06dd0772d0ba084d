package main

import (
	"shanhu.io/stitch/stitchbin"
)

func main() { stitchbin.Main() }
