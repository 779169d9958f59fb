// Command gfxtest inspects the shader modules and backends used by gfxtest
// based tests.
//
// Usage:
//
//	gfxtest backends
//	gfxtest compile compute-simple --entry computeMain --target hlsl
//	gfxtest compile compute-uniform --entry computeMain --layout
//	gfxtest check testdata/shaders
//
// Settings come from flags, GFXTEST_* environment variables and an
// optional gfxtest.yaml in the working directory.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
