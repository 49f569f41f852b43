// Package main romforge source-tree bootstrap tool.
//
// romforge materializes a declared set of source repositories, layers
// upstream changes onto them via cherry-pick with automated conflict
// resolution, and rebrands the merged tree by rewriting naming tokens in
// file contents and file names.
package main

import (
	"os"

	"github.com/romforge/romforge/internal"
)

func main() {
	os.Exit(internal.Execute())
}
