// Command buildergen generates fluent builders for Go structs.
//
// Typical use is a go:generate line next to the records:
//
//	//go:generate go run github.com/origadmin/buildergen/cmd/buildergen
package main

import (
	"log/slog"
	"os"
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("buildergen failed", "error", err)
		os.Exit(1)
	}
}
