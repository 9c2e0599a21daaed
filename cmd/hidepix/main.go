package main

import (
	"os"

	"github.com/yyyoichi/hidepix/internal/cmd"
)

// Set via ldflags.
var (
	commit  = "HEAD"
	version = "latest"
)

func main() {
	if err := cmd.Execute(version, commit); err != nil {
		os.Exit(1)
	}
}
