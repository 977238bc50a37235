// ringsync replicates ring-buffer windows and append-only streams between peers.
package main

import (
	"fmt"
	"os"

	"github.com/ringsync/go-ringsync/cmd"
	"github.com/ringsync/go-ringsync/node"
)

var (
	version string
	commit  string
	branch  string
)

func main() { // run the app
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := node.GetCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
