// Command containerd opens the databases and caches named in its config,
// attaches them into the process registry and serves the admin API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
