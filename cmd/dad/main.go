// Command dad is the operational CLI for the DA subsystem: put-blob and
// get-blob speak to a retrieval service over HTTP, inspect-root decodes a
// commitment locally, and serve runs the retrieval service itself.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}
