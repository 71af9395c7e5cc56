// Command crmctl manages contacts, campaigns and tags from a terminal by
// talking to the store API. Each invocation signs in (when credentials are
// given), runs one operation through the synchronization controllers and
// prints the result.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
