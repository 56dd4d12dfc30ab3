// Command ufosim runs the UFO command simulation: single games, seeded
// batches, an HTTP API over one session, and inspection of saved sessions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
