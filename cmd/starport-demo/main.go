// Command starport-demo shows a starport carrying a stateful widget between
// slots, rendered in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/starport/cmd/starport-demo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
