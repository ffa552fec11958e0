// Command cellarctl administers the wine cellar database: it applies the
// schema and previews cellar layouts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
