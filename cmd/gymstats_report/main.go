// Package main prints weekly workout analytics for a JSON export of workout logs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gymstats-report: %s\n", err)
		os.Exit(1)
	}
}
