package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/fixlinks/cmd/fixlinks"
)

func main() {
	rootCmd := fixlinks.NewRootCmd()

	if err := doc.GenMan(rootCmd, fixlinks.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
