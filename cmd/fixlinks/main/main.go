package main

import (
	"os"

	"github.com/arthur-debert/fixlinks/cmd/fixlinks"
)

func main() {
	os.Exit(fixlinks.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
