package main

import (
	"fmt"
	"os"

	"github.com/aver1ch/formatingDocx/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "formatdocx:", err)
		os.Exit(1)
	}
}
