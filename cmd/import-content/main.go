// Package main converts a YAML content pack into an authoritative JSON
// dataset.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tabletopkit/companion/internal/importer"
)

func main() {
	sourceDir := flag.String("source", "", "path to content pack directory")
	output := flag.String("output", "", "path of the dataset JSON file to write")
	flag.Parse()

	if *sourceDir == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content -source <dir> -output <file>")
		os.Exit(1)
	}

	start := time.Now()
	imp := importer.New(importer.NewDirSource())
	if err := imp.Run(*sourceDir, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("import complete in %s\n", time.Since(start).Round(time.Millisecond))
}
