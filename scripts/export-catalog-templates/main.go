package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-jmxgen/internal/fileio"
	"github.com/goliatone/go-jmxgen/pkg/catalog"
	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Writes every embedded catalog as a regular template so it can be reviewed
// and fed through jmxgen like any hand written one.
func main() {
	var (
		outputDir = flag.String("output", "templates", "directory receiving the templates")
		suffix    = flag.String("suffix", config.DefaultTemplateSuffix, "template file suffix")
	)
	flag.Parse()

	for _, name := range catalog.Names() {
		c, err := catalog.Embedded(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load catalog %s: %v\n", name, err)
			os.Exit(1)
		}

		base := strings.TrimSuffix(c.File, ".json")
		path := filepath.Join(*outputDir, base+*suffix)
		if err := fileio.WriteAtomic(path, jsonvalue.Indent(c.Template().Value())); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("catalog %s written to %s\n", name, path)
	}
}
