package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-jmxgen/internal/fileio"
	jmxlog "github.com/goliatone/go-jmxgen/internal/log"
	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// templateExt is appended to every input path to name the extracted template.
const templateExt = ".tmpl"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("jmxgen-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "info", "log level")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s <config.json>...\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "\nTurn generated jmxtrans configurations back into templates (<file>%s).\n\n", templateExt)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger := jmxlog.Configure(jmxlog.Config{Level: *logLevel, Output: stderr, Pretty: true}).
		With().Str("component", "extract").Logger()

	for _, path := range fs.Args() {
		out, err := extractFile(path)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("extract failed")
			return 1
		}
		logger.Info().Str("file", path).Str("template", out).Msg("template extracted")
	}
	return 0
}

func extractFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", jmx.IOError(path, "read config", err)
	}
	doc, err := jsonvalue.Decode(raw)
	if err != nil {
		return "", jmx.IOError(path, "decode config", err)
	}
	tpl, err := jmx.Extract(doc)
	if err != nil {
		return "", err
	}
	out := path + templateExt
	if err := fileio.WriteAtomic(out, jsonvalue.Indent(tpl)); err != nil {
		return "", jmx.IOError(out, "write template", err)
	}
	return out, nil
}
