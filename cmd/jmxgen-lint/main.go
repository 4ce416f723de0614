package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/validation"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("jmxgen-lint", flag.ContinueOnError)
	flags.SetOutput(stderr)
	suffix := flags.String("suffix", config.DefaultTemplateSuffix, "template suffix used when walking directories")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flags.Output(), "\nLint jmxtrans templates against the template schema.\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"templates"}
	}

	files, err := expand(paths, *suffix)
	if err != nil {
		fmt.Fprintf(stderr, "lint: %v\n", err)
		return 1
	}

	var violations []violation
	for _, path := range files {
		linted, err := lintFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", path, err)
			return 1
		}
		violations = append(violations, linted...)
	}

	if len(violations) == 0 {
		return 0
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
	return 1
}

// expand replaces directories with the templates found below them.
func expand(paths []string, suffix string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func lintFile(path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result := validation.ValidateTemplate(raw)
	if result.Valid {
		return nil, nil
	}
	out := make([]violation, 0, len(result.Issues))
	for _, issue := range result.Issues {
		out = append(out, violation{
			file:     path,
			location: formatLocation(issue.Field),
			message:  issue.Message,
		})
	}
	return out, nil
}

func formatLocation(field string) string {
	if field == "" {
		return "<root>"
	}
	return field
}
