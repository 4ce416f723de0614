package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-jmxgen"
	jmxlog "github.com/goliatone/go-jmxgen/internal/log"
	"github.com/goliatone/go-jmxgen/internal/prompt"
	"github.com/goliatone/go-jmxgen/internal/watch"
	"github.com/goliatone/go-jmxgen/pkg/catalog"
	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/generator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "jmxgen: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "jmxgen: %v\n", err)
		os.Exit(1)
	}
}

// errUsage marks invocations that are wrong rather than failed.
var errUsage = errors.New("usage")

type options struct {
	configPath  string
	root        string
	catalogs    string
	catalogDir  string
	readme      bool
	dryRun      bool
	confirm     bool
	concurrency int
	watch       bool
	logLevel    string
	httpTimeout time.Duration
	templates   []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("jmxgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "variant matrix (YAML or JSON); built-in matrix when empty")
	fs.StringVar(&opts.root, "root", ".", "directory the variant dirs are resolved against")
	fs.StringVar(&opts.catalogs, "catalog", "", "comma separated embedded catalogs to generate (e.g. kafka-082)")
	fs.StringVar(&opts.catalogDir, "catalog-dir", "", "directory with additional catalog files")
	fs.BoolVar(&opts.readme, "readme", true, "write a README into every variant directory")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "report differences without writing")
	fs.BoolVar(&opts.confirm, "confirm", false, "ask before overwriting files that changed")
	fs.IntVar(&opts.concurrency, "concurrency", 1, "files generated in parallel")
	fs.BoolVar(&opts.watch, "watch", false, "regenerate when a template changes")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level")
	fs.DurationVar(&opts.httpTimeout, "http-timeout", 10*time.Second, "timeout for templates fetched over HTTP")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <template.json.tmpl>...\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "Expand jmxtrans templates into one configuration per variant.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return options{}, err
		}
		return options{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	opts.templates = fs.Args()
	if len(opts.templates) == 0 && opts.catalogs == "" && opts.catalogDir == "" {
		fs.Usage()
		return options{}, fmt.Errorf("%w: no templates or catalogs given", errUsage)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := jmxlog.Configure(jmxlog.Config{Level: opts.logLevel, Output: stderr, Pretty: true})

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	sources := make([]document.Source, 0, len(opts.templates))
	for _, arg := range opts.templates {
		src, err := document.ParseSource(arg)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	catalogs, err := loadCatalogs(opts.catalogs, opts.catalogDir)
	if err != nil {
		return err
	}

	genOpts := []generator.Option{
		generator.WithConfig(cfg),
		generator.WithLoader(jmxgen.NewLoader(document.WithHTTPFallback(opts.httpTimeout))),
		generator.WithOutputRoot(opts.root),
		generator.WithLogger(jmxlog.WithComponent("generator")),
		generator.WithDryRun(opts.dryRun),
		generator.WithConcurrency(opts.concurrency),
	}
	if !opts.readme {
		genOpts = append(genOpts, generator.WithReadme(false))
	}
	if opts.confirm {
		genOpts = append(genOpts, generator.WithApprover(prompt.OverwriteApprover(prompt.NewSurvey())))
	}
	gen := jmxgen.NewGenerator(genOpts...)
	req := generator.Request{Templates: sources, Catalogs: catalogs}

	generate := func(ctx context.Context) error {
		report, err := gen.Generate(ctx, req)
		if err != nil {
			return err
		}
		if !opts.confirm {
			printDrift(stdout, report)
		}
		return nil
	}

	if err := generate(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	paths := watchPaths(sources)
	if len(paths) == 0 {
		return errors.New("watch needs at least one template file")
	}
	return watch.Watch(ctx, logger, paths, watch.DefaultDebounce, generate,
		watch.WithFilter(func(name string) bool {
			return strings.HasSuffix(name, cfg.TemplateSuffix)
		}))
}

func loadCatalogs(names, dir string) ([]catalog.Catalog, error) {
	var out []catalog.Catalog
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, err := catalog.Embedded(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(catalog.Names(), ", "))
		}
		out = append(out, c)
	}
	if dir != "" {
		extra, err := catalog.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		out = append(out, extra...)
	}
	return out, nil
}

func printDrift(w io.Writer, report generator.Report) {
	for _, f := range report.Drifted() {
		fmt.Fprintf(w, "Differences for %s:\n%s\n\n", f.Path, strings.Join(f.Differences, "\n"))
	}
}

func watchPaths(sources []document.Source) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, src := range sources {
		if src.Kind() != document.SourceKindFile {
			continue
		}
		dir := filepath.Dir(src.Location())
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}
