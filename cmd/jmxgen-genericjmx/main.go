package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-jmxgen/internal/fileio"
	"github.com/goliatone/go-jmxgen/internal/prompt"
	"github.com/goliatone/go-jmxgen/pkg/catalog"
	"github.com/goliatone/go-jmxgen/pkg/genericjmx"
	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// sourceFileOption is the first entry of the interactive source picker; the
// embedded catalogs follow it.
const sourceFileOption = "template file"

type options struct {
	plugin      string
	source      string
	catalog     string
	output      string
	templateDir string
	classPath   string
	serviceURL  string
	interactive bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	var driver prompt.Driver
	if opts.interactive {
		driver = prompt.NewSurvey()
	}
	if err := run(context.Background(), opts, os.Stdout, driver); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "jmxgen-genericjmx: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("jmxgen-genericjmx", flag.ContinueOnError)
	fs.StringVar(&opts.plugin, "plugin", "", "name of the service (jvm, cassandra, etc)")
	fs.StringVar(&opts.source, "source", "", "template file with the mbean attribute definitions")
	fs.StringVar(&opts.catalog, "catalog", "", "embedded catalog to convert instead of -source (e.g. kafka-082)")
	fs.StringVar(&opts.output, "output", "", "GenericJMX conf file to write")
	fs.StringVar(&opts.templateDir, "template-dir", "", "directory holding a "+genericjmx.TemplateFile+" that replaces the built-in one")
	fs.StringVar(&opts.classPath, "classpath", genericjmx.DefaultClassPath, "JVM class path of the collectd java plugin")
	fs.StringVar(&opts.serviceURL, "service-url", genericjmx.DefaultServiceURL, "JMX service URL")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for missing values")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s -plugin <name> -source <file.tmpl> -output <file.conf>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "\nWrite a first pass GenericJMX collectd configuration for a template.\n")
		fmt.Fprintf(fs.Output(), "Every value is declared as a gauge and wildcard InstanceFrom statements are not generated.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run converts the template named by opts. Missing values are asked through
// driver when one is given.
func run(ctx context.Context, opts options, stdout io.Writer, driver prompt.Driver) error {
	if err := complete(ctx, &opts, driver); err != nil {
		return err
	}

	var (
		tpl jmx.Template
		err error
	)
	if opts.catalog != "" {
		fmt.Fprintf(stdout, "--- generating GenericJMX conf from catalog: %s\n", opts.catalog)
		tpl, err = catalogTemplate(opts.catalog)
	} else {
		fmt.Fprintf(stdout, "--- generating GenericJMX conf from tmpl, input file: %s\n", opts.source)
		tpl, err = fileTemplate(opts.source)
	}
	if err != nil {
		return err
	}

	converter, err := genericjmx.New(
		genericjmx.WithTemplateDir(opts.templateDir),
		genericjmx.WithClassPath(opts.classPath),
		genericjmx.WithServiceURL(opts.serviceURL),
	)
	if err != nil {
		return err
	}
	content, err := converter.Convert(opts.plugin, tpl)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "--- writing %s\n", displayPath(opts.output))
	if err := fileio.WriteAtomic(opts.output, []byte(content)); err != nil {
		return jmx.IOError(opts.output, "write conf", err)
	}
	return nil
}

func fileTemplate(path string) (jmx.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return jmx.Template{}, jmx.IOError(path, "read template", err)
	}
	value, err := jsonvalue.DecodeAuto(raw)
	if err != nil {
		return jmx.Template{}, jmx.IOError(path, "decode template", err)
	}
	return jmx.ParseTemplate(value)
}

func catalogTemplate(name string) (jmx.Template, error) {
	c, err := catalog.Embedded(name)
	if err != nil {
		return jmx.Template{}, err
	}
	return c.Template(), nil
}

func complete(ctx context.Context, opts *options, driver prompt.Driver) error {
	if opts.source != "" && opts.catalog != "" {
		return errors.New("source and catalog are mutually exclusive")
	}

	var missing []string
	ask := func(target *string, message, def string) error {
		if strings.TrimSpace(*target) != "" {
			return nil
		}
		if driver == nil {
			missing = append(missing, strings.ToLower(message))
			return nil
		}
		value, err := driver.Input(ctx, prompt.InputConfig{
			Message:   message,
			Default:   def,
			Validator: required,
		})
		if err != nil {
			return err
		}
		*target = strings.TrimSpace(value)
		return nil
	}

	if err := ask(&opts.plugin, "Plugin name", ""); err != nil {
		return err
	}
	if opts.source == "" && opts.catalog == "" && driver != nil {
		names := catalog.Names()
		idx, err := driver.Select(ctx, prompt.SelectConfig{
			Message: "Convert from",
			Options: append([]string{sourceFileOption}, names...),
		})
		if err != nil {
			return err
		}
		if idx > 0 {
			opts.catalog = names[idx-1]
		}
	}
	if opts.catalog == "" {
		if err := ask(&opts.source, "Template file", ""); err != nil {
			return err
		}
	}
	if err := ask(&opts.output, "Output conf file", defaultOutput(opts.plugin)); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func defaultOutput(plugin string) string {
	if plugin == "" {
		return ""
	}
	return plugin + ".conf"
}

// displayPath prefixes relative paths with "./" so the progress line names the
// file the same way regardless of how it was given.
func displayPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return "./" + strings.TrimPrefix(path, "./")
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}
