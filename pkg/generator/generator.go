package generator

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-jmxgen/internal/fileio"
	"github.com/goliatone/go-jmxgen/internal/loader"
	"github.com/goliatone/go-jmxgen/pkg/catalog"
	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/differ"
	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
	"github.com/goliatone/go-jmxgen/pkg/render/template"
	"github.com/goliatone/go-jmxgen/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const (
	// ReadmeName is the file written to every variant directory.
	ReadmeName = "README"
	// DefaultSourceDir is where the README points maintainers to.
	DefaultSourceDir = "../../templates/"

	readmeTemplate = "templates/README"
	tmplExt        = ".tmpl"
)

// Generator coordinates load → transform → diff → write for every template
// and variant.
type Generator struct {
	loader            document.Loader
	variants          []config.Variant
	variantsSpecified bool
	outputRoot        string
	logger            zerolog.Logger
	renderer          template.TemplateRenderer
	readme            bool
	dryRun            bool
	concurrency       int
	approver          Approver
	templateSuffix    string
	initialiseErr     error

	approveMu sync.Mutex
}

// New constructs a Generator. Missing dependencies fall back to the built-in
// loader, the default variant matrix and the embedded README template.
func New(options ...Option) *Generator {
	g := &Generator{
		logger:         zerolog.Nop(),
		readme:         true,
		concurrency:    1,
		templateSuffix: config.DefaultTemplateSuffix,
		outputRoot:     ".",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

func (g *Generator) applyDefaults() {
	if g.loader == nil {
		g.loader = loader.New(document.NewLoaderOptions())
	}
	if !g.variantsSpecified {
		g.variants = config.Default().Variants
	}
	if err := (config.Config{Variants: g.variants}).Validate(); err != nil {
		g.initialiseErr = fmt.Errorf("generator: %w", err)
		return
	}
	if g.outputRoot == "" {
		g.outputRoot = "."
	}
	if g.renderer == nil {
		engine, err := pongo.New(pongo.WithFS(templatesFS))
		if err != nil {
			g.initialiseErr = fmt.Errorf("generator: readme renderer: %w", err)
			return
		}
		g.renderer = engine
	}
	if err := g.renderer.GlobalContext(map[string]any{"source_dir": DefaultSourceDir}); err != nil {
		g.initialiseErr = fmt.Errorf("generator: readme globals: %w", err)
	}
}

// Request lists the inputs of one run.
type Request struct {
	// Templates are loaded through the configured loader.
	Templates []document.Source

	// Documents bypass the loader for callers that already hold the payload.
	Documents []document.Document

	// Catalogs are expanded with their own output file names.
	Catalogs []catalog.Catalog
}

// FileResult describes what happened to one output file.
type FileResult struct {
	Template    string
	Variant     string
	Path        string
	Differences []string
	Written     bool
	Skipped     bool
}

// Report summarises a run in template × variant order.
type Report struct {
	Files   []FileResult
	Readmes []string
}

// Drifted returns the files whose previous content differed from the new one.
func (r Report) Drifted() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if len(f.Differences) > 0 {
			out = append(out, f)
		}
	}
	return out
}

type job struct {
	name     string
	output   string
	template jmx.Template
}

// Generate expands every template and catalog for every variant. The first
// error stops the run; files already written stay in place.
func (g *Generator) Generate(ctx context.Context, req Request) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if g.initialiseErr != nil {
		return Report{}, g.initialiseErr
	}

	jobs, err := g.collectJobs(ctx, req)
	if err != nil {
		return Report{}, err
	}

	results := make([]FileResult, len(jobs)*len(g.variants))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, j := range jobs {
		j := j
		for k, v := range g.variants {
			v := v
			idx := i*len(g.variants) + k
			eg.Go(func() error {
				res, err := g.generateFile(egCtx, j, v)
				if err != nil {
					return err
				}
				results[idx] = res
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Files: results}
	if g.readme && !g.dryRun {
		for _, v := range g.variants {
			path, err := g.WriteReadme(ctx, g.variantDir(v))
			if err != nil {
				return report, err
			}
			report.Readmes = append(report.Readmes, path)
		}
	}
	return report, nil
}

func (g *Generator) collectJobs(ctx context.Context, req Request) ([]job, error) {
	docs := make([]document.Document, len(req.Templates))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, src := range req.Templates {
		i, src := i, src
		eg.Go(func() error {
			doc, err := g.loader.Load(egCtx, src)
			if err != nil {
				location := ""
				if src != nil {
					location = src.Location()
				}
				return jmx.IOError(location, "load template", err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	docs = append(docs, req.Documents...)

	jobs := make([]job, 0, len(docs)+len(req.Catalogs))
	for _, doc := range docs {
		j, err := g.templateJob(doc)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	for _, c := range req.Catalogs {
		jobs = append(jobs, job{name: c.Name, output: c.File, template: c.Template()})
	}
	return jobs, nil
}

func (g *Generator) templateJob(doc document.Document) (job, error) {
	name := doc.Name()
	if !strings.HasSuffix(name, g.templateSuffix) {
		return job{}, fmt.Errorf("generator: %s: template name must end with %q", doc.Location(), g.templateSuffix)
	}
	value, err := doc.Value()
	if err != nil {
		return job{}, fmt.Errorf("generator: %w", err)
	}
	tpl, err := jmx.ParseTemplate(value)
	if err != nil {
		return job{}, fmt.Errorf("generator: %s: %w", doc.Location(), err)
	}
	return job{
		name:     name,
		output:   strings.TrimSuffix(name, tmplExt),
		template: tpl,
	}, nil
}

func (g *Generator) generateFile(ctx context.Context, j job, v config.Variant) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}

	path := filepath.Join(g.variantDir(v), j.output)
	res := FileResult{Template: j.name, Variant: v.Name, Path: path}

	output := j.template.Output(v.Params())
	previous, err := readPrevious(path)
	if err != nil {
		return FileResult{}, err
	}
	res.Differences = differ.Diff(previous, output)

	if len(res.Differences) > 0 && g.approver != nil {
		ok, err := g.approve(ctx, path, res.Differences)
		if err != nil {
			return FileResult{}, fmt.Errorf("generator: approve %s: %w", path, err)
		}
		res.Skipped = !ok
	}

	if !res.Skipped && !g.dryRun {
		if err := fileio.WriteAtomic(path, jsonvalue.Indent(output)); err != nil {
			return FileResult{}, jmx.IOError(path, "write output", err)
		}
		res.Written = true
	}

	g.logger.Info().
		Str("template", j.name).
		Str("variant", v.Name).
		Str("path", path).
		Int("differences", len(res.Differences)).
		Bool("written", res.Written).
		Bool("skipped", res.Skipped).
		Msg("generated")
	return res, nil
}

func (g *Generator) approve(ctx context.Context, path string, differences []string) (bool, error) {
	g.approveMu.Lock()
	defer g.approveMu.Unlock()
	return g.approver(ctx, path, differences)
}

// readPrevious returns the committed output, or an empty object when the file
// does not exist yet.
func readPrevious(path string) (jsonvalue.Value, error) {
	data, ok, err := fileio.ReadIfExists(path)
	if err != nil {
		return jsonvalue.Value{}, jmx.IOError(path, "read previous output", err)
	}
	if !ok {
		return jsonvalue.ObjectValue(jsonvalue.NewObject()), nil
	}
	previous, err := jsonvalue.Decode(data)
	if err != nil {
		return jsonvalue.Value{}, jmx.IOError(path, "decode previous output", err)
	}
	return previous, nil
}

func (g *Generator) variantDir(v config.Variant) string {
	return filepath.Join(g.outputRoot, v.Dir)
}

// WriteReadme writes the README reminding maintainers that dir is generated.
// It returns the written path.
func (g *Generator) WriteReadme(ctx context.Context, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.initialiseErr != nil {
		return "", g.initialiseErr
	}
	content, err := g.renderer.RenderTemplate(readmeTemplate, map[string]any{
		"suffix": g.templateSuffix,
	})
	if err != nil {
		return "", fmt.Errorf("generator: render readme: %w", err)
	}
	path := filepath.Join(dir, ReadmeName)
	if err := fileio.WriteAtomic(path, []byte(content)); err != nil {
		return "", jmx.IOError(path, "write readme", err)
	}
	return path, nil
}
