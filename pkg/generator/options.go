package generator

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/render/template"
)

// Approver decides whether a file with differences may be overwritten. It is
// only consulted when differences exist.
type Approver func(ctx context.Context, path string, differences []string) (bool, error)

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader injects a custom document loader.
func WithLoader(loader document.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithVariants replaces the default variant matrix.
func WithVariants(variants ...config.Variant) Option {
	return func(g *Generator) {
		g.variants = append([]config.Variant(nil), variants...)
		g.variantsSpecified = true
	}
}

// WithOutputRoot sets the directory variant dirs are resolved against.
func WithOutputRoot(root string) Option {
	return func(g *Generator) {
		g.outputRoot = strings.TrimSpace(root)
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithRenderer swaps the README renderer. It must provide a
// "templates/README" template.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(g *Generator) {
		g.renderer = renderer
	}
}

// WithReadme toggles the README written to every variant directory.
func WithReadme(enabled bool) Option {
	return func(g *Generator) {
		g.readme = enabled
	}
}

// WithDryRun computes differences without writing anything.
func WithDryRun(enabled bool) Option {
	return func(g *Generator) {
		g.dryRun = enabled
	}
}

// WithConcurrency bounds how many files are generated at once.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithApprover asks approver before overwriting a file that drifted.
func WithApprover(approver Approver) Option {
	return func(g *Generator) {
		g.approver = approver
	}
}

// WithTemplateSuffix sets the suffix template names must carry. The output
// name is the template name minus its trailing ".tmpl".
func WithTemplateSuffix(suffix string) Option {
	return func(g *Generator) {
		if trimmed := strings.TrimSpace(suffix); trimmed != "" {
			g.templateSuffix = trimmed
		}
	}
}

// WithConfig applies the variants, suffix and README flag of cfg.
func WithConfig(cfg config.Config) Option {
	return func(g *Generator) {
		WithVariants(cfg.Variants...)(g)
		WithTemplateSuffix(cfg.TemplateSuffix)(g)
		g.readme = cfg.Readme
	}
}
