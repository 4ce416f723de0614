// Package genericjmx renders a collectd GenericJMX plugin configuration from a
// jmx template. The output is a first pass: every value is declared as a gauge
// and wildcard InstanceFrom statements are not generated.
package genericjmx

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/render/template"
	"github.com/goliatone/go-jmxgen/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const (
	// DefaultClassPath is the JVM class path of the collectd java plugin jars.
	DefaultClassPath = "/opt/stackdriver/collectd/share/collectd/java/collectd-api.jar:/opt/stackdriver/collectd/share/collectd/java/generic-jmx.jar"
	// DefaultServiceURL leaves JMX_HOST and JMX_PORT for operators to fill in.
	DefaultServiceURL = "service:jmx:rmi:///jndi/rmi://JMX_HOST:JMX_PORT/jmxrmi"

	// TemplateFile is the conf template looked up in template directories.
	TemplateFile = "genericjmx.conf.tpl"

	templateName = "genericjmx.conf"
	embeddedDir  = "templates"
	filterName   = "snakecase"
)

// Option configures a Converter.
type Option func(*Converter)

// WithRenderer swaps the template renderer. The renderer must provide a
// "genericjmx.conf" template and a "snakecase" filter.
func WithRenderer(r template.TemplateRenderer) Option {
	return func(c *Converter) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithTemplateDir looks up TemplateFile in dir before falling back to the
// embedded template. It is ignored when WithRenderer is given.
func WithTemplateDir(dir string) Option {
	return func(c *Converter) {
		c.templateDir = strings.TrimSpace(dir)
	}
}

// WithClassPath overrides the JVMARG class path.
func WithClassPath(path string) Option {
	return func(c *Converter) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			c.classPath = trimmed
		}
	}
}

// WithServiceURL overrides the JMX service URL of the connection block.
func WithServiceURL(url string) Option {
	return func(c *Converter) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			c.serviceURL = trimmed
		}
	}
}

// Converter turns jmx templates into GenericJMX conf files.
type Converter struct {
	renderer    template.TemplateRenderer
	templateDir string
	classPath   string
	serviceURL  string
}

// New builds a Converter backed by the embedded pongo2 template unless
// WithRenderer is given.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		classPath:  DefaultClassPath,
		serviceURL: DefaultServiceURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.renderer == nil {
		engineOpts := []pongo.Option{pongo.WithFS(TemplatesFS())}
		if c.templateDir != "" {
			engineOpts = append(engineOpts, pongo.WithBaseDir(c.templateDir))
		}
		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("genericjmx: template engine: %w", err)
		}
		c.renderer = engine
	}
	if err := c.renderer.RegisterFilter(filterName, snakeFilter); err != nil && !errors.Is(err, pongo.ErrFilterExists) {
		return nil, fmt.Errorf("genericjmx: register filter: %w", err)
	}
	return c, nil
}

// TemplatesFS exposes the embedded conf template so callers can copy it into
// their own template directory and point WithTemplateDir at it.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templatesFS, embeddedDir)
	if err != nil {
		return templatesFS
	}
	return sub
}

// Convert renders the conf for tpl using a default Converter.
func Convert(plugin string, tpl jmx.Template) (string, error) {
	c, err := New()
	if err != nil {
		return "", err
	}
	return c.Convert(plugin, tpl)
}

// Convert renders the collectd conf. plugin names the chain that rewrites the
// GenericJMX plugin instance and prefixes every collected MBean.
func (c *Converter) Convert(plugin string, tpl jmx.Template) (string, error) {
	plugin = strings.TrimSpace(plugin)
	if plugin == "" {
		return "", errors.New("genericjmx: plugin name is required")
	}

	mbeans := make([]map[string]any, 0, len(tpl.Queries))
	for i, q := range tpl.Queries {
		alias := MBeanAlias(q.ResultAlias)
		short, ok := ShortAlias(alias)
		if !ok {
			return "", &jmx.Error{
				Kind:    jmx.KindMalformedTemplate,
				Field:   jmx.KeyResultAlias,
				Message: fmt.Sprintf("queryInfos[%d]: alias %q has no '_' separated suffix", i, alias),
			}
		}
		mbeans = append(mbeans, map[string]any{
			"alias":      alias,
			"short":      short,
			"object":     q.Obj,
			"attributes": q.Attr,
		})
	}

	out, err := c.renderer.RenderTemplate(templateName, map[string]any{
		"plugin":      plugin,
		"classpath":   c.classPath,
		"service_url": c.serviceURL,
		"mbeans":      mbeans,
	})
	if err != nil {
		return "", fmt.Errorf("genericjmx: render: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

func snakeFilter(input any, _ any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("snakecase: expected string, got %T", input)
	}
	return CamelToSnake(s), nil
}
