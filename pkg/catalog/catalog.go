// Package catalog holds metric lists for services whose templates are
// generated from a flat table rather than hand-written. Each catalog expands
// into a jmx.Template with one single-attribute query per metric.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

//go:embed catalogs/*.yaml
var embedded embed.FS

const embeddedDir = "catalogs"

var extensions = []string{".yaml", ".yml", ".json"}

// Metric is a single JMX attribute collected under an alias.
type Metric struct {
	Obj   string
	Attr  string
	Alias string
}

// Catalog describes a service: where its output goes, the server block and
// the metrics to collect.
type Catalog struct {
	Name    string
	File    string
	Server  *jsonvalue.Object
	Metrics []Metric
	Source  string
}

// Template expands the catalog into a jmx template.
func (c Catalog) Template() jmx.Template {
	tpl := jmx.Template{
		ServerInfo: c.Server.Clone(),
		Queries:    make([]jmx.QueryInfo, 0, len(c.Metrics)),
	}
	if tpl.ServerInfo == nil {
		tpl.ServerInfo = jsonvalue.NewObject()
	}
	for _, m := range c.Metrics {
		tpl.Queries = append(tpl.Queries, jmx.QueryInfo{
			Obj:         m.Obj,
			Attr:        []string{m.Attr},
			ResultAlias: m.Alias,
		})
	}
	return tpl
}

// Names lists the embedded catalogs.
func Names() []string {
	entries, err := fs.ReadDir(embedded, embeddedDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Embedded returns a catalog shipped with the binary.
func Embedded(name string) (Catalog, error) {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	return Load(sub, name)
}

// Load reads <name>.yaml, <name>.yml or <name>.json from fsys.
func Load(fsys fs.FS, name string) (Catalog, error) {
	name = strings.TrimSpace(name)
	if fsys == nil || name == "" {
		return Catalog{}, errors.New("catalog: filesystem and name are required")
	}
	for _, ext := range extensions {
		file := name + ext
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog: read %s: %w", file, err)
		}
		return Parse(data, file)
	}
	return Catalog{}, fmt.Errorf("catalog: %q not found", name)
}

// LoadFS parses every catalog file found in fsys.
func LoadFS(fsys fs.FS) ([]Catalog, error) {
	if fsys == nil {
		return nil, nil
	}
	var out []Catalog
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", p, err)
		}
		c, err := Parse(data, p)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Parse decodes a catalog document. source is used in error messages.
func Parse(data []byte, source string) (Catalog, error) {
	doc, err := jsonvalue.DecodeAuto(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	root, ok := doc.AsObject()
	if !ok {
		return Catalog{}, fmt.Errorf("catalog: %s: document must be a mapping", source)
	}

	c := Catalog{Source: source}
	if c.Name, err = stringField(root, "name", source); err != nil {
		return Catalog{}, err
	}
	if c.File, err = stringField(root, "file", source); err != nil {
		return Catalog{}, err
	}

	serverValue, ok := root.Get("server")
	if !ok {
		return Catalog{}, fmt.Errorf("catalog: %s: missing server", source)
	}
	if c.Server, ok = serverValue.AsObject(); !ok {
		return Catalog{}, fmt.Errorf("catalog: %s: server must be a mapping", source)
	}

	metricsValue, _ := root.Get("metrics")
	items, ok := metricsValue.AsArray()
	if !ok || len(items) == 0 {
		return Catalog{}, fmt.Errorf("catalog: %s: metrics must be a non-empty list", source)
	}
	c.Metrics = make([]Metric, 0, len(items))
	for i, item := range items {
		obj, ok := item.AsObject()
		if !ok {
			return Catalog{}, fmt.Errorf("catalog: %s: metrics[%d] must be a mapping", source, i)
		}
		label := fmt.Sprintf("%s: metrics[%d]", source, i)
		var m Metric
		if m.Obj, err = stringField(obj, "obj", label); err != nil {
			return Catalog{}, err
		}
		if m.Attr, err = stringField(obj, "attr", label); err != nil {
			return Catalog{}, err
		}
		if m.Alias, err = stringField(obj, "alias", label); err != nil {
			return Catalog{}, err
		}
		c.Metrics = append(c.Metrics, m)
	}
	return c, nil
}

func stringField(obj *jsonvalue.Object, key, label string) (string, error) {
	v, ok := obj.Get(key)
	if !ok {
		return "", fmt.Errorf("catalog: %s: missing %s", label, key)
	}
	s, ok := v.AsString()
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("catalog: %s: %s must be a non-empty string", label, key)
	}
	return s, nil
}

func isCatalogFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
