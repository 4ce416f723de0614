package generator_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jmxgen/internal/loader"
	"github.com/goliatone/go-jmxgen/pkg/catalog"
	"github.com/goliatone/go-jmxgen/pkg/config"
	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/generator"
	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/render/template/pongo"
	"github.com/goliatone/go-jmxgen/pkg/testsupport"
)

const jvmTemplate = `{
  "serverInfo": {"port": 9999, "host": "localhost", "numQueryThreads": 2},
  "queryInfos": [
    {"obj": "java.lang:type=Memory", "resultAlias": "jvm.memory", "attr": ["HeapMemoryUsage", "NonHeapMemoryUsage"]},
    {"obj": "java.lang:type=GarbageCollector,name=*", "resultAlias": "jvm.gc", "attr": ["CollectionCount"], "typeNames": ["name"]}
  ]
}`

func fsLoader(files fstest.MapFS) document.Loader {
	return loader.New(document.NewLoaderOptions(document.WithFileSystem(files)))
}

func newGenerator(t *testing.T, files fstest.MapFS, opts ...generator.Option) (*generator.Generator, string) {
	t.Helper()
	root := t.TempDir()
	base := []generator.Option{
		generator.WithLoader(fsLoader(files)),
		generator.WithOutputRoot(filepath.Join(root, "templates")),
	}
	return generator.New(append(base, opts...)...), root
}

func TestGenerate_FirstRunWritesEveryVariant(t *testing.T) {
	files := fstest.MapFS{"jvm.json.tmpl": {Data: []byte(jvmTemplate)}}
	gen, root := newGenerator(t, files)

	report, err := gen.Generate(testsupport.Context(), generator.Request{
		Templates: []document.Source{document.SourceFromFS("jvm.json.tmpl")},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Files) != 4 {
		t.Fatalf("expected 4 files, got %d", len(report.Files))
	}

	wantDiffs := []string{"Dict lengths differ: 0 vs 1", "only in second: servers"}
	wantPaths := []string{
		filepath.Join(root, "stackdriver", "json-detect-instance", "jvm.json"),
		filepath.Join(root, "stackdriver", "json-specify-instance", "jvm.json"),
		filepath.Join(root, "google-cloud-monitoring", "json-detect-instance", "jvm.json"),
		filepath.Join(root, "google-cloud-monitoring", "json-specify-instance", "jvm.json"),
	}
	for i, res := range report.Files {
		if res.Path != wantPaths[i] {
			t.Fatalf("file %d: path %q, want %q", i, res.Path, wantPaths[i])
		}
		if !res.Written || res.Skipped {
			t.Fatalf("file %d: expected written, got %+v", i, res)
		}
		if diff := cmp.Diff(wantDiffs, res.Differences); diff != "" {
			t.Fatalf("file %d: differences mismatch (-want +got):\n%s", i, diff)
		}
	}

	content := testsupport.ReadFile(t, wantPaths[3])
	for _, fragment := range []string{
		`"numQueryThreads": 2,`,
		`"source": "GCE_INSTANCE_ID",`,
		`"url": "https://jmx-gateway.google.stackdriver.com/v1/custom",`,
	} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, content)
		}
	}
	if strings.Contains(content, "detectInstance") {
		t.Fatalf("specify variant must not carry detectInstance")
	}

	if len(report.Readmes) != 4 {
		t.Fatalf("expected 4 readmes, got %v", report.Readmes)
	}
	readme := testsupport.ReadFile(t, filepath.Join(root, "stackdriver", "json-detect-instance", "README"))
	wantReadme := "The files in this directory are automatically generated and will be overwritten.\n" +
		"If you want to change them, please see\n" +
		"../../templates/\n" +
		"and edit the .json.tmpl files in that directory.\n"
	if diff := cmp.Diff(wantReadme, readme); diff != "" {
		t.Fatalf("readme mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_SecondRunHasNoDrift(t *testing.T) {
	files := fstest.MapFS{"jvm.json.tmpl": {Data: []byte(jvmTemplate)}}
	gen, _ := newGenerator(t, files)
	req := generator.Request{Templates: []document.Source{document.SourceFromFS("jvm.json.tmpl")}}

	if _, err := gen.Generate(testsupport.Context(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := gen.Generate(testsupport.Context(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if drifted := report.Drifted(); len(drifted) != 0 {
		t.Fatalf("expected no drift, got %+v", drifted)
	}
}

func TestGenerate_ApproverCanSkip(t *testing.T) {
	files := fstest.MapFS{"jvm.json.tmpl": {Data: []byte(jvmTemplate)}}
	variant := config.Variant{Name: "local", Gateway: "https://gw", Dir: "out", DetectInstance: "AWS"}

	var asked []string
	gen, root := newGenerator(t, files,
		generator.WithVariants(variant),
		generator.WithReadme(false),
		generator.WithApprover(func(_ context.Context, path string, differences []string) (bool, error) {
			asked = append(asked, path)
			return false, nil
		}),
	)

	target := testsupport.WriteFile(t, filepath.Join(root, "templates", "out"), "jvm.json", `{"servers": []}`)
	report, err := gen.Generate(testsupport.Context(), generator.Request{
		Templates: []document.Source{document.SourceFromFS("jvm.json.tmpl")},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	res := report.Files[0]
	if !res.Skipped || res.Written {
		t.Fatalf("expected skipped file, got %+v", res)
	}
	if diff := cmp.Diff([]string{"List lengths differ: 0 vs 1"}, res.Differences); diff != "" {
		t.Fatalf("differences mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{target}, asked); diff != "" {
		t.Fatalf("approver calls mismatch (-want +got):\n%s", diff)
	}
	if got := testsupport.ReadFile(t, target); got != `{"servers": []}` {
		t.Fatalf("skipped file was modified: %q", got)
	}
	if len(report.Readmes) != 0 {
		t.Fatalf("readme disabled but written: %v", report.Readmes)
	}
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	files := fstest.MapFS{"jvm.json.tmpl": {Data: []byte(jvmTemplate)}}
	gen, root := newGenerator(t, files, generator.WithDryRun(true))

	report, err := gen.Generate(testsupport.Context(), generator.Request{
		Templates: []document.Source{document.SourceFromFS("jvm.json.tmpl")},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Drifted()) != 4 {
		t.Fatalf("expected every file to report drift, got %d", len(report.Drifted()))
	}
	if _, err := os.Stat(filepath.Join(root, "stackdriver")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("dry run created output directories: %v", err)
	}
}

func TestGenerate_CatalogMatchesGolden(t *testing.T) {
	kafka, err := catalog.Embedded("kafka-082")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	gen, root := newGenerator(t, fstest.MapFS{}, generator.WithConcurrency(4))

	report, err := gen.Generate(testsupport.Context(), generator.Request{Catalogs: []catalog.Catalog{kafka}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Files[0].Variant != "stackdriver-detect" || report.Files[3].Variant != "google-specify" {
		t.Fatalf("report must follow variant order, got %+v", report.Files)
	}

	got := testsupport.ReadFile(t, filepath.Join(root, "stackdriver", "json-detect-instance", "kafka-082.json"))
	want := testsupport.MustReadGoldenString(t, filepath.Join("..", "catalog", "testdata", "kafka-082.detect-aws.json.golden"))
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("kafka output mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Documents(t *testing.T) {
	gen, root := newGenerator(t, fstest.MapFS{}, generator.WithReadme(false),
		generator.WithVariants(config.Variant{Name: "v", Gateway: "g", Dir: "d", Source: "S"}))
	doc := document.MustNewDocument(document.SourceFromFS("tomcat.json.tmpl"), []byte(jvmTemplate))

	report, err := gen.Generate(testsupport.Context(), generator.Request{Documents: []document.Document{doc}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Files[0].Path != filepath.Join(root, "templates", "d", "tomcat.json") {
		t.Fatalf("unexpected path %q", report.Files[0].Path)
	}
}

func TestGenerate_Errors(t *testing.T) {
	files := fstest.MapFS{
		"extra.json.tmpl":    {Data: []byte(`{"serverInfo": {}, "queryInfos": [{"obj": "o", "attr": [], "resultAlias": "r", "foo": 1}]}`)},
		"three.json.tmpl":    {Data: []byte(`{"serverInfo": {}, "queryInfos": [], "x": 1}`)},
		"wrong-suffix.json":  {Data: []byte(jvmTemplate)},
		"not-json.json.tmpl": {Data: []byte(`{"serverInfo": `)},
	}

	cases := []struct {
		name   string
		source string
		check  func(error) bool
	}{
		{name: "unexpected field", source: "extra.json.tmpl", check: func(err error) bool { return errors.Is(err, jmx.ErrUnexpectedField) }},
		{name: "malformed", source: "three.json.tmpl", check: func(err error) bool { return errors.Is(err, jmx.ErrMalformedTemplate) }},
		{name: "missing", source: "missing.json.tmpl", check: func(err error) bool {
			return errors.Is(err, jmx.ErrIO) && errors.Is(err, fs.ErrNotExist)
		}},
		{name: "suffix", source: "wrong-suffix.json", check: func(err error) bool {
			return err != nil && strings.Contains(err.Error(), `must end with ".json.tmpl"`)
		}},
		{name: "undecodable", source: "not-json.json.tmpl", check: func(err error) bool { return err != nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen, _ := newGenerator(t, files)
			_, err := gen.Generate(testsupport.Context(), generator.Request{
				Templates: []document.Source{document.SourceFromFS(tc.source)},
			})
			if !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGenerate_CorruptPreviousOutput(t *testing.T) {
	files := fstest.MapFS{"jvm.json.tmpl": {Data: []byte(jvmTemplate)}}
	gen, root := newGenerator(t, files, generator.WithVariants(config.Variant{Name: "v", Gateway: "g", Dir: "d", Source: "S"}))
	testsupport.WriteFile(t, filepath.Join(root, "templates", "d"), "jvm.json", "not json")

	_, err := gen.Generate(testsupport.Context(), generator.Request{
		Templates: []document.Source{document.SourceFromFS("jvm.json.tmpl")},
	})
	if !errors.Is(err, jmx.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestGenerate_InvalidVariants(t *testing.T) {
	gen := generator.New(generator.WithVariants(config.Variant{Name: "both", Gateway: "g", Dir: "d", Source: "S", DetectInstance: "D"}))
	if _, err := gen.Generate(testsupport.Context(), generator.Request{}); err == nil {
		t.Fatalf("expected variant validation error")
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := generator.New()
	if _, err := gen.Generate(ctx, generator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWriteReadme_CustomRenderer(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(fstest.MapFS{
		"templates/README.tpl": {Data: []byte("source={{ source_dir }} suffix={{ suffix }}")},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	gen := generator.New(generator.WithRenderer(engine), generator.WithTemplateSuffix(".yaml.tmpl"))

	path, err := gen.WriteReadme(testsupport.Context(), t.TempDir())
	if err != nil {
		t.Fatalf("write readme: %v", err)
	}
	if got := testsupport.ReadFile(t, path); got != "source=../../templates/ suffix=.yaml.tmpl" {
		t.Fatalf("unexpected readme %q", got)
	}
}
