package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/testsupport"
)

const payload = `{"serverInfo": {}, "queryInfos": []}`

func TestLoadFile(t *testing.T) {
	path := testsupport.WriteFile(t, t.TempDir(), "jvm.json.tmpl", payload)

	l := New(document.NewLoaderOptions())
	doc, err := l.Load(testsupport.Context(), document.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(testsupport.Context(), document.SourceFromFile(path+".missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	files := fstest.MapFS{"templates/jvm.json.tmpl": {Data: []byte(payload)}}
	l := New(document.NewLoaderOptions(document.WithFileSystem(files)))

	doc, err := l.Load(testsupport.Context(), document.SourceFromFS("templates/jvm.json.tmpl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name() != "jvm.json.tmpl" {
		t.Fatalf("unexpected name %q", doc.Name())
	}

	unconfigured := New(document.NewLoaderOptions())
	if _, err := unconfigured.Load(testsupport.Context(), document.SourceFromFS("templates/jvm.json.tmpl")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing.json.tmpl") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	disabled := New(document.NewLoaderOptions())
	if _, err := disabled.Load(testsupport.Context(), document.SourceFromURL(server.URL+"/jvm.json.tmpl")); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := New(document.NewLoaderOptions(document.WithHTTPClient(server.Client()), document.WithHTTPFallback(5*time.Second)))
	doc, err := l.Load(testsupport.Context(), document.SourceFromURL(server.URL+"/jvm.json.tmpl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(testsupport.Context(), document.SourceFromURL(server.URL+"/missing.json.tmpl"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := testsupport.WriteFile(t, t.TempDir(), "jvm.json.tmpl", payload)
	_, err := New(document.NewLoaderOptions()).Load(ctx, document.SourceFromFile(path))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
