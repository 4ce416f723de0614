package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-jmxgen/pkg/testsupport"
)

const validTemplate = `{"serverInfo": {"port": 9999}, "queryInfos": [{"obj": "x:type=Y", "attr": ["A"], "resultAlias": "r.a"}]}`

func TestRunValidDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "nested/app.json.tmpl", validTemplate)
	testsupport.WriteFile(t, dir, "notes.txt", "not a template")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, stderr.String())
	}
}

func TestRunReportsViolations(t *testing.T) {
	dir := t.TempDir()
	bad := testsupport.WriteFile(t, dir, "bad.json.tmpl",
		`{"serverInfo": {}, "queryInfos": [{"obj": "o", "attr": "A", "resultAlias": "a.b"}]}`)
	good := testsupport.WriteFile(t, dir, "good.json.tmpl", validTemplate)

	var stderr bytes.Buffer
	if code := run([]string{good, bad}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	out := stderr.String()
	if !strings.HasPrefix(out, bad+": queryInfos.0.attr -> ") {
		t.Fatalf("unexpected violation output:\n%s", out)
	}
	if strings.Contains(out, good) {
		t.Fatalf("valid template reported:\n%s", out)
	}
}

func TestRunMissingPath(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{filepath.Join(t.TempDir(), "missing")}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(stderr.String(), "lint: ") {
		t.Fatalf("unexpected error output: %s", stderr.String())
	}
}

func TestFormatLocation(t *testing.T) {
	if got := formatLocation(""); got != "<root>" {
		t.Fatalf("unexpected root location %q", got)
	}
	if got := formatLocation("queryInfos.1"); got != "queryInfos.1" {
		t.Fatalf("unexpected location %q", got)
	}
}
