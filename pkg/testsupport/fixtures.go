package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// LoadValue reads a JSON (or YAML) fixture into a jsonvalue.Value, failing the
// test on error.
func LoadValue(t *testing.T, path string) jsonvalue.Value {
	t.Helper()

	v, err := LoadValueFromPath(path)
	if err != nil {
		t.Fatalf("load value: %v", err)
	}
	return v
}

// LoadValueFromPath returns the decoded fixture without requiring testing.T.
func LoadValueFromPath(path string) (jsonvalue.Value, error) {
	if path == "" {
		return jsonvalue.Value{}, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	v, err := jsonvalue.DecodeAuto(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("testsupport: decode fixture: %w", err)
	}
	return v, nil
}

// MustDecode decodes inline JSON, failing the test on error.
func MustDecode(t *testing.T, raw string) jsonvalue.Value {
	t.Helper()

	v, err := jsonvalue.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode inline json: %v", err)
	}
	return v
}

// WriteFile writes content below dir, creating parent directories, and returns
// the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	return string(data)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
