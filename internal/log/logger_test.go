package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf, Service: "jmxgen-test"})
	l.Debug().Str("path", "out/jvm.json").Int("differences", 2).Msg("file written")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["service"] != "jmxgen-test" || entry["path"] != "out/jvm.json" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	l.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Pretty: true})
	l.Info().Str("variant", "google-detect").Msg("generated")
	out := buf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "variant=google-detect") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestConfigureAndComponent(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Output: &bytes.Buffer{}}) })

	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	l := WithComponent("generator")
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"component":"generator"`) {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}
