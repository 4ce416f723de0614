package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-jmxgen/pkg/jmx"
)

func TestValidateTemplate_Valid(t *testing.T) {
	raw := []byte(`{
  "serverInfo": {"host": "localhost", "port": "9999"},
  "queryInfos": [
    {"obj": "java.lang:type=Memory", "resultAlias": "jvm.Memory", "attr": ["HeapMemoryUsage"]},
    {"obj": "java.lang:type=GarbageCollector,*", "resultAlias": "jvm.GC", "attr": ["CollectionCount"], "typeNames": ["name"]}
  ]
}`)
	result := ValidateTemplate(raw)
	if !result.Valid {
		t.Fatalf("expected template to be valid: %#v", result.Issues)
	}
}

func TestValidateTemplate_NullTypeNames(t *testing.T) {
	raw := []byte(`{"serverInfo": {}, "queryInfos": [{"obj": "o", "resultAlias": "a.b", "attr": ["A"], "typeNames": null}]}`)
	result := ValidateTemplate(raw)
	if !result.Valid {
		t.Fatalf("expected null typeNames to be accepted: %#v", result.Issues)
	}
}

func TestValidateTemplate_YAML(t *testing.T) {
	raw := []byte(`serverInfo:
  host: localhost
queryInfos:
  - obj: java.lang:type=Threading
    resultAlias: jvm.Threading
    attr: [ThreadCount]
`)
	result := ValidateTemplate(raw)
	if !result.Valid {
		t.Fatalf("expected yaml template to be valid: %#v", result.Issues)
	}
}

func TestValidateTemplate_CollectsAllSchemaIssues(t *testing.T) {
	raw := []byte(`{
  "serverInfo": {},
  "queryInfos": [
    {"obj": "a", "resultAlias": "x.a", "attr": "Count"},
    {"obj": "b", "attr": ["Count"]}
  ]
}`)
	result := ValidateTemplate(raw)
	if result.Valid {
		t.Fatalf("expected template to be invalid")
	}
	if len(result.Issues) < 2 {
		t.Fatalf("expected an issue per broken query, got %#v", result.Issues)
	}

	var sawAttr bool
	for _, issue := range result.Issues {
		if issue.Path == "/queryInfos/0/attr" && issue.Field == "queryInfos.0.attr" {
			sawAttr = true
		}
	}
	if !sawAttr {
		t.Fatalf("expected issue located at /queryInfos/0/attr, got %#v", result.Issues)
	}
}

func TestValidateTemplate_UnexpectedQueryKey(t *testing.T) {
	raw := []byte(`{"serverInfo": {}, "queryInfos": [{"obj": "o", "resultAlias": "x.o", "attr": [], "foo": 1}]}`)
	result := ValidateTemplate(raw)
	if result.Valid {
		t.Fatalf("expected template to be invalid")
	}
	if !strings.Contains(result.Issues[0].Message, "foo") {
		t.Fatalf("expected issue to name foo, got %#v", result.Issues)
	}
}

func TestValidateTemplate_ExtraTopLevelKey(t *testing.T) {
	raw := []byte(`{"serverInfo": {}, "queryInfos": [], "extra": true}`)
	if result := ValidateTemplate(raw); result.Valid {
		t.Fatalf("expected extra key to be rejected")
	}
}

func TestValidateTemplate_Undecodable(t *testing.T) {
	result := ValidateTemplate([]byte(`{"serverInfo": `))
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("expected a single decode issue, got %#v", result)
	}
}

func TestIssueFromTemplateError(t *testing.T) {
	err := &jmx.Error{Kind: jmx.KindUnexpectedField, Field: "foo"}
	issue := issueFromTemplateError(err)
	if issue.Field != "foo" {
		t.Fatalf("expected field foo, got %#v", issue)
	}
	if got := issueFromTemplateError(errors.New("boom")); got.Message != "boom" {
		t.Fatalf("unexpected issue %#v", got)
	}
}

func TestFieldPathFromPointer(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"/":                     "",
		"/queryInfos/3/obj":     "queryInfos.3.obj",
		"/serverInfo/a~1b/c~0d": "serverInfo.a/b.c~d",
	}
	for pointer, want := range cases {
		if got := fieldPathFromPointer(pointer); got != want {
			t.Errorf("fieldPathFromPointer(%q) = %q, want %q", pointer, got, want)
		}
	}
	if got := pointerFromSegments([]string{"serverInfo", "a/b", "c~d"}); got != "/serverInfo/a~1b/c~0d" {
		t.Fatalf("unexpected pointer %q", got)
	}
}
