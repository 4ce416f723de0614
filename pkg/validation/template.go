package validation

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

//go:embed template.openapi.yaml
var templateSchemaDoc []byte

const templateSchemaName = "Template"

// Issue is a single lint finding. Path is a JSON pointer into the template
// and Field the dotted form of the same location.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures lint outcomes for one template.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

var (
	schemaOnce sync.Once
	schemaRef  *openapi3.Schema
	schemaErr  error
)

func templateSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		loader := &openapi3.Loader{Context: context.Background()}
		doc, err := loader.LoadFromData(templateSchemaDoc)
		if err != nil {
			schemaErr = fmt.Errorf("validation: load template schema: %w", err)
			return
		}
		ref := doc.Components.Schemas[templateSchemaName]
		if ref == nil || ref.Value == nil {
			schemaErr = fmt.Errorf("validation: schema %q not found", templateSchemaName)
			return
		}
		schemaRef = ref.Value
	})
	return schemaRef, schemaErr
}

// ValidateTemplate lints a JSON or YAML template. Every schema violation is
// reported; the semantic checks of jmx.ParseTemplate run once the shape is
// valid.
func ValidateTemplate(raw []byte) Result {
	value, err := jsonvalue.DecodeAuto(raw)
	if err != nil {
		return invalid(Issue{Message: err.Error()})
	}
	return ValidateValue(value)
}

// ValidateValue lints an already decoded template.
func ValidateValue(value jsonvalue.Value) Result {
	schema, err := templateSchema()
	if err != nil {
		return invalid(Issue{Message: err.Error()})
	}

	if err := schema.VisitJSON(jsonvalue.ToAny(value), openapi3.MultiErrors()); err != nil {
		return invalid(issuesFromError(err)...)
	}

	if _, err := jmx.ParseTemplate(value); err != nil {
		return invalid(issueFromTemplateError(err))
	}
	return Result{Valid: true}
}

func invalid(issues ...Issue) Result {
	return Result{Valid: false, Issues: issues}
}

func issuesFromError(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, inner := range multi {
			out = append(out, issuesFromError(inner)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := pointerFromSegments(schemaErr.JSONPointer())
		return []Issue{{
			Path:    pointer,
			Field:   fieldPathFromPointer(pointer),
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}
	return []Issue{{Message: strings.TrimSpace(err.Error())}}
}

func issueFromTemplateError(err error) Issue {
	var jmxErr *jmx.Error
	if errors.As(err, &jmxErr) && jmxErr.Field != "" {
		return Issue{Field: jmxErr.Field, Message: err.Error()}
	}
	return Issue{Message: err.Error()}
}

func pointerFromSegments(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}

func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}
