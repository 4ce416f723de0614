// Package jmxgen expands jmxtrans query templates into one configuration per
// output variant and reports how regenerated files drift from the committed
// ones. The root package re-exports the pieces most callers need.
package jmxgen

import (
	"context"

	"github.com/goliatone/go-jmxgen/pkg/differ"
	"github.com/goliatone/go-jmxgen/pkg/document"
	"github.com/goliatone/go-jmxgen/pkg/generator"
	"github.com/goliatone/go-jmxgen/pkg/jmx"
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Template aliases jmx.Template for callers using the root package only.
type Template = jmx.Template

// Params selects the gateway and instance identification mode of one output.
type Params = jmx.Params

// Request lists the inputs of a generator run.
type Request = generator.Request

// Report summarises a generator run.
type Report = generator.Report

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// Generate loads every source and writes one output per configured variant.
func Generate(ctx context.Context, sources []document.Source, options ...generator.Option) (Report, error) {
	gen := generator.New(options...)
	return gen.Generate(ctx, generator.Request{Templates: sources})
}

// Transform expands a raw template document into a jmxtrans configuration.
func Transform(raw []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	v, err := jsonvalue.DecodeAuto(raw)
	if err != nil {
		return nil, err
	}
	out, err := jmx.Transform(v, p)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Indent(out), nil
}

// Diff reports structural differences between two JSON documents.
func Diff(a, b []byte) ([]string, error) {
	first, err := jsonvalue.Decode(a)
	if err != nil {
		return nil, err
	}
	second, err := jsonvalue.Decode(b)
	if err != nil {
		return nil, err
	}
	return differ.Diff(first, second), nil
}
