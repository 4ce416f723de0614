package jmx

import (
	"errors"

	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

const (
	// WriterClass is the jmxtrans output writer every query forwards to.
	WriterClass      = "com.googlecode.jmxtrans.model.output.StackdriverWriter"
	// TokenPlaceholder is substituted by operators with their API key.
	TokenPlaceholder = "STACKDRIVER_API_KEY"
)

// Output document keys.
const (
	KeyServers        = "servers"
	KeyQueries        = "queries"
	KeyOutputWriters  = "outputWriters"
	KeyClass          = "@class"
	KeySettings       = "settings"
	KeyToken          = "token"
	KeyURL            = "url"
	KeySource         = "source"
	KeyDetectInstance = "detectInstance"
)

// Params selects the gateway and instance identification mode for one output
// document. Empty strings are treated as absent.
type Params struct {
	URL            string
	Source         string
	DetectInstance string
}

// Validate checks that exactly one identification mode is set.
func (p Params) Validate() error {
	if p.URL == "" {
		return errors.New("jmx: params: url is required")
	}
	switch {
	case p.Source != "" && p.DetectInstance != "":
		return errors.New("jmx: params: source and detectInstance are mutually exclusive")
	case p.Source == "" && p.DetectInstance == "":
		return errors.New("jmx: params: one of source or detectInstance is required")
	}
	return nil
}

// Transform parses the template document and expands it into a jmxtrans
// configuration for the supplied parameters.
func Transform(template jsonvalue.Value, p Params) (jsonvalue.Value, error) {
	tpl, err := ParseTemplate(template)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return tpl.Output(p), nil
}

// Output builds the output document:
//
//	{"servers": [{<serverInfo...>, "queries": [{obj, attr, resultAlias, outputWriters}]}]}
func (t Template) Output(p Params) jsonvalue.Value {
	queries := make([]jsonvalue.Value, 0, len(t.Queries))
	for _, q := range t.Queries {
		writer := jsonvalue.NewObject()
		writer.Set(KeyClass, jsonvalue.String(WriterClass))
		writer.Set(KeySettings, jsonvalue.ObjectValue(settings(q, p)))

		query := jsonvalue.NewObject()
		query.Set(KeyObj, jsonvalue.String(q.Obj))
		query.Set(KeyAttr, jsonvalue.Strings(q.Attr...))
		query.Set(KeyResultAlias, jsonvalue.String(q.ResultAlias))
		query.Set(KeyOutputWriters, jsonvalue.Array(jsonvalue.ObjectValue(writer)))
		queries = append(queries, jsonvalue.ObjectValue(query))
	}

	server := t.ServerInfo.Clone()
	server.Set(KeyQueries, jsonvalue.Array(queries...))

	root := jsonvalue.NewObject()
	root.Set(KeyServers, jsonvalue.Array(jsonvalue.ObjectValue(server)))
	return jsonvalue.ObjectValue(root)
}

func settings(q QueryInfo, p Params) *jsonvalue.Object {
	out := jsonvalue.NewObject()
	out.Set(KeyToken, jsonvalue.String(TokenPlaceholder))
	out.Set(KeyURL, jsonvalue.String(p.URL))
	if p.Source != "" {
		out.Set(KeySource, jsonvalue.String(p.Source))
	}
	if p.DetectInstance != "" {
		out.Set(KeyDetectInstance, jsonvalue.String(p.DetectInstance))
	}
	if q.HasTypeNames() {
		out.Set(KeyTypeNames, jsonvalue.Strings(q.TypeNames...))
	}
	return out
}
