package jmx

import (
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Extract reverses Output: it turns a previously generated jmxtrans document
// back into a template. The first server (minus its queries) becomes
// serverInfo; each query drops its outputWriters and inherits typeNames from
// the first writer's settings when present. Other query keys are kept as-is.
func Extract(doc jsonvalue.Value) (jsonvalue.Value, error) {
	root, ok := doc.AsObject()
	if !ok {
		return jsonvalue.Value{}, malformed("document must be an object, got %s", doc.Kind())
	}
	serversValue, ok := root.Get(KeyServers)
	if !ok {
		return jsonvalue.Value{}, malformed("document is missing %q", KeyServers)
	}
	first, ok := serversValue.Index(0)
	if !ok {
		return jsonvalue.Value{}, malformed("%s must be a non-empty array", KeyServers)
	}
	firstServer, ok := first.AsObject()
	if !ok {
		return jsonvalue.Value{}, malformed("%s[0] must be an object, got %s", KeyServers, first.Kind())
	}

	server := firstServer.Clone()
	queriesValue, ok := server.Get(KeyQueries)
	if !ok {
		return jsonvalue.Value{}, malformed("%s[0] is missing %q", KeyServers, KeyQueries)
	}
	items, ok := queriesValue.AsArray()
	if !ok {
		return jsonvalue.Value{}, malformed("%s must be an array, got %s", KeyQueries, queriesValue.Kind())
	}
	server.Delete(KeyQueries)

	queryInfos := make([]jsonvalue.Value, 0, len(items))
	for i, item := range items {
		query, ok := item.AsObject()
		if !ok {
			return jsonvalue.Value{}, malformed("%s[%d] must be an object, got %s", KeyQueries, i, item.Kind())
		}
		typeNames, err := writerTypeNames(i, query)
		if err != nil {
			return jsonvalue.Value{}, err
		}
		query.Delete(KeyOutputWriters)
		if !typeNames.IsNull() {
			query.Set(KeyTypeNames, typeNames)
		}
		queryInfos = append(queryInfos, jsonvalue.ObjectValue(query))
	}

	out := jsonvalue.NewObject()
	out.Set(KeyServerInfo, jsonvalue.ObjectValue(server))
	out.Set(KeyQueryInfos, jsonvalue.Array(queryInfos...))
	return jsonvalue.ObjectValue(out), nil
}

func writerTypeNames(index int, query *jsonvalue.Object) (jsonvalue.Value, error) {
	writers, ok := query.Get(KeyOutputWriters)
	if !ok {
		return jsonvalue.Value{}, malformed("%s[%d] is missing %q", KeyQueries, index, KeyOutputWriters)
	}
	first, ok := writers.Index(0)
	if !ok {
		return jsonvalue.Value{}, malformed("%s[%d].%s must be a non-empty array", KeyQueries, index, KeyOutputWriters)
	}
	writer, ok := first.AsObject()
	if !ok {
		return jsonvalue.Value{}, malformed("%s[%d].%s[0] must be an object", KeyQueries, index, KeyOutputWriters)
	}
	settingsValue, ok := writer.Get(KeySettings)
	if !ok {
		return jsonvalue.Value{}, malformed("%s[%d].%s[0] is missing %q", KeyQueries, index, KeyOutputWriters, KeySettings)
	}
	settings, ok := settingsValue.AsObject()
	if !ok {
		return jsonvalue.Value{}, malformed("%s[%d] settings must be an object", KeyQueries, index)
	}
	typeNames, ok := settings.Get(KeyTypeNames)
	if !ok {
		return jsonvalue.Null(), nil
	}
	return typeNames, nil
}
