package jmx

import (
	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Template keys.
const (
	KeyServerInfo = "serverInfo"
	KeyQueryInfos = "queryInfos"
)

// QueryInfo keys.
const (
	KeyObj         = "obj"
	KeyAttr        = "attr"
	KeyResultAlias = "resultAlias"
	KeyTypeNames   = "typeNames"
)

var allowedQueryKeys = map[string]struct{}{
	KeyObj:         {},
	KeyResultAlias: {},
	KeyAttr:        {},
	KeyTypeNames:   {},
}

// Template is the source of truth for one monitored service: an opaque server
// description plus the JMX queries to collect.
type Template struct {
	ServerInfo *jsonvalue.Object
	Queries    []QueryInfo
}

// QueryInfo describes one JMX attribute collection. A nil TypeNames means the
// key was absent or null; a non-nil empty slice means it was present and empty.
type QueryInfo struct {
	Obj         string
	Attr        []string
	ResultAlias string
	TypeNames   []string
}

// HasTypeNames reports whether the template carried a typeNames key.
func (q QueryInfo) HasTypeNames() bool {
	return q.TypeNames != nil
}

// ParseTemplate validates the template shape and extracts typed queries. The
// server info is deep-copied so later mutations of v never leak into outputs.
func ParseTemplate(v jsonvalue.Value) (Template, error) {
	root, ok := v.AsObject()
	if !ok {
		return Template{}, malformed("template must be an object, got %s", v.Kind())
	}
	if root.Len() != 2 {
		return Template{}, malformed("template has %d keys, expected 2", root.Len())
	}

	serverValue, ok := root.Get(KeyServerInfo)
	if !ok {
		return Template{}, malformed("template is missing %q", KeyServerInfo)
	}
	server, ok := serverValue.AsObject()
	if !ok {
		return Template{}, malformed("%s must be an object, got %s", KeyServerInfo, serverValue.Kind())
	}

	queriesValue, ok := root.Get(KeyQueryInfos)
	if !ok {
		return Template{}, malformed("template is missing %q", KeyQueryInfos)
	}
	items, ok := queriesValue.AsArray()
	if !ok {
		return Template{}, malformed("%s must be an array, got %s", KeyQueryInfos, queriesValue.Kind())
	}

	tpl := Template{
		ServerInfo: server.Clone(),
		Queries:    make([]QueryInfo, 0, len(items)),
	}
	for i, item := range items {
		query, err := parseQueryInfo(i, item)
		if err != nil {
			return Template{}, err
		}
		tpl.Queries = append(tpl.Queries, query)
	}
	return tpl, nil
}

func parseQueryInfo(index int, v jsonvalue.Value) (QueryInfo, error) {
	obj, ok := v.AsObject()
	if !ok {
		return QueryInfo{}, malformed("%s[%d] must be an object, got %s", KeyQueryInfos, index, v.Kind())
	}
	for _, key := range obj.Keys() {
		if _, allowed := allowedQueryKeys[key]; !allowed {
			return QueryInfo{}, unexpectedField(key)
		}
	}

	var query QueryInfo
	var err error
	if query.Obj, err = requireString(obj, index, KeyObj); err != nil {
		return QueryInfo{}, err
	}
	if query.ResultAlias, err = requireString(obj, index, KeyResultAlias); err != nil {
		return QueryInfo{}, err
	}
	if query.Attr, err = requireStrings(obj, index, KeyAttr); err != nil {
		return QueryInfo{}, err
	}
	if v, ok := obj.Get(KeyTypeNames); ok && !v.IsNull() {
		if query.TypeNames, err = requireStrings(obj, index, KeyTypeNames); err != nil {
			return QueryInfo{}, err
		}
	}
	return query, nil
}

func requireString(obj *jsonvalue.Object, index int, key string) (string, error) {
	v, ok := obj.Get(key)
	if !ok {
		return "", malformed("%s[%d] is missing %q", KeyQueryInfos, index, key)
	}
	s, ok := v.AsString()
	if !ok {
		return "", malformed("%s[%d].%s must be a string, got %s", KeyQueryInfos, index, key, v.Kind())
	}
	return s, nil
}

func requireStrings(obj *jsonvalue.Object, index int, key string) ([]string, error) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, malformed("%s[%d] is missing %q", KeyQueryInfos, index, key)
	}
	out, ok := v.StringSlice()
	if !ok {
		return nil, malformed("%s[%d].%s must be an array of strings", KeyQueryInfos, index, key)
	}
	return out, nil
}

// Value renders the template back into its document form.
func (t Template) Value() jsonvalue.Value {
	queries := make([]jsonvalue.Value, 0, len(t.Queries))
	for _, q := range t.Queries {
		obj := jsonvalue.NewObject()
		obj.Set(KeyObj, jsonvalue.String(q.Obj))
		obj.Set(KeyAttr, jsonvalue.Strings(q.Attr...))
		obj.Set(KeyResultAlias, jsonvalue.String(q.ResultAlias))
		if q.HasTypeNames() {
			obj.Set(KeyTypeNames, jsonvalue.Strings(q.TypeNames...))
		}
		queries = append(queries, jsonvalue.ObjectValue(obj))
	}

	root := jsonvalue.NewObject()
	root.Set(KeyServerInfo, jsonvalue.ObjectValue(t.ServerInfo.Clone()))
	root.Set(KeyQueryInfos, jsonvalue.Array(queries...))
	return jsonvalue.ObjectValue(root)
}
