package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a single JSON document, keeping object member order.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("jsonvalue: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("jsonvalue: decode: trailing data after document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, arr: items}, nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return ObjectValue(obj), nil
}

// DecodeYAML parses a YAML document, keeping mapping order.
func DecodeYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, fmt.Errorf("jsonvalue: decode yaml: %w", err)
	}
	if node.Kind == 0 {
		return Value{}, errors.New("jsonvalue: decode yaml: document is empty")
	}
	return FromYAMLNode(&node)
}

// FromYAMLNode converts a decoded yaml.v3 node tree.
func FromYAMLNode(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(node.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := FromYAMLNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, arr: items}, nil
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("jsonvalue: yaml line %d: mapping key must be a scalar", keyNode.Line)
			}
			value, err := FromYAMLNode(valueNode)
			if err != nil {
				return Value{}, err
			}
			obj.Set(keyNode.Value, value)
		}
		return ObjectValue(obj), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	}
	return Value{}, fmt.Errorf("jsonvalue: yaml line %d: unsupported node kind %d", node.Line, node.Kind)
}

func fromYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("jsonvalue: yaml line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return Value{}, fmt.Errorf("jsonvalue: yaml line %d: %w", node.Line, err)
		}
		return Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("jsonvalue: yaml line %d: %w", node.Line, err)
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// DecodeAuto parses JSON and falls back to YAML when the payload is not JSON.
func DecodeAuto(data []byte) (Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Value{}, errors.New("jsonvalue: document is empty")
	}
	v, jsonErr := Decode(data)
	if jsonErr == nil {
		return v, nil
	}
	v, yamlErr := DecodeYAML(data)
	if yamlErr == nil {
		return v, nil
	}
	return Value{}, fmt.Errorf("jsonvalue: invalid JSON or YAML: %w", jsonErr)
}

// ToAny converts v into the plain Go representation produced by
// encoding/json (map[string]any, []any, float64, string, bool, nil). Object
// order is lost.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f
		}
		return v.s
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = ToAny(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, m := range v.obj.members {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	default:
		return nil
	}
}
