package jsonvalue

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON-like value. The zero Value is null.
//
// Numbers keep their source literal so regenerated documents reproduce the
// exact text of the template (9999 stays 9999, 1.50 stays 1.50).
type Value struct {
	kind Kind
	b    bool
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Int wraps an integer number.
func Int(n int64) Value {
	return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)}
}

// Float wraps a floating point number using the shortest round-trip literal.
func Float(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a JSON number literal as produced by json.Decoder.UseNumber.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, s: n.String()}
}

// Array wraps the supplied elements. The slice is copied.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value{}, items...)}
}

// Strings builds an array of string values.
func Strings(items ...string) Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, String(item))
	}
	return Value{kind: KindArray, arr: out}
}

// ObjectValue wraps an object. A nil object becomes an empty object.
func ObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind reports the value shape.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsNumber returns the number literal.
func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.s), v.kind == KindNumber
}

// AsArray returns a copy of the array elements.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return append([]Value{}, v.arr...), true
}

// AsObject returns the wrapped object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Len returns the element count of arrays and objects, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// StringSlice converts an array of strings into a Go slice. A non-array or an
// array holding any non-string element reports false.
func (v Value) StringSlice() ([]string, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]string, 0, len(v.arr))
	for _, item := range v.arr {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Clone returns a deep copy sharing no containers with v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: out}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Float64 parses the number literal.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Equal reports deep equality. Objects compare without regard to key order and
// numbers compare by numeric value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindNumber:
		return numbersEqual(v, other)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, m := range v.obj.Members() {
			o, ok := other.obj.Get(m.Key)
			if !ok || !m.Value.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// ScalarEqual compares two scalars of the same kind. Containers are never
// scalar-equal.
func ScalarEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindArray, KindObject:
		return false
	}
	return a.Equal(b)
}

// numbersEqual compares the literals exactly, so integers beyond float64
// precision stay distinct while 1.0 still equals 1.
func numbersEqual(a, b Value) bool {
	if a.s == b.s {
		return true
	}
	ra, okA := new(big.Rat).SetString(a.s)
	rb, okB := new(big.Rat).SetString(b.s)
	if okA && okB {
		return ra.Cmp(rb) == 0
	}
	fa, okA := a.Float64()
	fb, okB := b.Float64()
	return okA && okB && fa == fb
}

// String renders v compactly for human-readable messages: scalars print their
// bare text, containers print as single-line JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.s
	default:
		return string(Compact(v))
	}
}
