// Package differ reports human-readable structural differences between two
// JSON-like values. It is used as a sanity check when regenerating committed
// configuration files.
package differ

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-jmxgen/pkg/jsonvalue"
)

// Diff compares a against b and returns one line per detected difference, in
// detection order. Identical values produce an empty result.
func Diff(a, b jsonvalue.Value) []string {
	var out []string
	diffAny(a, b, &out)
	return out
}

// Format joins the lines the way they are printed to operators.
func Format(lines []string) string {
	return strings.Join(lines, "\n")
}

func diffAny(a, b jsonvalue.Value, out *[]string) {
	if a.Kind() != b.Kind() {
		*out = append(*out, fmt.Sprintf("Types differ: %s vs %s (%s vs %s)", a.Kind(), b.Kind(), a, b))
		return
	}

	switch a.Kind() {
	case jsonvalue.KindArray:
		diffArray(a, b, out)
	case jsonvalue.KindObject:
		first, _ := a.AsObject()
		second, _ := b.AsObject()
		diffObject(first, second, out)
	default:
		if !jsonvalue.ScalarEqual(a, b) {
			*out = append(*out, fmt.Sprintf("Values differ: %s vs %s", a, b))
		}
	}
}

// diffArray compares element-wise up to the shorter length. Extra trailing
// elements only show up in the length line.
func diffArray(a, b jsonvalue.Value, out *[]string) {
	if a.Len() != b.Len() {
		*out = append(*out, fmt.Sprintf("List lengths differ: %d vs %d", a.Len(), b.Len()))
	}
	n := min(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		left, _ := a.Index(i)
		right, _ := b.Index(i)
		diffAny(left, right, out)
	}
}

func diffObject(a, b *jsonvalue.Object, out *[]string) {
	if a.Len() != b.Len() {
		*out = append(*out, fmt.Sprintf("Dict lengths differ: %d vs %d", a.Len(), b.Len()))
	}
	for _, m := range a.Members() {
		if other, ok := b.Get(m.Key); ok {
			diffAny(m.Value, other, out)
		}
	}
	onlyIn("only in first", a, b, out)
	onlyIn("only in second", b, a, out)
}

func onlyIn(label string, a, b *jsonvalue.Object, out *[]string) {
	for _, key := range a.Keys() {
		if !b.Has(key) {
			*out = append(*out, fmt.Sprintf("%s: %s", label, key))
		}
	}
}
