package jsonvalue

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Indent serializes v with two-space indentation, "," between items and ": "
// between keys and values. Non-ASCII characters are escaped as \uXXXX and no
// trailing newline is written, matching the layout of the committed jmxtrans
// files so regenerated output diffs cleanly.
func Indent(v Value) []byte {
	var buf bytes.Buffer
	writeIndented(&buf, v, 0)
	return buf.Bytes()
}

// Compact serializes v on a single line with ", " and ": " separators.
func Compact(v Value) []byte {
	var buf bytes.Buffer
	writeCompact(&buf, v)
	return buf.Bytes()
}

func writeIndented(buf *bytes.Buffer, v Value, depth int) {
	switch v.kind {
	case KindArray:
		if len(v.arr) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			writeIndented(buf, item, depth+1)
		}
		newline(buf, depth)
		buf.WriteByte(']')
	case KindObject:
		if v.obj.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range v.obj.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			writeString(buf, m.Key)
			buf.WriteString(": ")
			writeIndented(buf, m.Value, depth+1)
		}
		newline(buf, depth)
		buf.WriteByte('}')
	default:
		writeScalar(buf, v)
	}
}

func writeCompact(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeCompact(buf, item)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj.members {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeString(buf, m.Key)
			buf.WriteString(": ")
			writeCompact(buf, m.Value)
		}
		buf.WriteByte('}')
	default:
		writeScalar(buf, v)
	}
}

func newline(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
}

func writeScalar(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		writeString(buf, v.s)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20 || r == 0x7f:
			writeUnicodeEscape(buf, r)
		case r < utf8.RuneSelf:
			buf.WriteByte(byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			writeUnicodeEscape(buf, hi)
			writeUnicodeEscape(buf, lo)
		default:
			writeUnicodeEscape(buf, r)
		}
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, r rune) {
	fmt.Fprintf(buf, `\u%c%c%c%c`,
		hexDigits[(r>>12)&0xf], hexDigits[(r>>8)&0xf], hexDigits[(r>>4)&0xf], hexDigits[r&0xf])
}
