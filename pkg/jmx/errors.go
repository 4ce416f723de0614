package jmx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies template and generation failures.
type ErrorKind string

const (
	KindMalformedTemplate ErrorKind = "malformed template"
	KindUnexpectedField   ErrorKind = "unexpected field"
	KindIO                ErrorKind = "io"
)

var (
	// ErrMalformedTemplate matches errors of KindMalformedTemplate via errors.Is.
	ErrMalformedTemplate = errors.New("jmx: malformed template")
	// ErrUnexpectedField matches errors of KindUnexpectedField via errors.Is.
	ErrUnexpectedField   = errors.New("jmx: unexpected field")
	// ErrIO matches errors of KindIO via errors.Is.
	ErrIO                = errors.New("jmx: io error")
)

// Error reports a fatal template or persistence problem. Field names the
// offending key for KindUnexpectedField; Path names the file for KindIO.
type Error struct {
	Kind    ErrorKind
	Field   string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("jmx: ")
	b.WriteString(string(e.Kind))
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedTemplate:
		return e.Kind == KindMalformedTemplate
	case ErrUnexpectedField:
		return e.Kind == KindUnexpectedField
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

func malformed(format string, args ...any) error {
	return &Error{Kind: KindMalformedTemplate, Message: fmt.Sprintf(format, args...)}
}

func unexpectedField(key string) error {
	return &Error{Kind: KindUnexpectedField, Field: key, Message: "found in queryInfos"}
}

// IOError wraps a filesystem failure for path.
func IOError(path, op string, err error) error {
	return &Error{Kind: KindIO, Path: path, Message: op, Err: err}
}
