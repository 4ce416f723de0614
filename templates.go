package jmxgen

import (
	"io/fs"

	"github.com/goliatone/go-jmxgen/pkg/genericjmx"
)

// EmbeddedTemplates exposes the built-in GenericJMX conf template so callers
// can reuse or extend it without importing the converter package directly.
func EmbeddedTemplates() fs.FS {
	fsys := genericjmx.TemplatesFS()
	return fsys
}
