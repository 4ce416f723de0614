// Package generator expands jmx templates and metric catalogs into one
// jmxtrans configuration per variant, reporting drift against the files that
// are already on disk before replacing them.
package generator
