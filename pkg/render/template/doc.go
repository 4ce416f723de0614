// Package template defines the renderer-agnostic contract used to produce the
// text artefacts (collectd plugin configuration, README files). The pongo
// subpackage provides the default pongo2-backed implementation.
package template
