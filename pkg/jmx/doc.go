// Package jmx turns monitoring templates into jmxtrans configuration
// documents. A template pairs an opaque serverInfo mapping with a list of
// queryInfos; Transform expands it for one gateway URL and one instance
// identification mode (source or detectInstance), and Extract reverses a
// generated document back into a template.
package jmx
