package genericjmx

import (
	"regexp"
	"strings"
)

var (
	wordBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerToUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToSnake converts a JMX attribute name such as "HeapMemoryUsage" into
// "heap_memory_usage". Acronym runs stay together: "MBeanCount" becomes
// "m_bean_count" and "RequestsPerSec" becomes "requests_per_sec".
func CamelToSnake(s string) string {
	step := wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(lowerToUpper.ReplaceAllString(step, "${1}_${2}"))
}

// MBeanAlias lowercases a resultAlias and replaces dots with underscores.
func MBeanAlias(resultAlias string) string {
	return strings.ReplaceAll(strings.ToLower(resultAlias), ".", "_")
}

// ShortAlias returns the segment after the last underscore of an MBean alias.
func ShortAlias(alias string) (string, bool) {
	idx := strings.LastIndex(alias, "_")
	if idx < 0 {
		return "", false
	}
	return alias[idx+1:], true
}
