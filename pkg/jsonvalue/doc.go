// Package jsonvalue models JSON documents as a tagged variant (null, bool,
// number, string, array, object). Objects keep member insertion order for
// serialization while lookups and equality ignore order, which lets generated
// configuration files round-trip byte-for-byte against committed copies.
package jsonvalue
