// Package parser extracts key=value fields from loosely structured preset text.
package parser

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw file bytes into text, dropping a leading UTF-8 byte order mark.
func Decode(data []byte) string {
	return string(bytes.TrimPrefix(data, utf8BOM))
}

// Blank reports whether content is empty or consists only of whitespace.
func Blank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// Lookup returns the value assigned to key in content.
//
// The key is located by plain substring search: the first occurrence anywhere
// in content wins, whether or not it starts a line. A key that appears inside
// an earlier value (for example "name=import=1" when looking up "port") is
// therefore matched, and the value after the next '=' is returned. Callers
// rely on this exact behavior; do not anchor the search.
//
// The value runs from just after the '=' to the next '\n' (or end of content)
// and is cut at the first '\r'. It is returned as a slice of content, not
// trimmed. The second result is false when the key or '=' is missing or the
// value is empty or whitespace-only.
func Lookup(content, key string) (string, bool) {
	keyIdx := strings.Index(content, key)
	if keyIdx < 0 {
		return "", false
	}

	eq := strings.IndexByte(content[keyIdx:], '=')
	if eq < 0 {
		return "", false
	}
	start := keyIdx + eq + 1

	end := len(content)
	if nl := strings.IndexByte(content[start:], '\n'); nl >= 0 {
		end = start + nl
	}

	value := content[start:end]
	if cr := strings.IndexByte(value, '\r'); cr >= 0 {
		value = value[:cr]
	}

	if Blank(value) {
		return "", false
	}
	return value, true
}
