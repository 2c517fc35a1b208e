// Package parse splits the small "key: value" and list arguments of CLI flags.
package parse

import (
	"strings"
	"unicode/utf8"
)

// KeyValue splits s at the first of delimiters, ':' when none are given.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	set := ":"
	if len(delimiters) > 0 {
		set = string(delimiters)
	}
	i := strings.IndexAny(s, set)
	if i < 0 {
		return "", "", false
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[:i], s[i+size:], true
}

// Header parses a "Name: value" header flag. Name and value are trimmed.
func Header(s string) (name, value string, ok bool) {
	name, value, ok = KeyValue(s, ':')
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// SplitTrim splits s at sep, trimming each part and dropping empty ones.
func SplitTrim(s, sep string) []string {
	var out []string
	for p := range strings.SplitSeq(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
