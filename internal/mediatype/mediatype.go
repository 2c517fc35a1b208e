package mediatype

import (
	"mime"
	"slices"
	"strconv"
	"strings"
)

// Any is the full wildcard range.
const Any = "*/*"

// Normalize strips parameters and lowercases a media type.
// "Application/JSON; charset=utf-8" becomes "application/json".
func Normalize(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt, _, _ = strings.Cut(mediaType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

type acceptEntry struct {
	mediaType string
	q         float64
}

// ParseAccept turns one or more Accept header values into media ranges
// ordered by preference. Entries with q=0 are dropped; equal weights keep
// their header order.
func ParseAccept(values ...string) []string {
	var entries []acceptEntry
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			q := 1.0
			mt, params, err := mime.ParseMediaType(part)
			if err != nil {
				// "*" alone is sent by some clients.
				if strings.TrimSpace(part) == "*" {
					mt = Any
				} else {
					mt, _, _ = strings.Cut(part, ";")
				}
			} else if raw, ok := params["q"]; ok {
				if parsed, perr := strconv.ParseFloat(raw, 64); perr == nil {
					q = parsed
				}
			}
			if q <= 0 {
				continue
			}
			entries = append(entries, acceptEntry{mediaType: strings.ToLower(strings.TrimSpace(mt)), q: q})
		}
	}

	slices.SortStableFunc(entries, func(a, b acceptEntry) int {
		switch {
		case a.q > b.q:
			return -1
		case a.q < b.q:
			return 1
		}
		return 0
	})

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.mediaType)
	}
	return out
}

// OnlyWildcards reports whether every range in the list is */*.
// An empty list counts as wildcard.
func OnlyWildcards(ranges []string) bool {
	for _, r := range ranges {
		if Normalize(r) != Any {
			return false
		}
	}
	return true
}

// Match reports whether mediaType is covered by the range: an exact type,
// "type/*" or "*/*".
func Match(mediaRange, mediaType string) bool {
	mediaRange = Normalize(mediaRange)
	mediaType = Normalize(mediaType)

	if mediaRange == Any || mediaRange == mediaType {
		return true
	}
	if prefix, ok := strings.CutSuffix(mediaRange, "/*"); ok {
		return strings.HasPrefix(mediaType, prefix+"/")
	}
	return false
}

// MatchAny reports whether any range in the list covers mediaType.
func MatchAny(ranges []string, mediaType string) bool {
	for _, r := range ranges {
		if Match(r, mediaType) {
			return true
		}
	}
	return false
}

// IsJSON reports whether the media type carries JSON (application/json or a
// +json structured suffix).
func IsJSON(mediaType string) bool {
	mt := Normalize(mediaType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// IsXML reports whether the media type carries XML.
func IsXML(mediaType string) bool {
	mt := Normalize(mediaType)
	return mt == "application/xml" || mt == "text/xml" || strings.HasSuffix(mt, "+xml")
}

// IsYAML reports whether the media type carries YAML.
func IsYAML(mediaType string) bool {
	switch Normalize(mediaType) {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

// IsForm reports whether the media type is urlencoded form data.
func IsForm(mediaType string) bool {
	return Normalize(mediaType) == "application/x-www-form-urlencoded"
}
