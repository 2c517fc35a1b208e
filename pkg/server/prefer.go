package server

import (
	"strconv"
	"strings"

	"github.com/getmockd/oasmock/pkg/mocker"
)

// preferences are the negotiation hints of a Prefer header.
type preferences struct {
	code    string
	example string
	dynamic *bool
}

// parsePrefer reads "code=201, example=first, dynamic=true". Preferences are
// separated by commas or semicolons; values may be quoted. Unknown tokens are
// ignored.
func parsePrefer(values []string) preferences {
	var p preferences
	for _, header := range values {
		for _, token := range strings.FieldsFunc(header, func(r rune) bool { return r == ',' || r == ';' }) {
			key, value, ok := strings.Cut(strings.TrimSpace(token), "=")
			if !ok {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"`)
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "code":
				p.code = value
			case "example":
				p.example = value
			case "dynamic":
				if b, err := strconv.ParseBool(value); err == nil {
					p.dynamic = &b
				}
			}
		}
	}
	return p
}

// apply overlays the preferences on base.
func (p preferences) apply(base mocker.Config) mocker.Config {
	o := &mocker.Config{
		Dynamic:    base.Dynamic,
		Code:       p.code,
		ExampleKey: p.example,
	}
	if p.dynamic != nil {
		o.Dynamic = *p.dynamic
	}
	return base.Merge(o)
}
