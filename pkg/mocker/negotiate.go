package mocker

import (
	"maps"
	"slices"
	"strings"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
)

// selectResponse picks the definition for code, or the first 2xx, or the
// first definition of any kind.
func selectResponse(res *contract.Resource, code string) (*contract.ResponseDef, error) {
	if code != "" {
		if def, ok := res.FindResponse(code); ok {
			return def, nil
		}
		return nil, ErrStatusCodeNotDefined.withDetail("%s %s has no response %s", res.Method, res.Path, code)
	}

	for i := range res.Responses {
		if res.Responses[i].IsSuccess() {
			return &res.Responses[i], nil
		}
	}
	if len(res.Responses) > 0 {
		return &res.Responses[0], nil
	}
	return nil, ErrStatusCodeNotDefined.withDetail("%s %s declares no responses", res.Method, res.Path)
}

// selectErrorResponse picks 422, then 400, then the first 4xx definition.
func selectErrorResponse(res *contract.Resource) (*contract.ResponseDef, bool) {
	for _, code := range []string{"422", "400"} {
		if def, ok := res.FindResponse(code); ok {
			return def, true
		}
	}
	for i := range res.Responses {
		if res.Responses[i].IsClientError() {
			return &res.Responses[i], true
		}
	}
	return nil, false
}

// acceptable returns the media ranges in force and whether they constrain
// the choice. Caller media types win over the Accept list; lists made of
// wildcards only do not constrain.
func acceptable(cfg *Config, req *contract.Request) ([]string, bool) {
	if len(cfg.MediaTypes) > 0 {
		return cfg.MediaTypes, !mediatype.OnlyWildcards(cfg.MediaTypes)
	}
	if !mediatype.OnlyWildcards(req.Accept) {
		return req.Accept, true
	}
	return nil, false
}

// selectContent returns the first content in declared order matching ranges.
// A definition without contents yields nil and never fails.
func selectContent(def *contract.ResponseDef, ranges []string, explicit bool) (*contract.Content, error) {
	if len(def.Contents) == 0 {
		return nil, nil
	}
	if !explicit {
		return &def.Contents[0], nil
	}
	for i := range def.Contents {
		if mediatype.MatchAny(ranges, def.Contents[i].MediaType) {
			return &def.Contents[i], nil
		}
	}

	declared := make([]string, len(def.Contents))
	for i := range def.Contents {
		declared[i] = def.Contents[i].MediaType
	}
	return nil, ErrNotAcceptable.withDetail("requested %s, response %s produces %s",
		strings.Join(ranges, ", "), def.Code, strings.Join(declared, ", "))
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
