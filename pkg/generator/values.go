package generator

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/getmockd/oasmock/pkg/contract"
)

// object generates every declared property, then pads up to minProperties.
// Optional properties that recurse into themselves are left out.
func (r *run) object(s contract.Schema) (any, error) {
	props, _ := s["properties"].(map[string]any)
	required := make(map[string]bool)
	for _, name := range asList(s["required"]) {
		if str, ok := name.(string); ok {
			required[str] = true
		}
	}

	out := make(map[string]any, len(props))
	for _, name := range slices.Sorted(maps.Keys(props)) {
		v, err := r.generate(props[name], name)
		if err != nil {
			if errors.Is(err, errCycle) && !required[name] {
				continue
			}
			return nil, err
		}
		out[name] = v
	}

	extra := s["additionalProperties"]
	for _, name := range slices.Sorted(maps.Keys(required)) {
		if _, ok := out[name]; ok {
			continue
		}
		v, err := r.additional(extra, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}

	if minProps, ok := intKeyword(s, "minProperties"); ok {
		for i := 1; len(out) < minProps; i++ {
			name := "property" + strconv.Itoa(i)
			if _, exists := out[name]; exists {
				continue
			}
			v, err := r.additional(extra, name)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
	}

	if maxProps, ok := intKeyword(s, "maxProperties"); ok && len(out) > maxProps {
		for _, name := range slices.Backward(slices.Sorted(maps.Keys(out))) {
			if len(out) <= maxProps {
				break
			}
			if !required[name] {
				delete(out, name)
			}
		}
		if len(out) > maxProps {
			return nil, fmt.Errorf("%w: %d required properties exceed maxProperties %d", ErrUnsatisfiable, len(out), maxProps)
		}
	}
	return out, nil
}

// additional produces a value for a property not listed in "properties".
func (r *run) additional(schema any, name string) (any, error) {
	switch t := schema.(type) {
	case bool:
		if !t {
			return nil, fmt.Errorf("%w: property %q is not allowed by additionalProperties", ErrUnsatisfiable, name)
		}
	case map[string]any:
		return r.generate(t, name)
	}
	return "string", nil
}

func (r *run) array(s contract.Schema) (any, error) {
	minItems, _ := intKeyword(s, "minItems")
	maxItems, hasMax := intKeyword(s, "maxItems")
	if hasMax && maxItems < minItems {
		return nil, fmt.Errorf("%w: minItems %d > maxItems %d", ErrUnsatisfiable, minItems, maxItems)
	}

	count := max(minItems, 1)
	if hasMax && maxItems < count {
		count = maxItems
	}

	items, hasItems := s["items"]
	unique, _ := s["uniqueItems"].(bool)

	out := make([]any, 0, count)
	for len(out) < count {
		var (
			v   any
			err error
		)
		if !hasItems {
			v = "item"
			if len(out) > 0 {
				v = "item" + strconv.Itoa(len(out)+1)
			}
		} else {
			v, err = r.generate(items, "")
		}
		if err != nil {
			if errors.Is(err, errCycle) && minItems == 0 {
				return []any{}, nil
			}
			return nil, err
		}

		if unique && containsValue(out, v) {
			v, err = r.distinct(items, out)
			if err != nil {
				if len(out) >= minItems {
					break
				}
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// distinct retries item generation until it yields a value not in seen.
func (r *run) distinct(items any, seen []any) (any, error) {
	for range 16 {
		v, err := r.generate(items, "")
		if err != nil {
			return nil, err
		}
		if !containsValue(seen, v) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot produce %d unique items", ErrUnsatisfiable, len(seen)+1)
}

// str tries format, then property-name heuristics, then a plain string padded
// or trimmed to the length bounds. Candidates must fit the bounds and pattern.
func (r *run) str(s contract.Schema, name string) (any, error) {
	minLen, _ := intKeyword(s, "minLength")
	maxLen, hasMax := intKeyword(s, "maxLength")
	if hasMax && maxLen < minLen {
		return nil, fmt.Errorf("%w: minLength %d > maxLength %d", ErrUnsatisfiable, minLen, maxLen)
	}

	pattern, _ := s["pattern"].(string)
	if lit, ok := literalPattern(pattern); ok {
		return lit, nil
	}
	var re *regexp.Regexp
	if pattern != "" {
		// ECMA-262 patterns RE2 cannot compile are not checked.
		re, _ = regexp.Compile(pattern)
	}

	fits := func(v string) bool {
		n := utf8.RuneCountInString(v)
		if n < minLen || (hasMax && n > maxLen) {
			return false
		}
		return re == nil || re.MatchString(v)
	}

	if format, _ := s["format"].(string); format != "" {
		if v := r.byFormat(format); v != "" && fits(v) {
			return v, nil
		}
	}
	if r.gen.heuristics && name != "" {
		if v := r.byFieldName(name); v != "" && fits(v) {
			return v, nil
		}
	}

	v := "string"
	if n := utf8.RuneCountInString(v); n < minLen {
		v += r.letters(minLen - n)
	}
	if hasMax && utf8.RuneCountInString(v) > maxLen {
		v = string([]rune(v)[:maxLen])
	}
	return v, nil
}

// literalPattern returns the literal text of patterns like "^abc$".
func literalPattern(pattern string) (string, bool) {
	body, ok := strings.CutPrefix(pattern, "^")
	if !ok {
		return "", false
	}
	body, ok = strings.CutSuffix(body, "$")
	if !ok || body == "" || regexp.QuoteMeta(body) != body {
		return "", false
	}
	return body, true
}

func (r *run) integer(s contract.Schema) (any, error) {
	b, err := readBounds(s)
	if err != nil {
		return nil, err
	}

	if (b.hasMin && b.min >= maxInt64Float) || (b.hasMax && b.max < math.MinInt64) {
		return nil, fmt.Errorf("%w: integer range [%v, %v] lies outside int64", ErrUnsatisfiable, b.min, b.max)
	}

	lo, hi := int64(0), int64(100)
	switch {
	case b.hasMin && b.hasMax:
		lo, hi = ceilBound(b.min, b.exclMin), floorBound(b.max, b.exclMax)
	case b.hasMin:
		lo = ceilBound(b.min, b.exclMin)
		hi = math.MaxInt64
		if lo <= math.MaxInt64-100 {
			hi = lo + 100
		}
	case b.hasMax:
		hi = floorBound(b.max, b.exclMax)
		lo = math.MinInt64
		if hi >= math.MinInt64+100 {
			lo = hi - 100
		}
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: no integer in range [%d, %d]", ErrUnsatisfiable, lo, hi)
	}

	if m, ok := numberKeyword(s, "multipleOf"); ok && m > 0 {
		return r.multipleOf(m, lo, hi)
	}
	// uint64 arithmetic keeps the span exact across the whole int64 range.
	span := uint64(hi) - uint64(lo)
	return lo + r.rng.Int64N(int64(min(span, 1000))+1), nil
}

// multipleOf picks a multiple of m in [lo, hi].
func (r *run) multipleOf(m float64, lo, hi int64) (any, error) {
	if m >= maxInt64Float {
		// Only zero is a multiple representable as int64.
		if lo <= 0 && hi >= 0 {
			return int64(0), nil
		}
		return nil, fmt.Errorf("%w: no multiple of %v in range [%d, %d]", ErrUnsatisfiable, m, lo, hi)
	}
	step := int64(m)
	if float64(step) != m || step == 0 {
		return nil, fmt.Errorf("%w: integer multipleOf %v", ErrUnsatisfiable, m)
	}
	qLo, qHi := ceilDiv(lo, step), floorDiv(hi, step)
	if qLo > qHi {
		return nil, fmt.Errorf("%w: no multiple of %d in range [%d, %d]", ErrUnsatisfiable, step, lo, hi)
	}
	n := min(uint64(qHi)-uint64(qLo), 99) + 1
	return (qLo + r.rng.Int64N(int64(n))) * step, nil
}

func (r *run) number(s contract.Schema) (any, error) {
	b, err := readBounds(s)
	if err != nil {
		return nil, err
	}

	lo, hi := 0.0, 100.0
	switch {
	case b.hasMin && b.hasMax:
		lo, hi = b.min, b.max
	case b.hasMin:
		lo, hi = b.min, b.min+100
	case b.hasMax:
		lo, hi = b.max-100, b.max
	}
	if lo > hi || (lo == hi && (b.exclMin || b.exclMax)) {
		return nil, fmt.Errorf("%w: no number in range [%v, %v]", ErrUnsatisfiable, lo, hi)
	}

	if m, ok := numberKeyword(s, "multipleOf"); ok && m > 0 {
		kLo, kHi := math.Ceil(lo/m), math.Floor(hi/m)
		if b.exclMin && kLo*m <= lo {
			kLo++
		}
		if b.exclMax && kHi*m >= hi {
			kHi--
		}
		if kLo > kHi {
			return nil, fmt.Errorf("%w: no multiple of %v in range [%v, %v]", ErrUnsatisfiable, m, lo, hi)
		}
		k := kLo + float64(r.rng.IntN(int(min(kHi-kLo, 100))+1))
		return roundTo(k*m, decimals(m)), nil
	}

	inRange := func(v float64) bool {
		return v >= lo && v <= hi && !(b.exclMin && v <= lo) && !(b.exclMax && v >= hi)
	}
	v := roundTo(lo+r.rng.Float64()*(hi-lo), 2)
	if !inRange(v) {
		v = (lo + hi) / 2
	}
	return v, nil
}

type bounds struct {
	min, max         float64
	hasMin, hasMax   bool
	exclMin, exclMax bool
}

// readBounds reads minimum/maximum and both exclusive forms: the numeric one
// of draft 6+ and the boolean modifier of draft 4 and OpenAPI 3.0.
func readBounds(s contract.Schema) (bounds, error) {
	var b bounds
	b.min, b.hasMin = numberKeyword(s, "minimum")
	b.max, b.hasMax = numberKeyword(s, "maximum")

	switch v := s["exclusiveMinimum"].(type) {
	case bool:
		b.exclMin = v && b.hasMin
	default:
		if n, ok := toFloat(v); ok {
			if !b.hasMin || n >= b.min {
				b.min, b.hasMin, b.exclMin = n, true, true
			}
		}
	}
	switch v := s["exclusiveMaximum"].(type) {
	case bool:
		b.exclMax = v && b.hasMax
	default:
		if n, ok := toFloat(v); ok {
			if !b.hasMax || n <= b.max {
				b.max, b.hasMax, b.exclMax = n, true, true
			}
		}
	}

	if b.hasMin && b.hasMax && b.min > b.max {
		return b, fmt.Errorf("%w: minimum %v > maximum %v", ErrUnsatisfiable, b.min, b.max)
	}
	return b, nil
}

// maxInt64Float is 2^63, the smallest float64 above math.MaxInt64.
const maxInt64Float = float64(1 << 63)

func ceilBound(v float64, exclusive bool) int64 {
	c := math.Ceil(v)
	if exclusive && c == v {
		c++
	}
	return clampInt64(c)
}

func floorBound(v float64, exclusive bool) int64 {
	f := math.Floor(v)
	if exclusive && f == v {
		f--
	}
	return clampInt64(f)
}

// clampInt64 converts an integral float, saturating outside the int64 range.
func clampInt64(v float64) int64 {
	switch {
	case v >= maxInt64Float:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func roundTo(v float64, places int) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return f
}

// decimals counts the fractional digits of a multipleOf step.
func decimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok {
		return len(frac)
	}
	return 0
}

func intKeyword(s contract.Schema, key string) (int, bool) {
	f, ok := numberKeyword(s, key)
	if !ok || f < 0 {
		return 0, false
	}
	return int(f), true
}

func numberKeyword(s contract.Schema, key string) (float64, bool) {
	return toFloat(s[key])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
