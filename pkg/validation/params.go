package validation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/validation/deserialize"
)

// ParamValidator validates the parameters of one location. The query, header
// and path validators share the algorithm and differ only in where values
// come from; header names are matched case-insensitively.
type ParamValidator struct {
	location contract.Location
	registry *deserialize.Registry
	schemas  SchemaValidator
	log      *slog.Logger
}

// NewParamValidator creates a validator for a parameter location.
func NewParamValidator(location contract.Location, registry *deserialize.Registry, schemas SchemaValidator) *ParamValidator {
	return &ParamValidator{
		location: location,
		registry: registry,
		schemas:  schemas,
		log:      logging.Nop(),
	}
}

// SetLogger sets the logger used to report capability gaps.
func (v *ParamValidator) SetLogger(log *slog.Logger) {
	if log != nil {
		v.log = log
	} else {
		v.log = logging.Nop()
	}
}

// Location returns the parameter location this validator handles.
func (v *ParamValidator) Location() contract.Location {
	return v.location
}

// Validate checks values against specs in spec order and returns every
// finding. A deprecated parameter in use yields a warning; a missing
// required one an error. Present parameters with a schema are deserialized
// with the registry strategy for their style and checked against the schema.
func (v *ParamValidator) Validate(ctx context.Context, values map[string][]string, specs []contract.Parameter) (Diagnostics, error) {
	if v.location == contract.LocationHeader {
		values = lowerKeys(values)
	}

	var diags Diagnostics
	for i := range specs {
		spec := &specs[i]
		name := spec.Name
		if v.location == contract.LocationHeader {
			name = strings.ToLower(name)
		}

		style := spec.EffectiveStyle()
		present := isPresent(name, style, values)

		if spec.Deprecated && present {
			diags = append(diags, NewDeprecatedDiagnostic(v.location, spec.Name))
		}
		if !present {
			if spec.Required {
				diags = append(diags, NewRequiredDiagnostic(v.location, spec.Name))
			}
			continue
		}
		if spec.Schema == nil {
			continue
		}

		d, ok := v.registry.Get(style)
		if !ok {
			v.log.Debug("no deserializer for parameter style, skipping schema validation",
				"location", v.location, "parameter", spec.Name, "style", style)
			continue
		}

		value := d.Deserialize(name, values, spec.Schema, spec.EffectiveExplode())
		found, err := v.schemas.Validate(ctx, value, spec.Schema)
		if err != nil {
			return diags, err
		}
		for _, f := range found {
			f.Location = string(v.location)
			if f.Field == "" {
				f.Field = spec.Name
			} else if strings.HasPrefix(f.Field, "[") {
				f.Field = spec.Name + f.Field
			} else {
				f.Field = spec.Name + "." + f.Field
			}
			diags = append(diags, f)
		}
	}
	return diags, nil
}

func isPresent(name string, style contract.Style, values map[string][]string) bool {
	if style == contract.StyleDeepObject {
		return deserialize.HasDeepObject(name, values)
	}
	_, ok := values[name]
	return ok
}

func lowerKeys(values map[string][]string) map[string][]string {
	out := make(map[string][]string, len(values))
	for k, v := range values {
		key := strings.ToLower(k)
		out[key] = append(out[key], v...)
	}
	return out
}
