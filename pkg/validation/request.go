package validation

import (
	"context"
	"log/slog"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/validation/deserialize"
)

// RequestValidator runs the query, header, path and body validators in that
// order and concatenates their diagnostics.
type RequestValidator struct {
	params []*ParamValidator
	body   *BodyValidator
}

// NewRequestValidator creates a validator for every request location.
func NewRequestValidator(registry *deserialize.Registry, schemas SchemaValidator) *RequestValidator {
	return &RequestValidator{
		params: []*ParamValidator{
			NewParamValidator(contract.LocationQuery, registry, schemas),
			NewParamValidator(contract.LocationHeader, registry, schemas),
			NewParamValidator(contract.LocationPath, registry, schemas),
		},
		body: NewBodyValidator(schemas),
	}
}

// SetLogger sets the logger of every location validator.
func (v *RequestValidator) SetLogger(log *slog.Logger) {
	for _, p := range v.params {
		p.SetLogger(log)
	}
	v.body.SetLogger(log)
}

// Validate validates req against the contract of res.
func (v *RequestValidator) Validate(ctx context.Context, res *contract.Resource, req *contract.Request) (Diagnostics, error) {
	if res.Request == nil {
		return nil, nil
	}

	var diags Diagnostics
	for _, p := range v.params {
		found, err := p.Validate(ctx, req.Values(p.Location()), res.Params(p.Location()))
		diags = append(diags, found...)
		if err != nil {
			return diags, err
		}
	}

	found, err := v.body.Validate(ctx, req.Body, res.Request.Body, req.MediaType)
	diags = append(diags, found...)
	if err != nil {
		return diags, err
	}
	return diags, nil
}
