// Package validation checks an inbound request against the contract of a
// Resource and reports every violation as a Diagnostic.
//
// The package validates:
//   - Query, header and path parameters (ParamValidator)
//   - The request body against the content definition matching the
//     request media type (BodyValidator)
//   - Arbitrary instances against JSON Schema (JSONSchemaValidator)
//
// Validators never stop at the first problem. Every declared parameter is
// visited and all diagnostics are returned, so callers always see the full
// error surface. Go errors are reserved for collaborator faults such as a
// schema that does not compile, and for context cancellation.
//
// # Basic Usage
//
//	schemas := validation.NewJSONSchemaValidator()
//	v := validation.NewRequestValidator(deserialize.NewDefaultRegistry(), schemas)
//
//	diags, err := v.Validate(ctx, resource, request)
//	if err != nil {
//	    return err
//	}
//	if diags.HasErrors() {
//	    for _, d := range diags.Errors() {
//	        log.Printf("%s.%s: %s", d.Location, d.Field, d.Message)
//	    }
//	}
//
// # Parameter styles
//
// Parameters are deserialized with the strategy the deserialize.Registry
// returns for their style. When no strategy supports a style, the parameter
// is only checked for presence; this is a compatibility policy so unusual
// styles never block otherwise well-formed requests.
package validation
