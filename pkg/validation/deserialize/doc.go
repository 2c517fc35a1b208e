// Package deserialize turns raw parameter strings into structured values
// according to OpenAPI serialization styles, so they can be checked against a
// JSON Schema.
//
// Each strategy declares the styles it supports. A Registry holds strategies
// in registration order and Get returns the first one supporting a style:
//
//	reg := deserialize.NewDefaultRegistry()
//	d, ok := reg.Get(contract.StyleDeepObject)
//	if ok {
//	    value := d.Deserialize("filter", query, schema, true)
//	}
//
// A missing strategy is not an error. Callers skip schema validation for
// parameters whose style nobody supports.
//
// Default styles per location:
//
//	| Location | Default Style | Default Explode |
//	|----------|---------------|-----------------|
//	| path     | simple        | false           |
//	| query    | form          | true            |
//	| header   | simple        | false           |
package deserialize
