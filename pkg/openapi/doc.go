// Package openapi loads OpenAPI 3 documents into contract resources and
// routes HTTP requests to them.
//
// Documents are parsed and validated with kin-openapi. Key order of
// responses, media types and examples is recovered from the raw document,
// since negotiation defaults depend on it. Schemas are converted to JSON
// Schema (OpenAPI 3.0 nullable and boolean exclusive bounds are rewritten)
// and bundled with the component schemas they reference.
package openapi
