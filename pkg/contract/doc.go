// Package contract defines the in-memory model the mock core works on: an API
// operation (Resource) with its responses, content definitions, examples and
// parameters, plus the normalized inbound Request.
//
// Values in this package are built by an outer layer (see package openapi) and
// handed to the validators and the mocker by pointer for the duration of a
// single call. Nothing in the core mutates them, so one Resource may serve any
// number of concurrent requests.
//
// Optional fields follow a documented "zero means absent" rule:
//   - a nil Schema means no schema was declared;
//   - a nil Explode means the style's default explode behaviour;
//   - an empty Style means the location's default style;
//   - a nil Request.Body means the request carried no body.
package contract
