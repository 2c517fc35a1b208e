// Package mocker negotiates mock responses for an operation.
//
// Mock validates the request, selects a response definition and a content
// definition, then produces the body from a static example or the example
// generator:
//
//	m := mocker.New(generator.New(), mocker.WithValidator(v))
//	resp, err := m.Mock(ctx, resource, request, &mocker.Config{Code: "201"})
//
// Requests that fail validation are answered from the operation's client
// error response (422, 400 or the first 4xx) with the diagnostics attached.
// Negotiation faults are returned as *ProblemError values and can be matched
// with errors.Is against the package sentinels.
package mocker
