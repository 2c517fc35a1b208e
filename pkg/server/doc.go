// Package server exposes a loaded OpenAPI document as a mock HTTP server.
//
// Handler routes each request to its operation, normalizes it into a
// contract.Request, asks the mocker for a response and encodes the result
// for the negotiated media type. Clients steer negotiation with the Prefer
// header:
//
//	Prefer: code=201, example=first, dynamic=true
//
// Server wraps a Handler with CORS handling and graceful shutdown.
package server
