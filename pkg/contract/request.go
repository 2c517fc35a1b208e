package contract

// Request is the transport-neutral view of an inbound HTTP request.
type Request struct {
	Method string `json:"method"`
	Path   string `json:"path"`

	// MediaType is the declared media type of Body, without parameters.
	MediaType string `json:"mediaType,omitempty"`

	Query      map[string][]string `json:"query,omitempty"`
	Headers    map[string][]string `json:"headers,omitempty"`
	PathParams map[string][]string `json:"pathParams,omitempty"`

	// Accept is the ordered preference list, most preferred first.
	Accept []string `json:"accept,omitempty"`

	// Body is the decoded payload; nil when the request has no body.
	Body any `json:"body,omitempty"`
}

// Values returns the raw values for a parameter location.
func (r *Request) Values(in Location) map[string][]string {
	switch in {
	case LocationQuery:
		return r.Query
	case LocationHeader:
		return r.Headers
	case LocationPath:
		return r.PathParams
	}
	return nil
}
