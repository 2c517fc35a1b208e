package openapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/logging"
)

// Errors returned by the loader and router.
var (
	ErrInvalidDocument  = errors.New("invalid OpenAPI document")
	ErrRouteNotFound    = errors.New("no operation matches the request path")
	ErrMethodNotAllowed = errors.New("method not allowed for the request path")
)

// Option configures loading.
type Option func(*options)

type options struct {
	strict bool
	log    *slog.Logger
}

// WithStrictExamples makes document validation also check examples against
// their schemas.
func WithStrictExamples(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Spec is a loaded document with its resources in document order.
type Spec struct {
	Doc       *openapi3.T
	Resources []*contract.Resource

	router routers.Router
	byOp   map[*openapi3.Operation]*contract.Resource
}

// LoadFile reads and loads a document from disk. Relative external
// references are resolved against the file location.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	return load(ctx, data, &url.URL{Path: path}, opts)
}

// Load loads a document from memory. External references are not allowed.
func Load(ctx context.Context, data []byte, opts ...Option) (*Spec, error) {
	return load(ctx, data, nil, opts)
}

func load(ctx context.Context, data []byte, location *url.URL, opts []Option) (*Spec, error) {
	o := &options{log: logging.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	var (
		doc *openapi3.T
		err error
	)
	if location != nil {
		loader.IsExternalRefsAllowed = true
		doc, err = loader.LoadFromDataWithPath(data, location)
	} else {
		doc, err = loader.LoadFromData(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var validateOpts []openapi3.ValidationOption
	if !o.strict {
		validateOpts = append(validateOpts, openapi3.DisableExamplesValidation())
	}
	if err := doc.Validate(ctx, validateOpts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if location != nil {
		doc.InternalizeRefs(ctx, nil)
	}

	return newSpec(doc, newOrderHints(data), o.log)
}

func newSpec(doc *openapi3.T, hints *orderHints, log *slog.Logger) (*Spec, error) {
	bundle, err := newSchemaBundle(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	c := &converter{hints: hints, schemas: bundle}

	spec := &Spec{
		Doc:  doc,
		byOp: make(map[*openapi3.Operation]*contract.Resource),
	}
	paths := doc.Paths.Map()
	for _, path := range ordered(paths, hints.keys("paths")) {
		item := paths[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		for _, method := range ordered(ops, upper(hints.keys("paths", path))) {
			res, err := c.resource(path, method, item, ops[method])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
			}
			spec.Resources = append(spec.Resources, res)
			spec.byOp[ops[method]] = res
		}
		// The router must match any host the mock is served on.
		item.Servers = nil
	}
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	spec.router = router

	log.Debug("loaded OpenAPI document", "title", spec.Title(), "operations", len(spec.Resources))
	return spec, nil
}

// Title returns the document title.
func (s *Spec) Title() string {
	if s.Doc.Info == nil {
		return ""
	}
	return s.Doc.Info.Title
}

// Version returns the document's info.version.
func (s *Spec) Version() string {
	if s.Doc.Info == nil {
		return ""
	}
	return s.Doc.Info.Version
}

// Route finds the resource serving r and its decoded path parameters.
func (s *Spec) Route(r *http.Request) (*contract.Resource, map[string]string, error) {
	route, vars, err := s.router.FindRoute(r)
	if err != nil {
		switch {
		case errors.Is(err, routers.ErrMethodNotAllowed):
			return nil, nil, fmt.Errorf("%w: %s %s", ErrMethodNotAllowed, r.Method, r.URL.Path)
		case errors.Is(err, routers.ErrPathNotFound):
			return nil, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, r.URL.Path)
		}
		return nil, nil, err
	}

	res, ok := s.byOp[route.Operation]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrMethodNotAllowed, r.Method, r.URL.Path)
	}

	params := make(map[string]string, len(vars))
	for k, v := range vars {
		if decoded, err := url.PathUnescape(v); err == nil {
			v = decoded
		}
		params[k] = v
	}
	return res, params, nil
}

// Find routes a method and request target such as "/pets/1?limit=2".
func (s *Spec) Find(method, target string) (*contract.Resource, map[string]string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid request target %q: %w", target, err)
	}
	r := &http.Request{Method: strings.ToUpper(method), URL: u, Host: "localhost", Header: http.Header{}}
	return s.Route(r)
}

func upper(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToUpper(k)
	}
	return out
}
