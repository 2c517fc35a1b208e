package mocker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/generator"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/validation"
)

// Option configures a Mocker.
type Option func(*Mocker)

// WithValidator enables request validation. Without it every request is
// treated as valid.
func WithValidator(v *validation.RequestValidator) Option {
	return func(m *Mocker) {
		m.validator = v
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mocker) {
		if log != nil {
			m.log = log
		}
	}
}

// Mocker negotiates responses. It holds no per-request state and is safe for
// concurrent use.
type Mocker struct {
	gen       generator.Generator
	validator *validation.RequestValidator
	log       *slog.Logger
}

// New creates a Mocker. A nil generator defaults to generator.New().
func New(gen generator.Generator, opts ...Option) *Mocker {
	if gen == nil {
		gen = generator.New()
	}
	m := &Mocker{
		gen: gen,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mock negotiates the response for req against res. A nil cfg means no
// overrides. Negotiation faults are *ProblemError values; generator and
// validator failures are wrapped and returned.
func (m *Mocker) Mock(ctx context.Context, res *contract.Resource, req *contract.Request, cfg *Config) (*Response, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if req == nil {
		req = &contract.Request{}
	}

	var diags validation.Diagnostics
	if m.validator != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := m.validator.Validate(ctx, res, req)
		if err != nil {
			return nil, fmt.Errorf("failed to validate request: %w", err)
		}
		diags = found
	}
	if diags.HasErrors() {
		m.log.Debug("request failed validation", "resource", res.ID, "errors", len(diags.Errors()))
		return m.mockInvalid(ctx, res, req, cfg, diags)
	}

	def, err := selectResponse(res, cfg.Code)
	if err != nil {
		return nil, err
	}
	ranges, explicit := acceptable(cfg, req)
	content, err := selectContent(def, ranges, explicit)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode:  def.StatusCode(http.StatusOK),
		Code:        def.Code,
		Headers:     make(http.Header),
		Content:     content,
		Diagnostics: diags,
	}
	if content != nil {
		resp.MediaType = content.MediaType
		resp.Headers.Set("Content-Type", content.MediaType)
		if resp.Body, resp.Example, err = m.body(ctx, content, cfg); err != nil {
			return nil, err
		}
	}
	if err := m.headers(ctx, def, resp.Headers); err != nil {
		return nil, err
	}

	m.log.Debug("negotiated response",
		"resource", res.ID, "code", def.Code, "mediaType", resp.MediaType, "example", exampleKey(resp.Example))
	return resp, nil
}

// mockInvalid answers a request that failed validation from the client
// error response. Media negotiation is best effort: an unacceptable Accept
// falls back to the first declared content.
func (m *Mocker) mockInvalid(ctx context.Context, res *contract.Resource, req *contract.Request, cfg *Config, diags validation.Diagnostics) (*Response, error) {
	def, ok := selectErrorResponse(res)
	if !ok {
		return nil, ErrMissingErrorResponse.withDetail("%s %s: %s", res.Method, res.Path, diags.Summary())
	}

	ranges, explicit := acceptable(cfg, req)
	content, err := selectContent(def, ranges, explicit)
	if err != nil {
		content = &def.Contents[0]
	}

	resp := &Response{
		StatusCode:  def.StatusCode(http.StatusUnprocessableEntity),
		Code:        def.Code,
		Headers:     make(http.Header),
		Content:     content,
		Diagnostics: diags,
	}

	switch {
	case content == nil:
		resp.MediaType = ProblemMediaType
		resp.Body = validationProblem(resp.StatusCode, diags)
	case len(content.Examples) > 0:
		resp.MediaType = content.MediaType
		resp.Example = &content.Examples[0]
		resp.Body = resp.Example.Value
	case content.Schema != nil:
		resp.MediaType = content.MediaType
		if resp.Body, err = m.generate(ctx, content.Schema); err != nil {
			return nil, err
		}
	default:
		resp.MediaType = content.MediaType
		resp.Body = validationProblem(resp.StatusCode, diags)
	}
	resp.Headers.Set("Content-Type", resp.MediaType)

	if err := m.headers(ctx, def, resp.Headers); err != nil {
		return nil, err
	}
	return resp, nil
}

// body produces the payload of content: generated in dynamic mode or when
// there are no examples, otherwise the selected example.
func (m *Mocker) body(ctx context.Context, content *contract.Content, cfg *Config) (any, *contract.Example, error) {
	if cfg.Dynamic || len(content.Examples) == 0 {
		body, err := m.generate(ctx, content.Schema)
		return body, nil, err
	}

	if cfg.ExampleKey != "" {
		ex, ok := content.FindExample(cfg.ExampleKey)
		if !ok {
			return nil, nil, ErrExampleNotFound.withDetail("no example named %q for %s", cfg.ExampleKey, content.MediaType)
		}
		return ex.Value, ex, nil
	}
	return content.Examples[0].Value, &content.Examples[0], nil
}

// headers adds the declared response headers: the example when present,
// otherwise a value generated from the header schema.
func (m *Mocker) headers(ctx context.Context, def *contract.ResponseDef, dst http.Header) error {
	for _, h := range def.Headers {
		value := h.Example
		if value == nil {
			if h.Schema == nil {
				continue
			}
			generated, err := m.generate(ctx, h.Schema)
			if err != nil {
				return fmt.Errorf("header %s: %w", h.Name, err)
			}
			value = generated
		}
		if value == nil {
			continue
		}
		dst.Set(h.Name, headerValue(value))
	}
	return nil
}

func (m *Mocker) generate(ctx context.Context, schema contract.Schema) (any, error) {
	if schema == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := m.gen.Generate(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate body: %w", err)
	}
	return v, nil
}

// headerValue serializes a value with the simple style: arrays and objects
// become comma-separated lists.
func headerValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i := range t {
			parts[i] = headerValue(t[i])
		}
		return strings.Join(parts, ",")
	case map[string]any:
		parts := make([]string, 0, 2*len(t))
		for _, k := range sortedKeys(t) {
			parts = append(parts, k, headerValue(t[k]))
		}
		return strings.Join(parts, ",")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func exampleKey(ex *contract.Example) string {
	if ex == nil {
		return ""
	}
	return ex.Key
}
