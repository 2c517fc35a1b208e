package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/httputil"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/mocker"
	"github.com/getmockd/oasmock/pkg/openapi"
	"github.com/getmockd/oasmock/pkg/validation"
)

// HeaderRequestID carries the request identifier.
const HeaderRequestID = "X-Request-Id"

// Option configures a Handler.
type Option func(*Handler)

// WithMockConfig sets the negotiation defaults that Prefer headers override.
func WithMockConfig(cfg mocker.Config) Option {
	return func(h *Handler) {
		h.cfg = cfg
	}
}

// WithMaxBodySize limits request bodies. Zero means unlimited.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		h.maxBody = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// Handler serves mock responses for every operation of a document.
type Handler struct {
	spec    *openapi.Spec
	mocker  *mocker.Mocker
	cfg     mocker.Config
	maxBody int64
	log     *slog.Logger
}

// NewHandler creates a Handler for spec.
func NewHandler(spec *openapi.Spec, m *mocker.Mocker, opts ...Option) *Handler {
	h := &Handler{
		spec:   spec,
		mocker: m,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderRequestID, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	diagnostics := h.serve(rec, r)

	h.log.Info("request",
		"id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
		"diagnostics", diagnostics,
	)
}

// serve answers r and returns the number of validation diagnostics.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request) int {
	res, params, err := h.spec.Route(r)
	if err != nil {
		switch {
		case errors.Is(err, openapi.ErrRouteNotFound):
			httputil.WriteNotFound(w, "route_not_found", err.Error())
		case errors.Is(err, openapi.ErrMethodNotAllowed):
			httputil.WriteMethodNotAllowed(w, "method_not_allowed", err.Error())
		default:
			h.log.Error("failed to route request", "error", err)
			httputil.WriteInternalError(w, "internal_error", err.Error())
		}
		return 0
	}

	req, err := NewRequest(r, params, h.maxBody)
	if err != nil {
		return h.writeBodyError(w, err)
	}

	cfg := parsePrefer(r.Header.Values("Prefer")).apply(h.cfg)
	resp, err := h.mocker.Mock(r.Context(), res, req, &cfg)
	if err != nil {
		h.writeError(w, res, err)
		return 0
	}

	h.write(w, r, resp)
	return len(resp.Diagnostics)
}

func (h *Handler) writeBodyError(w http.ResponseWriter, err error) int {
	var de *decodeError
	switch {
	case errors.As(err, &de):
		d := validation.NewInvalidBodyDiagnostic(de.mediaType, de.err)
		httputil.WriteProblem(w, httputil.Problem{
			Type:       mocker.TypeValidationError,
			Title:      "Invalid request",
			Status:     http.StatusUnprocessableEntity,
			Detail:     d.Error(),
			Validation: validation.Diagnostics{d},
		})
		return 1
	case errors.Is(err, errBodyTooLarge):
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
	default:
		httputil.WriteError(w, http.StatusBadRequest, "unreadable_body", err.Error())
	}
	return 0
}

func (h *Handler) writeError(w http.ResponseWriter, res *contract.Resource, err error) {
	var pe *mocker.ProblemError
	switch {
	case errors.As(err, &pe):
		httputil.WriteProblem(w, httputil.Problem{
			Type:   pe.Type,
			Title:  pe.Title,
			Status: pe.Status,
			Detail: pe.Detail,
		})
	case errors.Is(err, context.Canceled):
		h.log.Debug("request canceled", "resource", res.ID)
	default:
		h.log.Error("failed to mock response", "resource", res.ID, "error", err)
		httputil.WriteInternalError(w, "internal_error", err.Error())
	}
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, resp *mocker.Response) {
	var schema contract.Schema
	if resp.Content != nil {
		schema = resp.Content.Schema
	}
	data, err := encodeBody(mediatype.Normalize(resp.MediaType), resp.Body, schema)
	if err != nil {
		h.log.Error("failed to encode response", "mediaType", resp.MediaType, "error", err)
		httputil.WriteInternalError(w, "encode_failed", err.Error())
		return
	}

	header := w.Header()
	for k, vs := range resp.Headers {
		header[k] = vs
	}
	if len(data) > 0 {
		header.Set("Content-Length", strconv.Itoa(len(data)))
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
