package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/oasmock/pkg/config"
)

var defaultCORSMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodOptions, http.MethodHead,
}

// defaultCORSMaxAge is one day, in seconds.
const defaultCORSMaxAge = 86400

// WithCORS answers preflight requests and decorates the responses of next
// with the access control headers cfg allows. A nil cfg means
// config.DefaultCORSConfig; a disabled one returns next as is.
func WithCORS(next http.Handler, cfg *config.CORSConfig) http.Handler {
	if cfg == nil {
		cfg = config.DefaultCORSConfig()
	}
	if !cfg.Enabled {
		return next
	}
	c := &cors{cfg: cfg, methods: strings.Join(defaultCORSMethods, ", "), maxAge: defaultCORSMaxAge}
	if len(cfg.AllowMethods) > 0 {
		c.methods = strings.Join(cfg.AllowMethods, ", ")
	}
	if cfg.MaxAge > 0 {
		c.maxAge = cfg.MaxAge
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := cfg.GetAllowOriginValue(r.Header.Get("Origin"))
		if origin != "" {
			c.decorate(w.Header(), origin)
		}
		if !isPreflight(r) {
			next.ServeHTTP(w, r)
			return
		}
		if origin == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		c.preflight(w.Header(), r.Header.Get("Access-Control-Request-Headers"))
		w.WriteHeader(http.StatusNoContent)
	})
}

type cors struct {
	cfg     *config.CORSConfig
	methods string
	maxAge  int
}

func (c *cors) decorate(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	if origin != "*" {
		h.Add("Vary", "Origin")
	}
	if c.cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if len(c.cfg.ExposeHeaders) > 0 {
		h.Set("Access-Control-Expose-Headers", strings.Join(c.cfg.ExposeHeaders, ", "))
	}
}

// preflight adds the headers of a preflight answer. Without configured
// headers the requested ones are echoed.
func (c *cors) preflight(h http.Header, requested string) {
	h.Set("Access-Control-Allow-Methods", c.methods)
	switch {
	case len(c.cfg.AllowHeaders) > 0:
		h.Set("Access-Control-Allow-Headers", strings.Join(c.cfg.AllowHeaders, ", "))
	case requested != "":
		h.Set("Access-Control-Allow-Headers", requested)
	}
	h.Set("Access-Control-Max-Age", strconv.Itoa(c.maxAge))
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
