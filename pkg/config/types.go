package config

import (
	"github.com/getmockd/oasmock/pkg/generator"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/mocker"
)

// DefaultListen is the default listen address.
const DefaultListen = ":4010"

// Config is the top-level oasmock configuration.
type Config struct {
	// Spec is the path or URL of the OpenAPI document.
	Spec string `json:"spec,omitempty" yaml:"spec,omitempty"`

	// Listen is the HTTP listen address. Default: ":4010"
	Listen string `json:"listen" yaml:"listen"`

	Log        LogConfig        `json:"log" yaml:"log"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Generator  GeneratorConfig  `json:"generator" yaml:"generator"`
	Server     ServerConfig     `json:"server" yaml:"server"`

	// Mock holds the default negotiation overrides applied to every request.
	Mock mocker.Config `json:"mock" yaml:"mock"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `json:"level" yaml:"level"`
	// Format is text or json. Default: text
	Format string `json:"format" yaml:"format"`
	// File receives a JSON copy of every record when set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// AddSource adds the source location to records.
	AddSource bool `json:"addSource,omitempty" yaml:"addSource,omitempty"`
}

// ValidationConfig configures request validation.
type ValidationConfig struct {
	// Enabled turns request validation on. Default: true
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Draft is the JSON Schema draft: draft4, draft6, draft7, draft2019, draft2020.
	Draft string `json:"draft" yaml:"draft"`
	// AssertFormat makes "format" an assertion instead of an annotation.
	AssertFormat bool `json:"assertFormat,omitempty" yaml:"assertFormat,omitempty"`
	// StrictExamples validates document examples against their schemas on load.
	StrictExamples bool `json:"strictExamples,omitempty" yaml:"strictExamples,omitempty"`
}

// IsEnabled reports whether validation is on.
func (v ValidationConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// GeneratorConfig configures dynamic body generation.
type GeneratorConfig struct {
	// Seed makes generated values reproducible. Default: generator.DefaultSeed
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	// FieldHeuristics derives string values from property names. Default: true
	FieldHeuristics *bool `json:"fieldHeuristics,omitempty" yaml:"fieldHeuristics,omitempty"`
}

// Options converts the configuration to generator options.
func (g GeneratorConfig) Options() []generator.Option {
	opts := []generator.Option{generator.WithSeed(g.Seed)}
	if g.FieldHeuristics != nil {
		opts = append(opts, generator.WithFieldHeuristics(*g.FieldHeuristics))
	}
	return opts
}

// ServerConfig defines the HTTP server runtime settings.
type ServerConfig struct {
	// ReadTimeout is the HTTP read timeout in seconds. Default: 30
	ReadTimeout int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// WriteTimeout is the HTTP write timeout in seconds. Default: 30
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// ShutdownTimeout bounds graceful shutdown, in seconds. Default: 5
	ShutdownTimeout int `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
	// MaxBodySize is the maximum request body size in bytes. Default: 10 MiB
	MaxBodySize int64 `json:"maxBodySize,omitempty" yaml:"maxBodySize,omitempty"`
	// CORS configures Cross-Origin Resource Sharing.
	CORS *CORSConfig `json:"cors,omitempty" yaml:"cors,omitempty"`
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled enables CORS handling. When false, no CORS headers are added.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// AllowOrigins specifies allowed origins. Use "*" for any origin.
	AllowOrigins []string `json:"allowOrigins,omitempty" yaml:"allowOrigins,omitempty"`
	// AllowMethods specifies allowed HTTP methods.
	AllowMethods []string `json:"allowMethods,omitempty" yaml:"allowMethods,omitempty"`
	// AllowHeaders specifies allowed request headers.
	AllowHeaders []string `json:"allowHeaders,omitempty" yaml:"allowHeaders,omitempty"`
	// ExposeHeaders specifies headers that browsers are allowed to access.
	ExposeHeaders []string `json:"exposeHeaders,omitempty" yaml:"exposeHeaders,omitempty"`
	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `json:"allowCredentials,omitempty" yaml:"allowCredentials,omitempty"`
	// MaxAge is the preflight cache duration in seconds. Default: 86400 (24 hours)
	MaxAge int `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
		Validation: ValidationConfig{
			Draft: "draft2020",
		},
		Generator: GeneratorConfig{
			Seed: generator.DefaultSeed,
		},
		Server: ServerConfig{
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
			MaxBodySize:     10 << 20,
			CORS:            DefaultCORSConfig(),
		},
	}
}

// DefaultCORSConfig returns a permissive CORS configuration. A mock server is
// usually called from local front-ends on arbitrary ports.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:      true,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "Prefer"},
		MaxAge:       86400,
	}
}

// LoggingConfig converts the log section to a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Log.Level)
	lc.Format = logging.ParseFormat(c.Log.Format)
	lc.File = c.Log.File
	lc.AddSource = c.Log.AddSource
	return lc
}

// GetAllowOriginValue returns the Access-Control-Allow-Origin value for the
// given request origin. Returns empty string if origin is not allowed.
func (c *CORSConfig) GetAllowOriginValue(requestOrigin string) string {
	if c == nil || !c.Enabled {
		return ""
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			// Cannot use * with credentials
			if c.AllowCredentials {
				return requestOrigin
			}
			return "*"
		}
	}

	for _, allowed := range c.AllowOrigins {
		if allowed == requestOrigin {
			return requestOrigin
		}
	}
	return ""
}
