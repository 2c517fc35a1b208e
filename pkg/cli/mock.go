package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/oasmock/pkg/cli/internal/output"
	"github.com/getmockd/oasmock/pkg/cli/internal/parse"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/mocker"
	"github.com/getmockd/oasmock/pkg/server"
)

// ErrInvalidHeader is returned for a -H value without a "Name: value" shape.
var ErrInvalidHeader = errors.New("invalid header, expected \"Name: value\"")

type mockOptions struct {
	code        string
	example     string
	mediaTypes  []string
	dynamic     bool
	accept      string
	headers     []string
	data        string
	contentType string
}

func newMockCmd(root *rootOptions) *cobra.Command {
	opts := &mockOptions{}

	cmd := &cobra.Command{
		Use:   "mock <spec> <METHOD> <path>",
		Short: "Negotiate a single response and print it as JSON",
		Long: `Route a request through the document and print the negotiated response
without starting a server. The output holds the status code, headers, media
type, body and validation diagnostics.`,
		Example: `  # Default response of an operation
  oasmock mock petstore.yaml GET /pets

  # A specific status code and example
  oasmock mock petstore.yaml GET /pets/1 --code 404
  oasmock mock petstore.yaml GET /pets/1 --example tom

  # Validate a request body
  oasmock mock petstore.yaml POST /pets -d '{"name":"Rex"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dynamic") {
				cfg.Mock.Dynamic = opts.dynamic
			}

			logCfg := cfg.LoggingConfig()
			logCfg.Output = cmd.ErrOrStderr()
			log := logging.New(logCfg)
			spec, err := loadSpec(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			m, err := newMocker(cfg, log)
			if err != nil {
				return err
			}

			r, err := opts.request(cmd, args[1], args[2])
			if err != nil {
				return err
			}
			res, params, err := spec.Route(r)
			if err != nil {
				return err
			}
			req, err := server.NewRequest(r, params, cfg.Server.MaxBodySize)
			if err != nil {
				return err
			}

			mockCfg := cfg.Mock.Merge(&mocker.Config{
				Dynamic:    cfg.Mock.Dynamic,
				MediaTypes: opts.acceptedMediaTypes(),
				Code:       opts.code,
				ExampleKey: opts.example,
			})
			resp, err := m.Mock(cmd.Context(), res, req, &mockCfg)
			if err != nil {
				return fmt.Errorf("%s %s: %w", res.Method, res.Path, err)
			}
			return output.JSON(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.code, "code", "", "Status code of the response to select")
	f.StringVar(&opts.example, "example", "", "Name of the example to use")
	f.StringArrayVar(&opts.mediaTypes, "media-type", nil, "Acceptable response media types, comma separated or repeated (overrides --accept)")
	f.BoolVar(&opts.dynamic, "dynamic", false, "Generate the body from the schema")
	f.StringVar(&opts.accept, "accept", "", "Accept header of the request")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "Request header \"Name: value\" (repeatable)")
	f.StringVarP(&opts.data, "data", "d", "", "Request body")
	f.StringVar(&opts.contentType, "content-type", "application/json", "Media type of --data")
	return cmd
}

// acceptedMediaTypes flattens the --media-type values.
func (o *mockOptions) acceptedMediaTypes() []string {
	var out []string
	for _, v := range o.mediaTypes {
		out = append(out, parse.SplitTrim(v, ",")...)
	}
	return out
}

// request builds the HTTP request described by the flags.
func (o *mockOptions) request(cmd *cobra.Command, method, target string) (*http.Request, error) {
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	var body io.Reader
	if o.data != "" {
		body = strings.NewReader(o.data)
	}
	r, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(method), "http://localhost"+target, body)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	for _, h := range o.headers {
		name, value, ok := parse.Header(h)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, h)
		}
		r.Header.Add(name, value)
	}
	if o.accept != "" {
		r.Header.Set("Accept", o.accept)
	}
	if o.data != "" && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", o.contentType)
	}
	return r, nil
}
