package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/oasmock/pkg/config"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/openapi"
	"github.com/getmockd/oasmock/pkg/server"
)

type serveOptions struct {
	listen    string
	dynamic   bool
	logLevel  string
	logFormat string
	seed      uint64
	noCORS    bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve [spec]",
		Short: "Start the mock server",
		Long: `Start an HTTP server answering every operation of an OpenAPI document.

Clients can steer each response with the Prefer header:
  Prefer: code=404             answer with the 404 response
  Prefer: example=second       use a named example
  Prefer: dynamic=true         generate the body from the schema`,
		Example: `  # Serve a document on the default address (:4010)
  oasmock serve petstore.yaml

  # Generate bodies instead of using examples
  oasmock serve petstore.yaml --dynamic

  # Use a configuration file
  oasmock serve -c oasmock.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var specArg string
			if len(args) > 0 {
				specArg = args[0]
			}
			cfg, err := loadConfig(root, specArg)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.listen, "listen", "l", config.DefaultListen, "Listen address")
	f.BoolVarP(&opts.dynamic, "dynamic", "d", false, "Generate response bodies from schemas")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed for generated values")
	f.BoolVar(&opts.noCORS, "no-cors", false, "Disable CORS handling")
	return cmd
}

// apply overlays explicitly set flags on cfg; flags win over file and env.
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("listen") {
		cfg.Listen = o.listen
	}
	if f.Changed("dynamic") {
		cfg.Mock.Dynamic = o.dynamic
	}
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if f.Changed("seed") {
		cfg.Generator.Seed = o.seed
	}
	if f.Changed("no-cors") && o.noCORS {
		cfg.Server.CORS = &config.CORSConfig{Enabled: false}
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	log, closer, err := logging.Open(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	spec, err := loadSpec(ctx, cfg, logging.Component(log, "openapi"))
	if err != nil {
		return err
	}
	m, err := newMocker(cfg, log)
	if err != nil {
		return err
	}

	handler := server.NewHandler(spec, m,
		server.WithMockConfig(cfg.Mock),
		server.WithMaxBodySize(cfg.Server.MaxBodySize),
		server.WithLogger(logging.Component(log, "http")),
	)
	srv := server.New(cfg.Listen, handler, cfg.Server, log)
	if err := srv.Listen(); err != nil {
		return err
	}

	printRoutes(cmd, spec, srv.Addr())
	return srv.Serve(ctx)
}

func printRoutes(cmd *cobra.Command, spec *openapi.Spec, addr net.Addr) {
	w := cmd.OutOrStdout()
	base := "http://" + displayAddr(addr)
	fmt.Fprintf(w, "%s %s mocked at %s\n", spec.Title(), spec.Version(), base)
	for _, res := range spec.Resources {
		fmt.Fprintf(w, "  %-7s %s%s\n", res.Method, base, res.Path)
	}
}

// displayAddr replaces an unspecified host with localhost.
func displayAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), port)
}
