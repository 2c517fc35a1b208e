package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getmockd/oasmock/pkg/config"
	"github.com/getmockd/oasmock/pkg/generator"
	"github.com/getmockd/oasmock/pkg/logging"
	"github.com/getmockd/oasmock/pkg/mocker"
	"github.com/getmockd/oasmock/pkg/openapi"
	"github.com/getmockd/oasmock/pkg/validation"
	"github.com/getmockd/oasmock/pkg/validation/deserialize"
)

// loadConfig reads the configuration file (if any) and environment, then
// uses the document argument, when given, as cfg.Spec.
func loadConfig(opts *rootOptions, specArg string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if specArg != "" {
		cfg.Spec = specArg
	}
	return cfg, nil
}

// loadSpec loads the document named by cfg.Spec.
func loadSpec(ctx context.Context, cfg *config.Config, log *slog.Logger) (*openapi.Spec, error) {
	if cfg.Spec == "" {
		return nil, fmt.Errorf("%w: no OpenAPI document given", config.ErrInvalidConfig)
	}
	return openapi.LoadFile(ctx, cfg.Spec,
		openapi.WithStrictExamples(cfg.Validation.StrictExamples),
		openapi.WithLogger(log),
	)
}

// newMocker wires the generator and, when enabled, the request validator.
func newMocker(cfg *config.Config, log *slog.Logger) (*mocker.Mocker, error) {
	opts := []mocker.Option{mocker.WithLogger(logging.Component(log, "mocker"))}

	if cfg.Validation.IsEnabled() {
		draft, err := validation.ParseDraft(cfg.Validation.Draft)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		schemas := validation.NewJSONSchemaValidator(
			validation.WithDraft(draft),
			validation.WithFormatAssertion(cfg.Validation.AssertFormat),
		)
		validator := validation.NewRequestValidator(deserialize.NewDefaultRegistry(), schemas)
		validator.SetLogger(logging.Component(log, "validation"))
		opts = append(opts, mocker.WithValidator(validator))
	}

	return mocker.New(generator.New(cfg.Generator.Options()...), opts...), nil
}
