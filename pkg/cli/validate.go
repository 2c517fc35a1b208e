package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/oasmock/pkg/cli/internal/output"
	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/logging"
)

// operationSummary is the JSON shape of one listed operation.
type operationSummary struct {
	ID        string   `json:"id"`
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	Responses []string `json:"responses"`
}

type validateResult struct {
	Title      string             `json:"title"`
	Version    string             `json:"version"`
	Operations []operationSummary `json:"operations"`
	Warnings   []string           `json:"warnings,omitempty"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>",
		Short: "Load an OpenAPI document and list its operations",
		Long: `Load an OpenAPI document, check it, and list the operations it mocks.
Exits non-zero when the document cannot be loaded.

Operations without a client error response are reported: a request failing
validation against them is answered with 500.`,
		Example: `  oasmock validate petstore.yaml
  oasmock validate petstore.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, args[0])
			if err != nil {
				return err
			}
			logCfg := cfg.LoggingConfig()
			logCfg.Output = cmd.ErrOrStderr()
			spec, err := loadSpec(cmd.Context(), cfg, logging.New(logCfg))
			if err != nil {
				return err
			}

			result := validateResult{Title: spec.Title(), Version: spec.Version()}
			for _, res := range spec.Resources {
				result.Operations = append(result.Operations, summarize(res))
				if !hasClientError(res) {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("%s declares no 4xx response; invalid requests are answered with 500", res.ID))
				}
			}

			w := cmd.OutOrStdout()
			if root.jsonOutput {
				return output.JSON(w, result)
			}

			fmt.Fprintf(w, "%s %s: %d operations\n\n", result.Title, result.Version, len(result.Operations))
			tw := output.Table(w)
			fmt.Fprintln(tw, "METHOD\tPATH\tID\tRESPONSES")
			for _, op := range result.Operations {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Method, op.Path, op.ID, strings.Join(op.Responses, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				output.Warn(cmd.ErrOrStderr(), "%s", warning)
			}
			return nil
		},
	}
}

func summarize(res *contract.Resource) operationSummary {
	codes := make([]string, len(res.Responses))
	for i := range res.Responses {
		codes[i] = res.Responses[i].Code
	}
	return operationSummary{ID: res.ID, Method: res.Method, Path: res.Path, Responses: codes}
}

func hasClientError(res *contract.Resource) bool {
	for i := range res.Responses {
		if res.Responses[i].IsClientError() {
			return true
		}
	}
	return false
}
