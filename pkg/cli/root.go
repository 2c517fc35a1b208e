package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	jsonOutput bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "oasmock",
		Short: "oasmock serves mock responses from an OpenAPI document",
		Long: `oasmock turns an OpenAPI 3 document into a mock HTTP server.

Requests are validated against the operation's parameters and body. Responses
come from the document's examples or are generated from the response schemas.

Configuration can be provided via flags, environment variables (OASMOCK_*), or
a YAML configuration file passed with --config.`,
		// No Run function here means 'oasmock' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		newServeCmd(opts),
		newMockCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
