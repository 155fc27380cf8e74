// Package cli implements the cobra-based CLI commands for image-compare-mcp.
//
// The binary is primarily an MCP server, so running it without a subcommand
// serves MCP over stdio. The compare subcommand runs a single comparison from
// the shell and reports the outcome through its exit status, which makes it
// usable directly in CI scripts.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flag variables shared across all subcommands.
var (
	// jsonOutput switches command output, including errors, to JSON.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr.
	verbose bool
)

// Build metadata, injected from the main package.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// Without a subcommand the root command behaves like serve.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "image-compare-mcp",
		Short: "Visual regression image comparison over MCP",
		Long: `image-compare-mcp compares an actual image against an expected baseline,
groups the differing pixels into non-overlapping rectangles and draws them
onto the actual image.

Run without arguments to serve the comparison tools over MCP on stdin/stdout,
or use "compare" for a one-off comparison from the shell.

Environment variables:
  IMAGE_MCP_LOG_LEVEL=debug    Enable debug logging`,

		// Errors and usage are printed by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Comparison profile (.yaml, .yml, .json, .jsonc)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewCompareCommand())

	return rootCmd
}

// Execute runs the root command and exits with the status its error maps to.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	code := exitCodeFor(err)
	if err != nil {
		if cliErr, ok := err.(*CLIError); !ok || cliErr.Message != "" || cliErr.Err != nil {
			printError(err)
		}
	}
	os.Exit(int(code))
}

// printError writes err to stderr as text or, with --json, as a JSON object.
func printError(err error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
				"code":    int(exitCodeFor(err)),
			},
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
