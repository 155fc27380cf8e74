package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compare-mcp/internal/config"
	"github.com/ironsheep/image-compare-mcp/internal/server"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison tools over MCP on stdin/stdout",
		Long: `Serve the image comparison tools using the Model Context Protocol.

Requests are read from stdin and responses written to stdout, one JSON-RPC
message per line. Configure the binary as a stdio server in your MCP client.
The optional profile supplies defaults for every image_compare call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Comparison profile (.yaml, .yml, .json, .jsonc)")
	return cmd
}

func runServe(configPath string) error {
	profile, err := loadProfile(configPath)
	if err != nil {
		return err
	}

	VerboseLog("serving MCP on stdio (baseline dirs: %v)", profile.BaselineDirs)
	srv := server.New(profile, Version)
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		return WrapCLIError(ExitError, "server stopped", err)
	}
	return nil
}

// loadProfile reads the profile at path, or returns the default profile when
// path is empty.
func loadProfile(path string) (*config.Profile, error) {
	if path == "" {
		return config.Default(), nil
	}
	VerboseLog("loading profile %s", path)
	p, err := config.Load(path)
	if err != nil {
		return nil, WrapCLIError(ExitError, fmt.Sprintf("cannot load profile %s", path), err)
	}
	return p, nil
}
