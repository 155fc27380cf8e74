package main

import (
	"log"
	"os"

	"github.com/ironsheep/image-compare-mcp/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("IMAGE_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Image Compare MCP v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cli.Version = Version
	cli.BuildTime = BuildTime
	cli.GitCommit = GitCommit

	cli.Execute(cli.NewRootCommand())
}
