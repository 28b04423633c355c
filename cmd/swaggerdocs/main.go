package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/swaggerdocs/internal/cli"
)

// Version info injected at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cli.Version = fmt.Sprintf("%s (commit: %s)", Version, GitCommit)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
