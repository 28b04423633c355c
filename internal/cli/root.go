package cli

import (
    "fmt"

    "github.com/spf13/cobra"
)

// Version is reported by --version.
var Version = "dev"

// Execute runs the swaggerdocs CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:           "swaggerdocs",
        Short:         "Compile type and route catalogs into Swagger 2.0 documents",
        Long:          "swaggerdocs compiles a catalog of named types and documented routes into a Swagger 2.0 document, JSON Schemas, and an optional OpenAPI 3 conversion, and can serve them with a Swagger UI.",
        Version:       Version,
        SilenceErrors: true,
        SilenceUsage:  true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return cmd.Help()
        },
    }

    // Convert Cobra flag errors (like unknown flags) into friendly usage errors
    // that also show the command's help text.
    cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
        return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
    })

    cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
    cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

    g := newGenerateCmd()
    g.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
        return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
    })
    cmd.AddCommand(g)

    i := newInitCmd()
    i.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
        return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
    })
    cmd.AddCommand(i)

    srv := newServeCmd()
    srv.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
        return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
    })
    cmd.AddCommand(srv)

    return cmd
}
