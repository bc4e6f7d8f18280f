package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded and the logger attached to the command context
// before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "editplot saves plots as editable JSON and redraws them",
		Long:         `editplot records the lines, scatter points, bars and images of a figure as a JSON document that can be edited by hand and rendered back into an equivalent figure.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/editplot/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportDemoCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.roundtripCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
