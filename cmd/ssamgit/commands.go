package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bashhack/ssamgit/internal/output"
)

// newRootCmd builds the command tree. Running ssamgit without a subcommand
// starts the server.
func newRootCmd(ctx context.Context, app *App) *cobra.Command {
	serve := func(cmd *cobra.Command, _ []string) error {
		if err := app.Config.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}
		return app.Serve(ctx)
	}

	root := &cobra.Command{
		Use:   "ssamgit",
		Short: "Commit a sketch's project directory from the browser",
		Long: `ssamgit is a small development server for browser sketches.

A sketch connected to its websocket sends ssam:git (for example on CMD+K);
ssamgit stages and commits the project directory and answers with the short
commit hash so the sketch can tag an exported frame with it.`,
		Version:       app.Config.VersionInfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve,
	}
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	app.Config.SetupFlags(root.PersistentFlags())
	app.Config.SetupServerFlags(root.Flags())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket and commit on request (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	app.Config.SetupServerFlags(serveCmd.Flags())

	root.AddCommand(serveCmd)
	root.AddCommand(newSnapshotCmd(ctx, app))
	root.AddCommand(newVersionCmd(app))

	return root
}

func newSnapshotCmd(ctx context.Context, app *App) *cobra.Command {
	var (
		data         string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Commit the project directory once and print the hash",
		Long: `Run the same status, add, commit and rev-parse sequence a browser request
triggers, without a server. --data is echoed back with the hash added.`,
		Example: `  ssamgit snapshot
  ssamgit snapshot --data '{"canvasId":"sketch","filename":"frame.png"}' -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			if err := app.Config.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			return app.Snapshot(ctx, data, format)
		},
	}

	cmd.Flags().StringVar(&data, "data", "{}", "Request payload as a JSON object")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ShowVersion()
		},
	}
}
