package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/drugsgraph/internal/app"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

var (
	localAction string
	localOutput string
	localInput  string
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Create or update the drugs graph as a GraphML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := upsert.ParseMode(localAction)
		if err != nil {
			return fmt.Errorf("--action: %w", err)
		}
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.close(cmd.Context())

		if cmd.Flags().Changed("output") {
			e.cfg.GraphML.Output = localOutput
		}
		if cmd.Flags().Changed("graph-file") {
			e.cfg.GraphML.Input = localInput
		}

		d, err := app.LoadAndDerive(cmd.Context(), e.cfg, e.log)
		if err != nil {
			return err
		}
		g, err := app.OpenGraphML(e.cfg, mode, e.log)
		if err != nil {
			return err
		}
		if _, err := app.Publish(cmd.Context(), e.cfg, g, d.Graph(), e.log); err != nil {
			return err
		}
		return app.SaveGraphML(e.cfg, g, e.log)
	},
}

func init() {
	f := localCmd.Flags()
	f.StringVar(&localAction, "action", "create", "create or update")
	f.StringVar(&localOutput, "output", "", "GraphML file to write")
	f.StringVar(&localInput, "graph-file", "", "Existing GraphML file to merge into on update (defaults to --output)")
	rootCmd.AddCommand(localCmd)
}
