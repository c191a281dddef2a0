package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/drugsgraph/internal/app"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

var (
	storeAction string
	storeDriver string
	storeDSN    string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Write a snapshot of the drugs graph into sqlite or postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := upsert.ParseMode(storeAction)
		if err != nil {
			return fmt.Errorf("--action: %w", err)
		}
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.close(cmd.Context())

		if cmd.Flags().Changed("driver") {
			e.cfg.Store.Driver = storeDriver
		}
		if cmd.Flags().Changed("dsn") {
			e.cfg.Store.DSN = storeDSN
		}

		d, err := app.LoadAndDerive(cmd.Context(), e.cfg, e.log)
		if err != nil {
			return err
		}
		s, err := app.OpenStore(e.cfg, mode, e.log)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := app.Publish(cmd.Context(), e.cfg, s, d.Graph(), e.log); err != nil {
			return err
		}
		nodes, edges, err := s.Counts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot holds %d nodes and %d edges\n", nodes, edges)
		return nil
	},
}

func init() {
	f := storeCmd.Flags()
	f.StringVar(&storeAction, "action", "create", "create or update")
	f.StringVar(&storeDriver, "driver", "", "sqlite or postgres")
	f.StringVar(&storeDSN, "dsn", "", "Database DSN (file path for sqlite)")
	rootCmd.AddCommand(storeCmd)
}
