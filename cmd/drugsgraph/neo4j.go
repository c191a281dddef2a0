package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/drugsgraph/internal/app"
	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

var (
	neo4jAction   string
	neo4jNodeType string
	neo4jNodeName string
)

var neo4jCmd = &cobra.Command{
	Use:   "neo4j",
	Short: "Create, update or delete the drugs graph in Neo4j",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if neo4jAction == "delete" {
			return runNeo4jDelete(cmd)
		}
		mode, err := upsert.ParseMode(neo4jAction)
		if err != nil {
			return fmt.Errorf("--action: %w", err)
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.close(cmd.Context())

		d, err := app.LoadAndDerive(cmd.Context(), e.cfg, e.log)
		if err != nil {
			return err
		}
		sink, err := app.OpenNeo4j(cmd.Context(), e.cfg, mode, e.log)
		if err != nil {
			return err
		}
		defer sink.Close(cmd.Context())

		_, err = app.Publish(cmd.Context(), e.cfg, sink, d.Graph(), e.log)
		return err
	},
}

func runNeo4jDelete(cmd *cobra.Command) error {
	t, err := domain.ParseNodeType(neo4jNodeType)
	if err != nil {
		return fmt.Errorf("--type: %w", err)
	}
	if neo4jNodeName == "" {
		return fmt.Errorf("--name is required for delete")
	}

	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close(cmd.Context())

	sink, err := app.OpenNeo4j(cmd.Context(), e.cfg, upsert.ModeCreate, e.log)
	if err != nil {
		return err
	}
	defer sink.Close(cmd.Context())

	n, err := sink.DeleteNode(cmd.Context(), t, neo4jNodeName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d node(s)\n", n)
	return nil
}

func init() {
	f := neo4jCmd.Flags()
	f.StringVar(&neo4jAction, "action", "create", "create, update or delete")
	f.StringVar(&neo4jNodeType, "type", "", "Node type to delete (e.g. Drug, Parent)")
	f.StringVar(&neo4jNodeName, "name", "", "Node name to delete")
	rootCmd.AddCommand(neo4jCmd)
}
