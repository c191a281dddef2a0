package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yungbote/drugsgraph/internal/app"
	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/taxonomy"
)

var deriveStats bool

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive the classification edges and print them as TSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.close(cmd.Context())

		d, err := app.LoadAndDerive(cmd.Context(), e.cfg, e.log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if deriveStats {
			return writeStats(out, taxonomy.CountLevels(d.Paths()))
		}
		edges := d.Edges.Sorted()
		edges = append(edges, d.DiseaseEdges.Sorted()...)
		return writeEdges(out, edges)
	},
}

func init() {
	deriveCmd.Flags().BoolVar(&deriveStats, "stats", false, "Print the number of drugs per taxonomy level instead of edges")
	rootCmd.AddCommand(deriveCmd)
}

func writeEdges(w io.Writer, edges []domain.Edge) error {
	if _, err := fmt.Fprintln(w, "from_type\tfrom_name\tto_type\tto_name\trelationship"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.FromType, e.FromName, e.ToType, e.ToName, e.RelationshipLabel()); err != nil {
			return err
		}
	}
	return nil
}

// writeStats prints one block per level, most populated names first.
func writeStats(w io.Writer, c taxonomy.LevelCounts) error {
	levels := []struct {
		t domain.NodeType
		m map[string]int
	}{
		{domain.NodeKingdom, c.Kingdoms},
		{domain.NodeSuperclass, c.Superclasses},
		{domain.NodeClass, c.Classes},
		{domain.NodeSubclass, c.Subclasses},
	}
	for _, lvl := range levels {
		names := make([]string, 0, len(lvl.m))
		for n := range lvl.m {
			names = append(names, n)
		}
		sort.Slice(names, func(i, j int) bool {
			if lvl.m[names[i]] != lvl.m[names[j]] {
				return lvl.m[names[i]] > lvl.m[names[j]]
			}
			return names[i] < names[j]
		})
		if _, err := fmt.Fprintf(w, "# %s (%d)\n", lvl.t, len(names)); err != nil {
			return err
		}
		for _, n := range names {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", lvl.m[n], n); err != nil {
				return err
			}
		}
	}
	return nil
}
