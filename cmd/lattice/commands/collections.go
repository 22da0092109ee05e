// ABOUTME: CLI commands to inspect collections
// ABOUTME: Lists collections, shows entries, and prints 2D projections
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var collectionsJSON bool

// NewCollectionsCmd creates the collections command group
func NewCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections",
		Long: `List collections with their entry counts.

Examples:
  lattice collections
  lattice collections show reading
  lattice collections project reading`,
		RunE: runCollections,
	}

	cmd.PersistentFlags().BoolVar(&collectionsJSON, "json", false, "Output as JSON")

	cmd.AddCommand(newCollectionsShowCmd())
	cmd.AddCommand(newCollectionsProjectCmd())

	return cmd
}

func runCollections(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	infos, err := a.collections.Collections()
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	if collectionsJSON {
		return printJSON(cmd, infos)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENTRIES")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\n", info.Name, info.Count)
	}
	return w.Flush()
}

func newCollectionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the entries of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.collections.View(args[0])
			if err != nil {
				return fmt.Errorf("loading collection: %w", err)
			}

			if collectionsJSON {
				return printJSON(cmd, entries)
			}

			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]  %s\n  %s\n",
					e.ID[:8], e.Metadata.Type, formatTime(e.CreatedAt), truncate(e.Data, 100))
				for _, c := range e.Comments {
					fmt.Fprintf(cmd.OutOrStdout(), "    ↳ %s  %s\n      %s\n",
						c.ID[:8], formatTime(c.CreatedAt), truncate(c.Data, 90))
				}
			}
			return nil
		},
	}
}

func newCollectionsProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <name>",
		Short: "Print the 2D projection of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			placed, err := a.collections.ProjectCollection(args[0])
			if err != nil {
				return fmt.Errorf("projecting collection: %w", err)
			}

			if collectionsJSON {
				return printJSON(cmd, placed)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tX\tY")
			for _, p := range placed {
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", p.ID[:8], p.Position.X, p.Position.Y)
			}
			return w.Flush()
		},
	}
}

// printJSON writes v to the command's stdout as indented JSON
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
