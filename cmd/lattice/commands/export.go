// ABOUTME: Export command writes collections to YAML or Markdown files
// ABOUTME: Optionally dumps raw embeddings to a JSON sidecar
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		format     string
		output     string
		embeddings string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export collections to a file",
		Long: `Export all collections with their entries and comments.

Formats:
  yaml      structured export suitable for backup or re-import
  markdown  human-readable document, one section per collection

Embeddings are not included in the main export; use --embeddings to
write them to a separate JSON file.`,
		Example: `  lattice export -o backup.yaml
  lattice export --format markdown -o collections.md
  lattice export -o backup.yaml --embeddings vectors.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			switch format {
			case "yaml":
				err = a.store.ExportToYAML(output)
			case "markdown":
				err = a.store.ExportToMarkdown(output)
			default:
				return fmt.Errorf("unknown format %q (want yaml or markdown)", format)
			}
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported collections to %s\n", output)
			}

			if embeddings != "" {
				if err := a.store.ExportEmbeddingsToJSON(embeddings); err != nil {
					return fmt.Errorf("exporting embeddings: %w", err)
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported embeddings to %s\n", embeddings)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Export format: yaml or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "lattice-export.yaml", "Output file path")
	cmd.Flags().StringVar(&embeddings, "embeddings", "", "Also write embeddings to this JSON file")

	return cmd
}
