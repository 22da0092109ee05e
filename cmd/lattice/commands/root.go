// ABOUTME: Root command for the lattice CLI
// ABOUTME: Wires subcommands and the shared verbosity flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Semantic content lattice",
		Long: `Lattice ingests text, images, audio, and media URLs into
collections, embeds everything into a shared vector space, and projects
each collection onto a 2D plane where similar items sit near each other.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewCollectionsCmd())
	cmd.AddCommand(NewReconcileCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
