// ABOUTME: Reconcile command repairs stale comment bookkeeping
// ABOUTME: Rebuilds each entry's advisory comment id list from parent links
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReconcileCmd creates the reconcile command
func NewReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair stale comment id lists",
		Long: `Repair stale comment id lists.

Comment attachment writes the parent link and the parent's comment id
list separately, so a crash between the two can leave the list stale.
Reconcile rebuilds every list from the authoritative parent links.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			repaired, err := a.store.Reconcile()
			if err != nil {
				return fmt.Errorf("reconciling: %w", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Reconciled %d entries\n", repaired)
			}
			return nil
		},
	}
}
