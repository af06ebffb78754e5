package options

import (
	"github.com/spf13/cobra"
)

// ReorderOptions
type ReorderOptions struct {
	ID  int32
	To  int
	IDs []string
}

func AddReorderArgs(cmd *cobra.Command, o *ReorderOptions) {
	cmd.Flags().Int32Var(&o.ID, "id", 0,
		"Episode to move.")
	cmd.Flags().IntVar(&o.To, "to", 0,
		"Zero-based position to drop the episode at.")
	cmd.Flags().StringSliceVar(&o.IDs, "ids", nil,
		"Replace the whole queue order, e.g. --ids 3,1,2.")
}
