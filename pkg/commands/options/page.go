package options

import (
	"github.com/spf13/cobra"
)

// PageOptions
type PageOptions struct {
	Page string
	All  bool
}

func AddPageArg(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().StringVarP(&o.Page, "page", "p", "queue",
		"Page to show: feed, queue, history or saved.")
}

func AddAllPagesArg(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Show every page.")
}
