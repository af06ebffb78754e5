package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID  bool
	YouTube bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each episode.")
}

func AddYouTubeArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVar(&o.YouTube, "youtube", false,
		"The episode is a YouTube video.")
}
