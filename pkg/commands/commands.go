package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
	logs   = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "pods",
		Short: options.Wrap80("Podcast episode lists and queue reordering on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, logs)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addReorder(topLevel)
	addQueue(topLevel)
	addInfo(topLevel)
	addConfig(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}
