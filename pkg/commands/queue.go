package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/commands/options"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/runner/queue"
)

func addQueue(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "add or remove queued episodes",
		Example: `
pods queue add 42
pods queue remove 42
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addQueueMembership(cmd, "add", "add an episode to the end of the queue", false)
	addQueueMembership(cmd, "remove", "remove an episode from the queue", true)

	topLevel.AddCommand(cmd)
}

func addQueueMembership(topLevel *cobra.Command, use, short string, remove bool) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   use + " <episode id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := episode.ParseID(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()
			m := queue.Membership{
				ID:      id,
				YouTube: io.YouTube,
				Remove:  remove,
				JSON:    output.JSON,
				Service: s.Service,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}
	if remove {
		cmd.Aliases = []string{"rm"}
	}

	options.AddYouTubeArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
