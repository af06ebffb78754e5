package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/commands/options"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/runner/queue"
)

func addReorder(topLevel *cobra.Command) {
	ro := &options.ReorderOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "move an episode within the queue",
		Long: options.Wrap80(`Move an episode within the queue the way a drag and drop would: the
episode is removed and inserted at the target position, clamped to the end of
the queue. With --ids the whole order is replaced instead.`),
		Example: `
pods reorder --id 42 --to 0
pods reorder --ids 3,1,2
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(ro.IDs) == 0 && !cmd.Flags().Changed("id") {
				return errors.New("either --id or --ids is required")
			}
			if len(ro.IDs) > 0 && cmd.Flags().Changed("id") {
				return errors.New("--id and --ids can not be combined")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(ro.IDs)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()
			r := queue.Reorder{
				ID:      episode.ID(ro.ID),
				To:      ro.To,
				IDs:     ids,
				JSON:    output.JSON,
				ShowID:  io.ShowID,
				Service: s.Service,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddReorderArgs(cmd, ro)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func parseIDs(raw []string) ([]episode.ID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]episode.ID, 0, len(raw))
	seen := make(map[episode.ID]bool, len(raw))
	for _, r := range raw {
		id, err := episode.ParseID(r)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, errors.New("duplicate episode id " + id.String())
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
