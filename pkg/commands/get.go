package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/commands/options"
	"tableflip.dev/pods/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	po := &options.PageOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	long := strings.Builder{}
	long.WriteString("Get the episodes of a page, in display order.\n\n")
	long.WriteString("Pages and aliases:\n")
	long.WriteString("feed: home, recent\n")
	long.WriteString("queue: queued\n")
	long.WriteString("history\n")
	long.WriteString("saved\n")

	validArgs := make([]string, 0, len(app.Pages))
	for _, p := range app.Pages {
		validArgs = append(validArgs, p.String())
	}

	cmd := &cobra.Command{
		Use:   "get [page]",
		Short: "get the episodes of a page",
		Long:  long.String(),
		Example: `
pods get
pods get feed --show-id
pods get --all --json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			if len(args) == 1 {
				po.Page = args[0]
			}
			_, err := app.ParsePage(po.Page)
			return err
		},
		ValidArgs: validArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := app.ParsePage(po.Page)
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()
			g := get.Get{
				Page:    page,
				All:     po.All,
				ShowID:  io.ShowID,
				JSON:    oo.JSON,
				Width:   60,
				Service: s.Service,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(g.Do(cmd.Context()))
		},
	}

	po.Page = "queue"
	options.AddAllPagesArg(cmd, po)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
