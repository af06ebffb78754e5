package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/commands/options"
	"tableflip.dev/pods/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	po := &options.PageOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
pods ui
pods ui --page feed
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := app.ParsePage(po.Page)
			if err != nil {
				return err
			}
			s, err := newSession(true)
			if err != nil {
				return err
			}
			defer s.Close()
			i := ui.UI{Service: s.Service, Page: page, Logger: s.Logger}
			return i.Do(cmd.Context())
		},
	}

	options.AddPageArg(cmd, po)
	_ = cmd.RegisterFlagCompletionFunc("page", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pageCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
