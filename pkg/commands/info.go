package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "show the config and cached pages",
		Example: `
pods info
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(false)
			if err != nil {
				return err
			}
			defer s.Close()
			i := info.Info{Config: s.Config, Cache: s.Cache, Out: cmd.OutOrStdout()}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
