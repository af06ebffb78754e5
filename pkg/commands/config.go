package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/runner/setup"
	"tableflip.dev/pods/pkg/store"
)

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage the pods config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "prompt for the server connection and write .pods.yaml",
		Example: `
pods config init
PODS_CONFIG_PATH=/etc/pods pods config init
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := setup.Setup{
				Path: path,
				In:   cmd.InOrStdin(),
				Out:  cmd.OutOrStdout(),
			}
			if cfg, err := store.LoadConfig(); err == nil {
				s.Defaults = store.Settings{
					Cache:    cfg.BasePath(),
					URL:      cfg.Server(),
					Key:      cfg.APIKey(),
					User:     cfg.UserID(),
					DebugOut: cfg.DebugLog(),
				}
			}
			return s.Do(cmd.Context())
		},
	}
	initCmd.Flags().StringVar(&path, "file", "", "config file to write (default $PODS_CONFIG_PATH/.pods.yaml or ~/.pods.yaml)")

	cmd.AddCommand(initCmd)
	topLevel.AddCommand(cmd)
}
