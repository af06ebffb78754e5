package commands

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
)

const installPath = "tableflip.dev/pods/cmd/pods"

func addUpgrade(topLevel *cobra.Command) {
	var ref string
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade pods cli.",
		Example: `
pods upgrade
pods upgrade --ref v0.3.0
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ex := exec.CommandContext(cmd.Context(), "go", "install", installTarget(ref))
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return output.HandleError(fmt.Errorf("%w: %s", err, bytes.TrimSpace(out.Bytes())))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ex.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "latest", "Version, branch or commit to install.")

	topLevel.AddCommand(cmd)
}

func installTarget(ref string) string {
	if ref == "" {
		ref = "latest"
	}
	return installPath + "@" + ref
}
