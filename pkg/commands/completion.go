package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/app"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generates shell completion scripts",
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.OnlyValidArgs,
		Long: `To load completion run

. <(pods completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(pods completion)

zsh and fish scripts are printed with "pods completion zsh" and "pods completion fish".
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			default:
				return topLevel.GenBashCompletion(out)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

func pageCompletions(toComplete string) []string {
	out := make([]string, 0, len(app.Pages))
	for _, p := range app.Pages {
		if strings.HasPrefix(p.String(), toComplete) {
			out = append(out, p.String())
		}
	}
	return out
}
