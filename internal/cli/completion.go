package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/pipeline"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for texgraph.

Completions cover scene files, output formats, document classes and the
object names declared in the scene being rendered.

  $ source <(texgraph completion bash)
  $ texgraph completion zsh > "${fpath[1]}/_texgraph"
  $ texgraph completion fish > ~/.config/fish/completions/texgraph.fish
  PS> texgraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeSceneFile offers *.toml, *.yaml and *.yml files for the first
// argument.
func completeSceneFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeObjects lists the objects declared in the scene named by the
// first argument.
func completeObjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 || args[0] == stdio {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := scene.LoadFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return s.ObjectNames(), cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated format list.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, len(pipeline.Formats))
	for i, f := range pipeline.Formats {
		out[i] = prefix + f
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeClasses(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range document.Classes() {
		out = append(out, string(c))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{string(document.KindNode), string(document.KindEdge)}, cobra.ShellCompDirectiveNoFileComp
}
