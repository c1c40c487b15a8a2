package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

func TestEveryCommandHasShortDescription(t *testing.T) {
	walkCommands(rootCmd, func(cmd *cobra.Command) {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return
		}
		if cmd.Short == "" {
			t.Errorf("command %q has no short description", cmd.CommandPath())
		}
	})
}

func TestEveryFlagHasUsage(t *testing.T) {
	walkCommands(rootCmd, func(cmd *cobra.Command) {
		cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "help" {
				return
			}
			if flag.Usage == "" {
				t.Errorf("flag --%s on %q has no usage text", flag.Name, cmd.CommandPath())
			}
		})
	})
}

func TestFileCommandsRequireArguments(t *testing.T) {
	for _, name := range []string{"convert", "export", "validate", "preview"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				if sub.Args == nil {
					t.Errorf("command %q does not constrain its arguments", name)
				}
			}
		}
		if !found {
			t.Errorf("command %q missing from CLI tree", name)
		}
	}
}
