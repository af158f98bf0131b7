package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "sound on|off",
		Short:     "Store the sound preference",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		Run:       runSound,
	}

	RootCmd.AddCommand(cmd)
}

func runSound(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	on := args[0] == "on"
	s.tr.SetSound(cmd.Context(), on)
	printJSON(cmd, map[string]any{"ok": true, "sound_enabled": on})
}
