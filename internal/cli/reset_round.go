package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset-round",
		Short: "Clear the beads of the current round",
		Run:   runResetRound,
	}

	RootCmd.AddCommand(cmd)
}

func runResetRound(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	s.tr.ResetRound(cmd.Context())
	st := s.tr.State()
	printJSON(cmd, map[string]any{"ok": true, "round": st.Progress.RoundCount, "tapped": st.Tapped})
}
