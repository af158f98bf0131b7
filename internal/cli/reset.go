package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		Long:  "Erase all progress, including completed rounds and the certificate requirements. Irreversible.",
		Run:   runReset,
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset (required)")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")

	s := mustOpenSession(cmd)
	defer s.Close()

	if err := s.tr.ResetAllProgress(cmd.Context(), yes); err != nil {
		exitErr("reset", err)
	}
	printJSON(cmd, map[string]any{"ok": true, "storage_available": s.tr.StorageAvailable()})
}
