package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	if s.sqlite == nil {
		exitErr("stats", errors.New("database is not available"))
	}

	stats, err := s.sqlite.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(cmd, stats)
}
