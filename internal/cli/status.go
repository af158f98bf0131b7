package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/jagarana/internal/tracker"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show practice progress",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

type statusOutput struct {
	tracker.State
	Events []string `json:"events"`
}

func runStatus(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	printJSON(cmd, statusOutput{State: s.tr.State(), Events: s.events.Lines()})
}
