package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/jagarana/internal/content"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Show a reflection",
		Long:  "Show a reflection, preferring ones not seen yet, and record it as seen.",
		Run:   runReflect,
	}

	RootCmd.AddCommand(cmd)
}

type reflectOutput struct {
	content.Reflection
	Seen int `json:"seen"`
}

func runReflect(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	ref := s.tr.NextReflection(cmd.Context())
	printJSON(cmd, reflectOutput{Reflection: ref, Seen: len(s.tr.Snapshot().ReflectionsSeen)})
}
