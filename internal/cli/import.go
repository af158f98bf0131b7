package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import progress from JSON",
		Long: "Import progress from JSON (stdin or file). Expects the format produced by export.\n" +
			"Fields that fail validation fall back to their defaults; an unknown schema version is rejected.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		exitErr("read input", err)
	}

	s := mustOpenSession(cmd)
	defer s.Close()

	if err := s.tr.Import(cmd.Context(), data); err != nil {
		exitErr("import", err)
	}

	st := s.tr.State()
	printJSON(cmd, map[string]any{
		"ok":                true,
		"round":             st.Progress.RoundCount,
		"unlocked":          st.Unlocked,
		"storage_available": st.StorageAvailable,
	})
}
