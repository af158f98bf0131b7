package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/jagarana/internal/mala"
	"github.com/rcliao/jagarana/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tap [bead...]",
		Short: "Tap beads",
		Long: "Tap beads by number (1-108). With no bead numbers, taps the next untapped bead,\n" +
			"--count times. Tapping stops at the first rejected tap.",
		Run: runTap,
	}

	cmd.Flags().IntP("count", "c", 1, "Number of beads to tap when no bead numbers are given")
	cmd.Flags().Bool("strict", true, "Require beads in order")

	RootCmd.AddCommand(cmd)
}

type tapOutput struct {
	Results []mala.TapResult `json:"results"`
	Round   int              `json:"round"`
	Tapped  int              `json:"tapped"`
	Events  []string         `json:"events"`
}

func runTap(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")

	beads := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			exitErr("parse bead number", err)
		}
		beads = append(beads, n-1)
	}
	if len(beads) == 0 && count < 1 {
		exitErr("tap", fmt.Errorf("count must be at least 1, got %d", count))
	}

	s := mustOpenSession(cmd)
	defer s.Close()

	if cmd.Flags().Changed("strict") {
		strict, _ := cmd.Flags().GetBool("strict")
		s.tr.SetStrictOrder(strict)
	}

	ctx := cmd.Context()
	var results []mala.TapResult
	if len(beads) > 0 {
		for _, b := range beads {
			res := s.tr.TapBead(ctx, b)
			results = append(results, res)
			if !res.Accepted {
				break
			}
		}
	} else {
		for i := 0; i < count; i++ {
			res := s.tr.TapBead(ctx, firstUntapped(s.tr.Snapshot()))
			results = append(results, res)
			if !res.Accepted {
				break
			}
		}
	}

	st := s.tr.State()
	printJSON(cmd, tapOutput{
		Results: results,
		Round:   st.Progress.RoundCount,
		Tapped:  st.Tapped,
		Events:  s.events.Lines(),
	})
}

// firstUntapped returns the lowest untapped bead, or 0 when the round is
// full.
func firstUntapped(p model.Progress) int {
	for i, tapped := range p.Beads {
		if !tapped {
			return i
		}
	}
	return 0
}
