package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/jagarana/internal/timer"
	"github.com/rcliao/jagarana/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "meditate",
		Short: "Run the meditation timer",
		Long: "Run the meditation timer. A paused session resumes where it left off.\n" +
			"Progress is checkpointed every 10 seconds, on pause and on quit.",
		Run: runMeditate,
	}

	cmd.Flags().IntP("minutes", "m", 0, "Meditation length in minutes (default: $JAGARANA_MEDITATION_MINUTES or 11)")
	cmd.Flags().Bool("headless", false, "Run without the terminal screen, printing the result when done")
	cmd.Flags().Bool("reset", false, "Clear the meditation timer and exit")

	RootCmd.AddCommand(cmd)
}

type countdownOutput struct {
	Completed bool     `json:"completed"`
	Elapsed   int      `json:"elapsed,omitempty"`
	Remaining int      `json:"remaining"`
	Unlocked  bool     `json:"unlocked"`
	Events    []string `json:"events"`
}

func runMeditate(cmd *cobra.Command, args []string) {
	minutes, _ := cmd.Flags().GetInt("minutes")
	headless, _ := cmd.Flags().GetBool("headless")
	reset, _ := cmd.Flags().GetBool("reset")

	s := mustOpenSession(cmd)
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if reset {
		s.tr.ResetTimer(ctx)
		printMeditation(cmd, s, false)
		return
	}

	if minutes > 0 && minutes != s.tr.State().Meditation.Minutes {
		if err := s.tr.SetTimerDuration(ctx, minutes); err != nil {
			exitErr("set duration", err)
		}
	}

	var completed bool
	var err error
	if headless {
		completed, err = meditateHeadless(ctx, s)
	} else {
		completed, err = tui.Run(ctx, tui.MeditationDriver(ctx, s.tr))
		s.tr.PauseTimer(context.WithoutCancel(ctx))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		exitErr("meditate", err)
	}
	printMeditation(cmd, s, completed)
}

// meditateHeadless ticks the timer once a second until it completes or ctx
// ends, pausing on the way out so the elapsed time is kept.
func meditateHeadless(ctx context.Context, s *session) (bool, error) {
	h, err := s.tr.StartTimer(ctx, 0)
	if err != nil {
		return false, err
	}
	completed := false
	err = timer.Drive(ctx, time.Second, func() bool {
		res := s.tr.TickTimer(ctx, h)
		logger.Debug("meditation tick", zap.Int("remaining", res.Remaining), zap.String("phase", res.Phase.Name))
		completed = res.Completed
		return res.Completed || res.Stale
	})
	if err != nil {
		s.tr.PauseTimer(context.WithoutCancel(ctx))
	}
	return completed, err
}

func printMeditation(cmd *cobra.Command, s *session, completed bool) {
	st := s.tr.State()
	printJSON(cmd, countdownOutput{
		Completed: completed || st.Progress.MeditationDone,
		Elapsed:   st.Meditation.Elapsed,
		Remaining: st.Meditation.Remaining,
		Unlocked:  st.Unlocked,
		Events:    s.events.Lines(),
	})
}
