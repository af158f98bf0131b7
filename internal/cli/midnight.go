package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/jagarana/internal/timer"
	"github.com/rcliao/jagarana/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "midnight",
		Short: "The midnight event and stillness",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Check once whether the midnight window has opened",
		Args:  cobra.NoArgs,
		Run:   runMidnightCheck,
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Wait for the midnight window",
		Args:  cobra.NoArgs,
		Run:   runMidnightWatch,
	}
	watch.Flags().Duration("interval", 0, "Poll interval (default: $JAGARANA_MIDNIGHT_POLL or 30s)")

	stillness := &cobra.Command{
		Use:   "stillness",
		Short: "Sit the five-minute midnight stillness",
		Args:  cobra.NoArgs,
		Run:   runStillness,
	}
	stillness.Flags().Bool("headless", false, "Run without the terminal screen")

	cmd.AddCommand(check, watch, stillness)
	RootCmd.AddCommand(cmd)
}

type midnightOutput struct {
	InWindow  bool     `json:"in_window"`
	Fired     bool     `json:"fired"`
	Triggered bool     `json:"triggered"`
	Done      bool     `json:"done"`
	Events    []string `json:"events"`
}

func midnightStatus(s *session, fired bool) midnightOutput {
	p := s.tr.Snapshot()
	return midnightOutput{
		InWindow:  s.tr.InMidnightWindow(),
		Fired:     fired,
		Triggered: p.MidnightTriggered,
		Done:      p.MidnightDone,
		Events:    s.events.Lines(),
	}
}

func runMidnightCheck(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	fired := s.tr.PollMidnight(cmd.Context())
	printJSON(cmd, midnightStatus(s, fired))
}

func runMidnightWatch(cmd *cobra.Command, args []string) {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.MidnightPoll
	}

	s := mustOpenSession(cmd)
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fired, err := s.tr.WatchMidnight(ctx, interval)
	if err != nil && !errors.Is(err, context.Canceled) {
		exitErr("watch", err)
	}
	printJSON(cmd, midnightStatus(s, fired))
}

func runStillness(cmd *cobra.Command, args []string) {
	headless, _ := cmd.Flags().GetBool("headless")

	s := mustOpenSession(cmd)
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var completed bool
	var err error
	if headless {
		completed, err = stillnessHeadless(ctx, s)
	} else {
		completed, err = tui.Run(ctx, tui.StillnessDriver(ctx, s.tr))
		s.tr.DismissStillness()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		exitErr("stillness", err)
	}

	st := s.tr.State()
	printJSON(cmd, countdownOutput{
		Completed: completed,
		Remaining: s.tr.StillnessRemaining(),
		Unlocked:  st.Unlocked,
		Events:    s.events.Lines(),
	})
}

func stillnessHeadless(ctx context.Context, s *session) (bool, error) {
	h, err := s.tr.StartStillness()
	if err != nil {
		return false, err
	}
	completed := false
	err = timer.Drive(ctx, time.Second, func() bool {
		res := s.tr.TickStillness(ctx, h)
		completed = res.Completed
		return res.Completed || res.Stale
	})
	if err != nil {
		s.tr.DismissStillness()
	}
	return completed, err
}
