// Package cli implements the jagarana CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/jagarana/internal/config"
	"github.com/rcliao/jagarana/internal/store"
	"github.com/rcliao/jagarana/internal/tracker"
)

var (
	dbPath  string
	verbose bool

	cfg    config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "jagarana",
	Short: "Track a night of Shivaratri practice",
	Long: "Four rounds of 108 beads, reflections, a quiz, a meditation timer and the midnight stillness.\n" +
		"Progress is kept in a local SQLite file; a certificate unlocks once the practice is complete.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		cfg = c

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $JAGARANA_DB or ~/.jagarana/progress.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

// session is one command's view of the practice.
type session struct {
	tr     *tracker.Tracker
	slot   store.Slot
	sqlite *store.SQLiteSlot
	events *eventLog
}

func (s *session) Close() error { return s.slot.Close() }

// openSession opens the database and loads progress. A database that cannot
// be opened leaves the session running in memory only.
func openSession(ctx context.Context) (*session, error) {
	s := &session{events: &eventLog{}}

	sqlite, err := store.NewSQLiteSlot(cfg.DBPath, store.WithQuota(cfg.StorageQuota))
	if err != nil {
		logger.Warn("open database, continuing without persistence", zap.String("path", cfg.DBPath), zap.Error(err))
		s.slot = store.Disabled(err)
	} else {
		s.slot = sqlite
		s.sqlite = sqlite
	}

	tr, err := tracker.New(ctx, s.slot,
		tracker.WithLogger(logger),
		tracker.WithListener(s.events),
		tracker.WithStrictOrder(cfg.StrictOrder),
		tracker.WithMeditationMinutes(cfg.MeditationMinutes),
	)
	if err != nil {
		s.slot.Close()
		return nil, err
	}
	s.tr = tr
	return s, nil
}

func mustOpenSession(cmd *cobra.Command) *session {
	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	return s
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
