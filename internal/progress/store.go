// Package progress owns the canonical progress record and its persistence.
package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/jagarana/internal/clock"
	"github.com/rcliao/jagarana/internal/model"
	"github.com/rcliao/jagarana/internal/store"
)

// DefaultKey is the slot key the record lives under.
const DefaultKey = "jagarana_v1"

// Store loads, sanitizes and saves the progress record. It is not safe for
// concurrent use; a session owns exactly one Store.
type Store struct {
	slot   store.Slot
	key    string
	clock  clock.Clock
	logger *zap.Logger

	data      model.Progress
	available bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the clock used for save timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store over slot holding a default record. Call Load to
// rehydrate persisted progress.
func New(slot store.Slot, opts ...Option) *Store {
	s := &Store{
		slot:      slot,
		key:       DefaultKey,
		clock:     clock.System{},
		logger:    zap.NewNop(),
		available: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = model.Defaults(s.clock.Now())
	return s
}

// Load replaces the record with the persisted one. Corrupt or incompatible
// data is purged and defaults are kept; an unusable slot disables persistence.
func (s *Store) Load(ctx context.Context) {
	s.data = model.Defaults(s.clock.Now())

	if err := s.slot.Probe(ctx); err != nil {
		s.disable(err)
		return
	}

	raw, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.disable(err)
		return
	}
	if !ok || len(raw) == 0 {
		return
	}

	rec, err := Decode(raw, s.clock.Now())
	if err != nil {
		s.logger.Warn("discarding stored progress", zap.String("key", s.key), zap.Error(err))
		if err := s.slot.Delete(ctx, s.key); err != nil {
			s.logger.Warn("purge stored progress", zap.Error(err))
		}
		return
	}
	s.data = rec
}

// Record returns the live record. The pointer stays valid across Load and
// Reset, so components may hold on to it.
func (s *Store) Record() *model.Progress {
	return &s.data
}

// Snapshot returns a deep copy of the record.
func (s *Store) Snapshot() model.Progress {
	return s.data.Clone()
}

// Available reports whether writes still reach the durable slot.
func (s *Store) Available() bool {
	return s.available
}

// Save stamps last_saved_at and writes the record. After the first failed
// write the slot is abandoned for the rest of the session.
func (s *Store) Save(ctx context.Context) {
	s.data.LastSavedAt = model.FormatTime(s.clock.Now())
	if !s.available {
		return
	}

	b, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Error("encode progress", zap.Error(err))
		return
	}
	if err := s.slot.Put(ctx, s.key, b); err != nil {
		s.disable(err)
	}
}

// Reset replaces the record with defaults and saves immediately.
func (s *Store) Reset(ctx context.Context) {
	s.data = model.Defaults(s.clock.Now())
	s.Save(ctx)
}

// Export encodes the current record.
func (s *Store) Export() ([]byte, error) {
	return json.MarshalIndent(s.data, "", "  ")
}

// Import replaces the record with a document produced by Export, applying
// the same version gate and sanitization as Load, then saves it.
func (s *Store) Import(ctx context.Context, raw []byte) error {
	rec, err := Decode(raw, s.clock.Now())
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.data = rec
	s.Save(ctx)
	return nil
}

func (s *Store) disable(err error) {
	if !s.available {
		return
	}
	s.available = false
	s.logger.Warn("storage unavailable, progress will not persist this session", zap.Error(err))
}
