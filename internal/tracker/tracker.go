// Package tracker wires the progress record, bead progression, timers,
// content and certificate gate into a single session object.
package tracker

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/jagarana/internal/certificate"
	"github.com/rcliao/jagarana/internal/clock"
	"github.com/rcliao/jagarana/internal/content"
	"github.com/rcliao/jagarana/internal/mala"
	"github.com/rcliao/jagarana/internal/midnight"
	"github.com/rcliao/jagarana/internal/model"
	"github.com/rcliao/jagarana/internal/progress"
	"github.com/rcliao/jagarana/internal/store"
	"github.com/rcliao/jagarana/internal/timer"
)

// ErrNotConfirmed is returned by ResetAllProgress without confirmation.
var ErrNotConfirmed = errors.New("reset not confirmed")

// Tracker owns one session's progress. It is not safe for concurrent use;
// every call, including ticks, must come from the owning goroutine.
type Tracker struct {
	store    *progress.Store
	clock    clock.Clock
	logger   *zap.Logger
	listener Listener
	catalog  *content.Catalog
	rng      *mrand.Rand
	entropy  io.Reader
	strict   bool
	minutes  int

	mala        *mala.Mala
	meditation  *timer.Meditation
	watcher     *midnight.Watcher
	stillness   *midnight.Stillness
	reflections *content.Reflections
	quiz        *content.Quiz

	unlocked      bool
	storageWarned bool
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithClock(c clock.Clock) Option { return func(t *Tracker) { t.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(t *Tracker) { t.logger = l } }

func WithListener(l Listener) Option { return func(t *Tracker) { t.listener = l } }

// WithCatalog replaces the embedded catalogs.
func WithCatalog(c *content.Catalog) Option { return func(t *Tracker) { t.catalog = c } }

// WithRand makes content selection deterministic.
func WithRand(r *mrand.Rand) Option { return func(t *Tracker) { t.rng = r } }

// WithEntropy sets the randomness source for certificate ids.
func WithEntropy(r io.Reader) Option { return func(t *Tracker) { t.entropy = r } }

// WithStrictOrder sets the initial bead order mode. The default is strict.
func WithStrictOrder(strict bool) Option { return func(t *Tracker) { t.strict = strict } }

// WithMeditationMinutes sets the initial meditation length.
func WithMeditationMinutes(minutes int) Option { return func(t *Tracker) { t.minutes = minutes } }

// New loads the persisted record from slot and returns a ready tracker.
func New(ctx context.Context, slot store.Slot, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		clock:    clock.System{},
		logger:   zap.NewNop(),
		listener: NopListener{},
		entropy:  rand.Reader,
		strict:   true,
		minutes:  timer.DefaultMinutes,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.catalog == nil {
		c, err := content.LoadCatalog()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		t.catalog = c
	}

	t.store = progress.New(slot,
		progress.WithClock(t.clock),
		progress.WithLogger(t.logger.Named("progress")),
	)
	t.store.Load(ctx)

	if err := t.wire(); err != nil {
		return nil, err
	}
	t.unlocked = certificate.Unlocked(*t.store.Record())
	t.checkStorage()
	t.logger.Debug("session loaded",
		zap.Int("round", t.store.Record().RoundCount),
		zap.Int("tapped", t.store.Record().Tapped()),
		zap.Bool("storage", t.store.Available()),
	)
	return t, nil
}

// wire builds the components over the live record. The record pointer is
// stable, so this runs once per tracker.
func (t *Tracker) wire() error {
	rec := t.store.Record()
	saver := saverFunc(t.save)

	med, err := timer.NewMeditation(rec, saver, t.clock, t.minutes)
	if err != nil {
		return err
	}
	t.meditation = med
	t.mala = mala.New(rec, saver)
	t.mala.SetStrict(t.strict)
	t.watcher = midnight.NewWatcher(rec, saver, t.clock)
	t.stillness = midnight.NewStillness(rec, saver, t.clock)
	t.reflections = content.NewReflections(t.catalog, rec, saver, t.rng)
	t.quiz = content.NewQuiz(t.catalog, rec, saver, t.rng)
	return nil
}

// reload resyncs the countdowns after the record was replaced wholesale.
func (t *Tracker) reload() {
	t.meditation.Reload()
	t.stillness.Dismiss()
}

type saverFunc func(context.Context)

func (f saverFunc) Save(ctx context.Context) { f(ctx) }

func (t *Tracker) save(ctx context.Context) {
	t.store.Save(ctx)
	t.checkStorage()
}

func (t *Tracker) checkStorage() {
	if t.store.Available() || t.storageWarned {
		return
	}
	t.storageWarned = true
	t.listener.StorageUnavailable()
}

// evaluateGate recomputes eligibility and reports transitions.
func (t *Tracker) evaluateGate() {
	now := certificate.Unlocked(*t.store.Record())
	if now == t.unlocked {
		return
	}
	t.unlocked = now
	t.logger.Info("certificate gate changed", zap.Bool("unlocked", now))
	t.listener.GateChanged(now)
}

// Snapshot returns a copy of the record.
func (t *Tracker) Snapshot() model.Progress { return t.store.Snapshot() }

// StorageAvailable reports whether progress still persists.
func (t *Tracker) StorageAvailable() bool { return t.store.Available() }

// TapBead applies a tap on bead index.
func (t *Tracker) TapBead(ctx context.Context, index int) mala.TapResult {
	res := t.mala.Tap(ctx, index)
	if !res.Accepted {
		t.logger.Debug("tap rejected", zap.Int("index", index), zap.String("reason", string(res.Reason)))
		return res
	}
	if res.Milestone > 0 {
		t.listener.Milestone(res.Milestone, res.Message)
	}
	if res.RoundComplete {
		t.logger.Info("round complete", zap.Int("round", res.Round))
		t.listener.RoundComplete(res.Round)
	}
	t.evaluateGate()
	return res
}

// SetStrictOrder toggles whether taps must follow bead order.
func (t *Tracker) SetStrictOrder(strict bool) {
	t.strict = strict
	t.mala.SetStrict(strict)
}

// ResetRound clears the current round's beads.
func (t *Tracker) ResetRound(ctx context.Context) {
	t.mala.ResetRound(ctx)
}

// StartTimer starts the meditation timer, first changing its length when
// minutes is positive and differs from the current one.
func (t *Tracker) StartTimer(ctx context.Context, minutes int) (timer.Handle, error) {
	if minutes > 0 && minutes != t.meditation.Minutes() {
		if err := t.meditation.SetDuration(ctx, minutes); err != nil {
			return 0, err
		}
		t.minutes = minutes
	}
	return t.meditation.Start(), nil
}

// SetTimerDuration changes the meditation length without starting it.
func (t *Tracker) SetTimerDuration(ctx context.Context, minutes int) error {
	if err := t.meditation.SetDuration(ctx, minutes); err != nil {
		return err
	}
	t.minutes = minutes
	return nil
}

// PauseTimer pauses a running meditation.
func (t *Tracker) PauseTimer(ctx context.Context) bool {
	return t.meditation.Pause(ctx)
}

// ResetTimer clears the meditation timer and its completion.
func (t *Tracker) ResetTimer(ctx context.Context) {
	t.meditation.Reset(ctx)
	t.evaluateGate()
}

// TickTimer advances the meditation timer. Ticks with a stale handle are
// ignored.
func (t *Tracker) TickTimer(ctx context.Context, h timer.Handle) timer.TickResult {
	res := t.meditation.Tick(ctx, h)
	if res.Completed {
		t.logger.Info("meditation complete", zap.Int("minutes", t.meditation.Minutes()))
		t.evaluateGate()
	}
	return res
}

// BreathPhase returns the current breathing phase while the timer runs.
func (t *Tracker) BreathPhase() (timer.Phase, bool) { return t.meditation.BreathPhase() }

// PollMidnight checks the nightly window once and reports whether the event
// fired on this call.
func (t *Tracker) PollMidnight(ctx context.Context) bool {
	fired := t.watcher.Poll(ctx)
	if fired {
		t.logger.Info("midnight event triggered")
	}
	return fired
}

// InMidnightWindow reports whether the session clock is inside the nightly
// window.
func (t *Tracker) InMidnightWindow() bool { return t.watcher.InWindow() }

// WatchMidnight polls until the event fires or ctx ends.
func (t *Tracker) WatchMidnight(ctx context.Context, interval time.Duration) (bool, error) {
	return t.watcher.Watch(ctx, interval)
}

// StartStillness begins the midnight stillness countdown.
func (t *Tracker) StartStillness() (timer.Handle, error) {
	return t.stillness.Start()
}

// TickStillness advances the stillness countdown.
func (t *Tracker) TickStillness(ctx context.Context, h timer.Handle) midnight.Tick {
	res := t.stillness.Tick(ctx, h)
	if res.Completed {
		t.logger.Info("midnight stillness complete")
		t.evaluateGate()
	}
	return res
}

// DismissStillness abandons the stillness countdown.
func (t *Tracker) DismissStillness() bool { return t.stillness.Dismiss() }

// StillnessState reports the stillness countdown's state.
func (t *Tracker) StillnessState() timer.State { return t.stillness.State() }

// StillnessRemaining returns the seconds left in the stillness countdown.
func (t *Tracker) StillnessRemaining() int { return t.stillness.Remaining() }

// NextReflection returns a reflection and records it as seen.
func (t *Tracker) NextReflection(ctx context.Context) content.Reflection {
	return t.reflections.Next(ctx)
}

// NextQuestion returns a question, preferring unanswered ones.
func (t *Tracker) NextQuestion() content.Question { return t.quiz.Next() }

// AnswerQuiz grades and records an answer.
func (t *Tracker) AnswerQuiz(ctx context.Context, id string, selected int) (content.AnswerResult, error) {
	res, err := t.quiz.Answer(ctx, id, selected)
	if err != nil {
		return res, err
	}
	t.evaluateGate()
	return res, nil
}

// CertificateUnlocked reports whether the certificate may be issued.
func (t *Tracker) CertificateUnlocked() bool {
	return certificate.Unlocked(*t.store.Record())
}

// Checklist reports each certificate requirement.
func (t *Tracker) Checklist() certificate.Checklist {
	return certificate.Check(*t.store.Record())
}

// IssueCertificate mints a certificate when unlocked.
func (t *Tracker) IssueCertificate(name, lineage string) (certificate.Certificate, error) {
	return certificate.Issue(*t.store.Record(), name, lineage, t.clock.Now(), t.entropy)
}

// SetSound stores the sound preference.
func (t *Tracker) SetSound(ctx context.Context, on bool) {
	t.store.Record().SoundEnabled = on
	t.save(ctx)
}

// ResetAllProgress wipes the record. It requires explicit confirmation.
func (t *Tracker) ResetAllProgress(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	t.store.Reset(ctx)
	t.checkStorage()
	t.reload()
	t.logger.Info("progress reset")
	t.evaluateGate()
	return nil
}

// Export encodes the record.
func (t *Tracker) Export() ([]byte, error) { return t.store.Export() }

// Import replaces the record with an exported document.
func (t *Tracker) Import(ctx context.Context, raw []byte) error {
	if err := t.store.Import(ctx, raw); err != nil {
		return err
	}
	t.checkStorage()
	t.reload()
	t.evaluateGate()
	return nil
}
