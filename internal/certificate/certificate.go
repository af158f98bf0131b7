// Package certificate decides certificate eligibility and mints certificates.
package certificate

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/jagarana/internal/model"
)

const (
	MaxNameLength    = 50
	MinNameLength    = 2
	MaxLineageLength = 30
)

var (
	// ErrLocked is returned when a certificate is requested before it unlocks.
	ErrLocked = errors.New("certificate is locked")
	// ErrInvalidName is returned for names shorter than MinNameLength.
	ErrInvalidName = errors.New("name must be at least 2 characters")
)

// Unlocked reports whether every requirement is met. It is evaluated fresh
// on each call.
func Unlocked(p model.Progress) bool {
	c := Check(p)
	return c.Rounds && c.Quiz && c.Meditation
}

// Checklist lists each requirement and whether it is met.
type Checklist struct {
	Rounds     bool `json:"rounds"`
	Quiz       bool `json:"quiz"`
	Meditation bool `json:"meditation"`
}

// Check evaluates the requirements. Only round_count, quiz_attempted,
// meditation_done and midnight_done are consulted.
func Check(p model.Progress) Checklist {
	return Checklist{
		Rounds:     p.RoundCount >= model.RoundTarget,
		Quiz:       p.QuizAttempted,
		Meditation: p.MeditationDone || p.MidnightDone,
	}
}

// Certificate is the data a renderer needs. Rendering itself happens elsewhere.
type Certificate struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Lineage  string    `json:"lineage,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
	Summary  string    `json:"summary"`
}

var (
	controlWS  = regexp.MustCompile(`[\r\n\t]+`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// SanitizeLine flattens user text to a single trimmed line without angle
// brackets, at most maxLen runes long.
func SanitizeLine(s string, maxLen int) string {
	s = controlWS.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		s = strings.TrimSpace(string([]rune(s)[:maxLen]))
	}
	return s
}

// Issue mints a certificate for an unlocked record. entropy feeds the id's
// random component.
func Issue(p model.Progress, name, lineage string, now time.Time, entropy io.Reader) (Certificate, error) {
	if !Unlocked(p) {
		return Certificate{}, ErrLocked
	}
	name = SanitizeLine(name, MaxNameLength)
	if utf8.RuneCountInString(name) < MinNameLength {
		return Certificate{}, ErrInvalidName
	}

	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return Certificate{}, fmt.Errorf("mint certificate id: %w", err)
	}

	return Certificate{
		ID:       fmt.Sprintf("JSV-%s-%s", now.Format("20060102"), id.String()),
		Name:     name,
		Lineage:  SanitizeLine(lineage, MaxLineageLength),
		IssuedAt: now,
		Summary:  Summary(p),
	}, nil
}

// Summary is the one-line practice summary printed on the certificate.
func Summary(p model.Progress) string {
	status := "Meditation complete"
	if p.MidnightDone {
		status = "Midnight stillness complete"
	}
	return fmt.Sprintf("%d × %d = %d beads | %d reflections | %s",
		model.TotalBeads, model.RoundTarget, model.TotalBeads*model.RoundTarget,
		len(p.ReflectionsSeen), status)
}
