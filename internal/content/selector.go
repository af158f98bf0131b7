package content

import (
	"math/rand/v2"
	"slices"

	"github.com/rcliao/jagarana/internal/model"
)

// Selector picks ids from a catalog, preferring ones not yet in the seen list.
type Selector struct {
	ids  []string
	seen *[]string
	rng  *rand.Rand
}

// NewSelector selects from ids, tracking history in *seen. A nil rng uses the
// global source.
func NewSelector(ids []string, seen *[]string, rng *rand.Rand) *Selector {
	return &Selector{ids: ids, seen: seen, rng: rng}
}

// Pick returns an id drawn uniformly from the unseen ids. Once every id has
// been seen it draws from the whole catalog. It does not record the pick.
func (s *Selector) Pick() string {
	pool := s.Unseen()
	if len(pool) == 0 {
		pool = s.ids
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[s.intN(len(pool))]
}

// Unseen lists catalog ids not in the seen list, in catalog order.
func (s *Selector) Unseen() []string {
	var out []string
	for _, id := range s.ids {
		if !slices.Contains(*s.seen, id) {
			out = append(out, id)
		}
	}
	return out
}

// Mark records id as seen. Repeats are ignored, as are ids past the cap.
// It reports whether the list changed.
func (s *Selector) Mark(id string) bool {
	if id == "" || slices.Contains(*s.seen, id) || len(*s.seen) >= model.MaxSeenIDs {
		return false
	}
	*s.seen = append(*s.seen, id)
	return true
}

func (s *Selector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}
