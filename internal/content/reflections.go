package content

import (
	"context"
	"math/rand/v2"

	"github.com/rcliao/jagarana/internal/model"
)

// Saver persists the record after a mutation.
type Saver interface {
	Save(ctx context.Context)
}

// Reflections serves reflection prompts, favouring unseen ones.
type Reflections struct {
	catalog *Catalog
	rec     *model.Progress
	saver   Saver
	sel     *Selector
}

func NewReflections(c *Catalog, rec *model.Progress, saver Saver, rng *rand.Rand) *Reflections {
	return &Reflections{
		catalog: c,
		rec:     rec,
		saver:   saver,
		sel:     NewSelector(c.ReflectionIDs(), &rec.ReflectionsSeen, rng),
	}
}

// Next picks a reflection, records it as seen and saves when the seen list
// grew.
func (r *Reflections) Next(ctx context.Context) Reflection {
	id := r.sel.Pick()
	if r.sel.Mark(id) {
		r.saver.Save(ctx)
	}
	ref, _ := r.catalog.Reflection(id)
	return ref
}

// Seen returns how many distinct reflections have been shown.
func (r *Reflections) Seen() int { return len(r.rec.ReflectionsSeen) }

// Total returns the catalog size.
func (r *Reflections) Total() int { return len(r.catalog.Reflections) }
