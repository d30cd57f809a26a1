package tasklet

import "sync"

// registries indexes each [Scheduler]'s registry. Tasks never migrate
// across carriers, so the tables are independent of each other; nothing
// beyond this index coordinates across schedulers.
var registries sync.Map // Scheduler -> *registry

// A registry associates task identities with completion records for one
// scheduler. Entries are dropped by a cleanup hook tied to the lifetime of
// the [Task] handle (see [Start]), so piles of short-lived tasks do not
// accumulate records nobody can reach anymore.
type registry struct {
	sched Scheduler

	mu   sync.Mutex
	recs map[ID]*record
}

func registryFor(s Scheduler) *registry {
	if g, ok := registries.Load(s); ok {
		return g.(*registry)
	}
	g, _ := registries.LoadOrStore(s, &registry{sched: s})
	return g.(*registry)
}

// add registers rec under id. Identities are unique per scheduler, so this
// never replaces a live entry.
func (g *registry) add(id ID, rec *record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recs == nil {
		g.recs = make(map[ID]*record)
	}
	g.recs[id] = rec
}

// lookup returns the record for id, creating an empty one on first sight.
// A lazily-created record has not started, so joining it reports
// [ErrNotStarted].
func (g *registry) lookup(id ID) *record {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := g.recs[id]
	if rec == nil {
		if g.recs == nil {
			g.recs = make(map[ID]*record)
		}
		rec = newRecord()
		g.recs[id] = rec
	}
	return rec
}

// drop removes id. A registry whose last entry goes also removes itself
// from the scheduler index.
func (g *registry) drop(id ID) {
	g.mu.Lock()
	delete(g.recs, id)
	empty := len(g.recs) == 0
	g.mu.Unlock()

	if empty {
		registries.Delete(g.sched)
	}
}
