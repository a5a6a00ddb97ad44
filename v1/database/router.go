package database

import (
	"database/sql"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Mode selects the pool a statement is routed to.
type Mode uint8

const (
	// ReadWrite statements always run on the primary.
	ReadWrite Mode = iota
	// Read statements run on a replica when one is configured.
	Read
)

func (m Mode) String() string {
	if m == Read {
		return "read"
	}
	return "read_write"
}

// Target is a named connection pool.
type Target struct {
	Name string
	DB   *sql.DB
}

// Router picks the pool for a statement. ReadWrite goes to the primary; Read
// rotates over the replicas in round robin, or falls back to the primary when
// there are none.
type Router struct {
	primary  Target
	replicas []Target

	mu   sync.Mutex
	next int
}

// NewRouter creates a Router. Replicas may be empty.
func NewRouter(primary Target, replicas ...Target) *Router {
	return &Router{
		primary:  primary,
		replicas: append([]Target(nil), replicas...),
	}
}

// Target returns the pool for mode.
func (r *Router) Target(mode Mode) Target {
	if mode == ReadWrite {
		return r.primary
	}
	switch len(r.replicas) {
	case 0:
		return r.primary
	case 1:
		return r.replicas[0]
	}

	r.mu.Lock()
	t := r.replicas[r.next]
	r.next = (r.next + 1) % len(r.replicas)
	r.mu.Unlock()
	return t
}

// Primary returns the read-write pool.
func (r *Router) Primary() Target {
	return r.primary
}

// Replicas returns a copy of the read pools.
func (r *Router) Replicas() []Target {
	return append([]Target(nil), r.replicas...)
}

// Targets returns the primary followed by the replicas.
func (r *Router) Targets() []Target {
	return append([]Target{r.primary}, r.replicas...)
}

// isPrimary reports whether t shares the primary pool.
func (r *Router) isPrimary(t Target) bool {
	return t.DB == r.primary.DB
}

// Close closes every distinct pool once.
func (r *Router) Close() error {
	seen := make(map[*sql.DB]struct{})
	var g errgroup.Group
	for _, t := range r.Targets() {
		if t.DB == nil {
			continue
		}
		if _, ok := seen[t.DB]; ok {
			continue
		}
		seen[t.DB] = struct{}{}
		db := t.DB
		g.Go(db.Close)
	}
	return g.Wait()
}
