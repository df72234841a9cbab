package coordinator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLeaseTTL covers a few missed renewals before ownership can move.
const DefaultLeaseTTL = 10 * time.Second

// Lease is a time-bounded single-writer token. The active coordinator
// renews it on every tick; another instance can only take over after the
// TTL has lapsed.
type Lease struct {
	ttl time.Duration

	mu      sync.Mutex
	owner   uuid.UUID
	held    bool
	expires time.Time
}

// NewLease creates a lease. Zero ttl uses DefaultLeaseTTL.
func NewLease(ttl time.Duration) *Lease {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &Lease{ttl: ttl}
}

// Acquire grants or renews the lease for owner. It fails while a different
// owner holds an unexpired lease.
func (l *Lease) Acquire(owner uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if l.held && l.owner != owner && now.Before(l.expires) {
		return false
	}

	l.owner = owner
	l.held = true
	l.expires = now.Add(l.ttl)
	return true
}

// Release gives the lease up early. Only the current owner can release.
func (l *Lease) Release(owner uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held && l.owner == owner {
		l.held = false
	}
}

// Holder returns the current owner, if the lease is held and unexpired.
func (l *Lease) Holder() (uuid.UUID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held || time.Now().After(l.expires) {
		return uuid.UUID{}, false
	}
	return l.owner, true
}
