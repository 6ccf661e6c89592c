package watch

import "sync"

// Ledger is the in-memory set of notification IDs already surfaced as
// alerts in the current poll session. Membership and insertion are the
// only operations; entries leave only via a full Reset on logout or
// account switch. It is bounded by notifications actually received,
// not by polling frequency, so it is never evicted mid-session.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Seen reports whether id has already been surfaced.
func (l *Ledger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

// Mark records id as surfaced.
func (l *Ledger) Mark(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen[id] = struct{}{}
}

// MarkIfNew records id and reports whether it was previously unseen.
// Check and insert happen under one lock, so two records carrying the
// same id in a single batch cannot both pass.
func (l *Ledger) MarkIfNew(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	return true
}

// Reset drops every entry. Called when the authenticated user goes
// away or changes identity, so stale state cannot suppress the next
// account's alerts.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen = make(map[string]struct{})
}

// Len returns the number of surfaced IDs.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.seen)
}
