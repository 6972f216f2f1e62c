package leave

import "sync"

// =============================================================================
// KEYED LOCKS - Per-record serialization of read-modify-write sequences
// =============================================================================

// keyedLocks hands out one mutex per string key. The ledger locks on
// (employee, leave type, year) and the quota tracker on (employee, year,
// month): two concurrent approvals against the same bounded pool must not
// both pass a capacity check only one can satisfy, while requests against
// different pools proceed in parallel.
//
// Lock entries are never removed; the key space is bounded by employees x
// leave types x years actually touched.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	k.locks[key] = l
	return l
}

// withLock runs fn while holding the mutex for key.
func (k *keyedLocks) withLock(key string, fn func() error) error {
	l := k.get(key)
	l.Lock()
	defer l.Unlock()
	return fn()
}
